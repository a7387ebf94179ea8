package apifeatures

// Pagination is the window metadata returned alongside list results.
// Next is present iff more records exist past the current window; Prev is
// present iff the window is offset.
type Pagination struct {
	CurrentPage   int  `json:"currentPage"`
	Limit         int  `json:"limit"`
	NumberOfPages int  `json:"numberOfPages"`
	Next          *int `json:"next,omitempty"`
	Prev          *int `json:"prev,omitempty"`
}

// Paginate computes the skip offset and the metadata for a total match
// count. The count must come from the filter+search stages only.
func (o Options) Paginate(total int64) (int, Pagination) {
	page := o.Page
	if page < 1 {
		page = defaultPage
	}
	limit := o.Limit
	if limit < 1 {
		limit = defaultLimit
	}

	offset := (page - 1) * limit

	pages := int((total + int64(limit) - 1) / int64(limit))
	if pages < 1 {
		pages = 1
	}

	pagination := Pagination{
		CurrentPage:   page,
		Limit:         limit,
		NumberOfPages: pages,
	}
	if int64(page)*int64(limit) < total {
		next := page + 1
		pagination.Next = &next
	}
	if page > 1 {
		prev := page - 1
		pagination.Prev = &prev
	}
	return offset, pagination
}
