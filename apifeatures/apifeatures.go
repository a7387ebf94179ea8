// Package apifeatures turns the raw query string of a list endpoint into a
// fully-specified gorm read query: equality/comparison filters, keyword
// search, sort order, pagination window and column projection, applied in
// that fixed order. Every collection-listing handler goes through it.
package apifeatures

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// Op is a comparison operator carried by a bracketed filter key,
// e.g. price[gte]=20.
type Op string

const (
	OpEq  Op = "eq"
	OpNe  Op = "ne"
	OpGt  Op = "gt"
	OpGte Op = "gte"
	OpLt  Op = "lt"
	OpLte Op = "lte"
)

var sqlOps = map[Op]string{
	OpEq:  "=",
	OpNe:  "<>",
	OpGt:  ">",
	OpGte: ">=",
	OpLt:  "<",
	OpLte: "<=",
}

// Reserved keys are never treated as filter terms.
var reserved = map[string]bool{
	"page":    true,
	"sort":    true,
	"limit":   true,
	"fields":  true,
	"keyword": true,
}

const (
	defaultPage  = 1
	defaultLimit = 50
)

type Filter struct {
	Field string
	Op    Op
	Value string
}

type SortField struct {
	Field string
	Desc  bool
}

// Options is the parsed, tagged form of a list request's query string.
type Options struct {
	Filters []Filter
	Keyword string
	Sort    []SortField
	Page    int
	Limit   int
	Fields  []string
}

// Schema declares the per-resource knowledge the pipeline needs: which
// columns keyword search matches, which fields hold entity references
// (their values must parse as numeric ids), and how incoming keys rename
// to columns (e.g. category -> category_id).
type Schema struct {
	SearchFields    []string
	ReferenceFields map[string]bool
	Renames         map[string]string
}

// BadReferenceError reports a reference-typed filter whose value is not a
// valid identifier. Callers map it to a validation failure.
type BadReferenceError struct {
	Field string
	Value string
}

func (e *BadReferenceError) Error() string {
	return fmt.Sprintf("invalid %s value %q", e.Field, e.Value)
}

// Parse builds Options from a query string. Unknown keys become filters;
// a key with a well-formed [op] suffix becomes a comparison, anything else
// an equality. Malformed bracket syntax keeps the whole key as a literal
// field name.
func Parse(values url.Values) Options {
	opts := Options{Page: defaultPage, Limit: defaultLimit}

	for key, vals := range values {
		if reserved[key] || len(vals) == 0 {
			continue
		}
		field, op := splitOperator(key)
		opts.Filters = append(opts.Filters, Filter{Field: field, Op: op, Value: vals[0]})
	}

	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 0 {
		opts.Page = page
	}
	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit > 0 {
		opts.Limit = limit
	}

	if keyword := strings.TrimSpace(values.Get("keyword")); keyword != "" {
		opts.Keyword = keyword
	}

	for _, part := range strings.Split(values.Get("sort"), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		desc := strings.HasPrefix(part, "-")
		opts.Sort = append(opts.Sort, SortField{Field: strings.TrimPrefix(part, "-"), Desc: desc})
	}

	for _, part := range strings.Split(values.Get("fields"), ",") {
		if part = strings.TrimSpace(part); part != "" {
			opts.Fields = append(opts.Fields, part)
		}
	}

	return opts
}

func splitOperator(key string) (string, Op) {
	open := strings.Index(key, "[")
	if open > 0 && strings.HasSuffix(key, "]") {
		op := Op(key[open+1 : len(key)-1])
		if _, ok := sqlOps[op]; ok {
			return key[:open], op
		}
	}
	return key, OpEq
}

// Run executes the pipeline over base (already scoped with Model): counts
// the rows matching filter+search only, then returns the data query with
// sort, window and projection applied, plus the pagination metadata.
func (o Options) Run(base *gorm.DB, s Schema) (*gorm.DB, Pagination, error) {
	countQuery, err := o.Conditions(base.Session(&gorm.Session{}), s)
	if err != nil {
		return nil, Pagination{}, err
	}
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}

	dataQuery, err := o.Conditions(base.Session(&gorm.Session{}), s)
	if err != nil {
		return nil, Pagination{}, err
	}

	offset, pagination := o.Paginate(total)
	dataQuery = dataQuery.Order(o.OrderClause()).Offset(offset).Limit(o.Limit)
	if selects := o.Selects(); len(selects) > 0 {
		dataQuery = dataQuery.Select(selects)
	}
	return dataQuery, pagination, nil
}

// Conditions applies the filter and search stages. Filters AND together;
// search conditions OR together and AND with the filters. Unsafe field
// names are dropped rather than rejected.
func (o Options) Conditions(tx *gorm.DB, s Schema) (*gorm.DB, error) {
	for _, f := range o.Filters {
		column := s.column(f.Field)
		if column == "" {
			continue
		}
		if s.ReferenceFields[column] {
			id, err := strconv.ParseUint(f.Value, 10, 64)
			if err != nil {
				return nil, &BadReferenceError{Field: f.Field, Value: f.Value}
			}
			tx = tx.Where(fmt.Sprintf("%s %s ?", column, sqlOps[f.Op]), id)
			continue
		}
		tx = tx.Where(fmt.Sprintf("%s %s ?", column, sqlOps[f.Op]), f.Value)
	}

	if o.Keyword != "" && len(s.SearchFields) > 0 {
		clauses := make([]string, 0, len(s.SearchFields))
		args := make([]interface{}, 0, len(s.SearchFields))
		pattern := "%" + strings.ToLower(o.Keyword) + "%"
		for _, field := range s.SearchFields {
			clauses = append(clauses, fmt.Sprintf("LOWER(%s) LIKE ?", field))
			args = append(args, pattern)
		}
		tx = tx.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}

	return tx, nil
}

// OrderClause renders the sort stage; absent or fully invalid sort input
// falls back to newest-first, id-descending.
func (o Options) OrderClause() string {
	parts := make([]string, 0, len(o.Sort))
	for _, sf := range o.Sort {
		column := sanitizeColumn(sf.Field)
		if column == "" {
			continue
		}
		if sf.Desc {
			parts = append(parts, column+" DESC")
		} else {
			parts = append(parts, column+" ASC")
		}
	}
	if len(parts) == 0 {
		return "created_at DESC, id DESC"
	}
	return strings.Join(parts, ", ")
}

// Selects returns the sanitized projection column list, or nil when all
// columns should be returned.
func (o Options) Selects() []string {
	var columns []string
	for _, field := range o.Fields {
		if column := sanitizeColumn(field); column != "" {
			columns = append(columns, column)
		}
	}
	return columns
}

func (s Schema) column(field string) string {
	column := sanitizeColumn(field)
	if column == "" {
		return ""
	}
	if renamed, ok := s.Renames[column]; ok {
		column = renamed
	}
	return column
}

var columnPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// sanitizeColumn converts an incoming field name to a snake_case column
// name and returns "" when the result is not a safe identifier.
func sanitizeColumn(field string) string {
	column := toSnake(strings.TrimSpace(field))
	if !columnPattern.MatchString(column) {
		return ""
	}
	return column
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
