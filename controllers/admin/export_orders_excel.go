package adminControllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/amanymoammer22/backend/apierrors"
	"github.com/amanymoammer22/backend/models"
)

// GET /admin/orders/export-excel
func ExportOrdersToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.Preload("Items").Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
			apierrors.Respond(c, err)
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Orders")
		if err != nil {
			apierrors.Respond(c, err)
			return
		}

		headers := []string{
			"ID", "CustomerName", "CustomerEmail", "CustomerPhone",
			"Items", "Total", "Status", "CreatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, order := range orders {
			row := sheet.AddRow()
			row.AddCell().SetValue(order.ID)
			row.AddCell().SetValue(order.Customer.Name)
			row.AddCell().SetValue(order.Customer.Email)
			row.AddCell().SetValue(order.Customer.Phone)

			var lines []string
			for _, item := range order.Items {
				lines = append(lines, item.Title+" x"+strconv.Itoa(item.Quantity))
			}
			row.AddCell().SetValue(strings.Join(lines, "; "))

			row.AddCell().SetValue(order.Total)
			row.AddCell().SetValue(string(order.Status))
			row.AddCell().SetValue(order.CreatedAt.Format("2006-01-02 15:04:05"))
		}

		c.Header("Content-Disposition", "attachment; filename=orders.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
	}
}
