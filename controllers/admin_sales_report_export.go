package controllers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"

	"github.com/Govind-619/QuickBite/config"
	"github.com/Govind-619/QuickBite/models"
	"github.com/Govind-619/QuickBite/services"
	"github.com/Govind-619/QuickBite/utils"
)

// maxExportRows bounds one spreadsheet export
const maxExportRows = 5000

var exportHeaders = []string{
	"Order No", "Customer", "Placed At", "Status", "Items", "Subtotal",
	"Coupon", "Discount", "CGST", "SGST", "Delivery", "Grand Total",
	"Payment", "Payment Status", "Invoice",
}

func customerLabel(order models.Order) string {
	if order.UserID != nil {
		return "User #" + strconv.FormatUint(uint64(*order.UserID), 10)
	}
	return order.GuestName + " (guest)"
}

// buildOrdersWorkbook lays orders out as one sheet with a totals block
func buildOrdersWorkbook(orders []models.Order) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return nil, err
	}

	title := sheet.AddRow()
	title.AddCell().SetString(utils.AppName + " order export")
	sheet.AddRow()

	headerRow := sheet.AddRow()
	style := xlsx.NewStyle()
	font := xlsx.DefaultFont()
	font.Bold = true
	style.Font = *font
	for _, h := range exportHeaders {
		cell := headerRow.AddCell()
		cell.SetString(h)
		cell.SetStyle(style)
	}

	var gross, discounts, tax float64
	delivered := 0
	for _, order := range orders {
		row := sheet.AddRow()
		row.AddCell().SetInt(int(order.OrderNumber))
		row.AddCell().SetString(customerLabel(order))
		row.AddCell().SetString(order.CreatedAt.Format("2006-01-02 15:04"))
		row.AddCell().SetString(order.Status)
		row.AddCell().SetInt(len(order.OrderItems))
		row.AddCell().SetFloat(order.Subtotal)
		row.AddCell().SetString(order.CouponCode)
		row.AddCell().SetFloat(order.DiscountAmount)
		row.AddCell().SetFloat(order.CGSTAmount)
		row.AddCell().SetFloat(order.SGSTAmount)
		row.AddCell().SetFloat(order.DeliveryFee)
		row.AddCell().SetFloat(order.GrandTotal)
		row.AddCell().SetString(order.PaymentMethod)
		row.AddCell().SetString(order.PaymentStatus)
		invoice := ""
		if order.InvoiceNumber != nil {
			invoice = *order.InvoiceNumber
		}
		row.AddCell().SetString(invoice)

		if order.Status == models.OrderStatusCancelled {
			continue
		}
		gross += order.GrandTotal
		discounts += order.DiscountAmount
		tax += order.TotalTax()
		if order.Status == models.OrderStatusDelivered {
			delivered++
		}
	}

	sheet.AddRow()
	summary := [][2]string{
		{"Orders", strconv.Itoa(len(orders))},
		{"Delivered", strconv.Itoa(delivered)},
		{"Gross (excl. cancelled)", utils.FormatMoney(gross)},
		{"Discounts", utils.FormatMoney(discounts)},
		{"Tax collected", utils.FormatMoney(tax)},
	}
	for _, line := range summary {
		row := sheet.AddRow()
		label := row.AddCell()
		label.SetString(line[0])
		label.SetStyle(style)
		row.AddCell().SetString(line[1])
	}
	return file, nil
}

// AdminExportOrders downloads the filtered orders as an Excel workbook
func AdminExportOrders(c *gin.Context) {
	utils.LogInfo("AdminExportOrders called")

	filter, ok := orderFilterFromQuery(c)
	if !ok {
		return
	}
	page := &utils.Pagination{Page: 1, Limit: maxExportRows}
	orders, err := services.ListOrders(config.DB, filter, page)
	if err != nil {
		utils.LogError("Failed to load orders for export: %v", err)
		utils.RespondError(c, err)
		return
	}
	if page.Total > maxExportRows {
		utils.LogDebug("Export truncated to %d of %d orders", maxExportRows, page.Total)
	}

	file, err := buildOrdersWorkbook(orders)
	if err != nil {
		utils.LogError("Failed to build order workbook: %v", err)
		utils.InternalServerError(c, "Failed to generate report", nil)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=orders_%s.xlsx", Now().Format("20060102")))
	if err := file.Write(c.Writer); err != nil {
		utils.LogError("Failed to write order workbook: %v", err)
		return
	}
	utils.LogInfo("Exported %d orders", len(orders))
}
