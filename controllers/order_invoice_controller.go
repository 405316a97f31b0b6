package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Govind-619/QuickBite/config"
	"github.com/Govind-619/QuickBite/models"
	"github.com/Govind-619/QuickBite/services"
	"github.com/Govind-619/QuickBite/utils"
	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
)

// DownloadInvoice returns the PDF invoice of a delivered order
func DownloadInvoice(c *gin.Context) {
	utils.LogInfo("DownloadInvoice called")

	user, ok := requireUser(c)
	if !ok {
		return
	}
	orderID, ok := paramID(c, "id", "order ID")
	if !ok {
		return
	}

	order, err := services.GetUserOrder(config.DB, user.ID, orderID)
	if err != nil {
		utils.LogError("Order %d not found for user %d: %v", orderID, user.ID, err)
		utils.RespondError(c, err)
		return
	}
	if order.InvoiceNumber == nil {
		utils.LogError("Invoice requested for undelivered order %d", order.ID)
		utils.Conflict(c, "Invoice is available once the order is delivered", nil)
		return
	}

	data, err := buildInvoicePDF(order, user)
	if err != nil {
		utils.LogError("Failed to render invoice for order %d: %v", order.ID, err)
		utils.InternalServerError(c, "Failed to generate invoice", nil)
		return
	}
	utils.LogInfo("Invoice %s generated for order %d", *order.InvoiceNumber, order.ID)

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", *order.InvoiceNumber))
	c.Data(http.StatusOK, "application/pdf", data)
}

func money(amount float64) string {
	return "Rs. " + utils.FormatMoney(amount)
}

// buildInvoicePDF renders an order as an A4 invoice
func buildInvoicePDF(order *models.Order, customer models.User) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, utils.AppName)
	pdf.SetFont("Arial", "", 11)
	pdf.Ln(8)
	pdf.Cell(100, 7, "Fresh food, delivered fast")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, "TAX INVOICE")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(70, 7, "Invoice No: "+*order.InvoiceNumber)
	if order.InvoiceGeneratedAt != nil {
		pdf.Cell(70, 7, "Invoice Date: "+order.InvoiceGeneratedAt.Format("2006-01-02"))
	}
	pdf.Ln(7)
	pdf.Cell(70, 7, "Order No: #"+strconv.FormatInt(order.OrderNumber, 10))
	pdf.Cell(70, 7, "Order Date: "+order.CreatedAt.Format("2006-01-02 15:04"))
	pdf.Ln(7)
	pdf.Cell(70, 7, "Payment: "+order.PaymentMethod+" ("+order.PaymentStatus+")")
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(100, 7, "Billed To:")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(100, 6, customer.Name)
	pdf.Ln(6)
	pdf.Cell(100, 6, customer.Email)
	pdf.Ln(6)
	if order.AddressLine != "" {
		pdf.Cell(100, 6, order.AddressLine+", "+order.City+" - "+order.PostalCode)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(80, 8, "Item", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 8, "Price", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 8, "Total", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 11)
	for _, item := range order.OrderItems {
		name := item.Name
		if item.Variant != "" {
			name += " (" + item.Variant + ")"
		}
		pdf.CellFormat(80, 8, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, strconv.Itoa(item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 8, money(item.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, money(item.LineTotal), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	summary := []struct {
		label  string
		amount float64
		show   bool
	}{
		{"Subtotal", order.Subtotal, true},
		{"Coupon (" + order.CouponCode + ")", -order.CouponDiscount, order.CouponDiscount > 0},
		{"Referral discount", -order.ReferralDiscount, order.ReferralDiscount > 0},
		{"Membership discount", -order.MembershipDiscount, order.MembershipDiscount > 0},
		{fmt.Sprintf("CGST @ %.1f%%", order.CGSTRate), order.CGSTAmount, true},
		{fmt.Sprintf("SGST @ %.1f%%", order.SGSTRate), order.SGSTAmount, true},
		{"Delivery fee", order.DeliveryFee, true},
	}
	for _, line := range summary {
		if !line.show {
			continue
		}
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(135, 7, line.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(35, 7, money(line.amount), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(135, 10, "Grand Total:", "", 0, "L", false, 0, "")
	pdf.CellFormat(35, 10, money(order.GrandTotal), "", 1, "R", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 11)
	pdf.Cell(0, 10, "Thank you for ordering with "+utils.AppName+"!")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
