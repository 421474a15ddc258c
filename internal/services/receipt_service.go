package services

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"foodtruck/internal/models"

	"github.com/jung-kurt/gofpdf"
)

type ReceiptService interface {
	RenderReceipt(order *models.Order) ([]byte, error)
}

type receiptService struct {
	location *time.Location
}

func NewReceiptService(loc *time.Location) ReceiptService {
	if loc == nil {
		loc = time.UTC
	}
	return &receiptService{location: loc}
}

// RenderReceipt draws an A4 receipt for a placed order. The order must carry
// its items and invoice.
func (s *receiptService) RenderReceipt(order *models.Order) ([]byte, error) {
	if order == nil || order.Invoice == nil {
		return nil, errors.New("order has no invoice")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	marginX := 20.0
	marginY := 20.0
	pdf.SetMargins(marginX, marginY, marginX)
	pdf.SetAutoPageBreak(true, marginY)

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(33, 37, 41)
	pdf.SetXY(marginX, marginY)
	pdf.Cell(0, 10, "ORDER RECEIPT")
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 10)
	details := [][2]string{
		{"Order", order.ID.String()},
		{"Date", order.CreatedAt.In(s.location).Format("02 Jan 2006 15:04")},
		{"Type", string(order.Type)},
		{"Status", string(order.Status)},
	}
	if order.PickupDateTime != nil {
		details = append(details, [2]string{"Pickup", order.PickupDateTime.In(s.location).Format("Mon 02 Jan 2006 15:04")})
	}
	for _, d := range details {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(30, 6, d[0]+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, d[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	headers := []string{"Item", "Qty", "Unit price", "Total"}
	colWidths := []float64{90, 20, 30, 30}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	for i, header := range headers {
		pdf.CellFormat(colWidths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	for _, item := range order.Items {
		pdf.CellFormat(colWidths[0], 8, tr(item.ItemName), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 8, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[2], 8, item.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[3], 8, item.LineTotal().StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(8)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(140, 7, "TOTAL:", "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, order.Invoice.TotalAmount.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(140, 6, "Paid by:", "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 6, paymentLabel(order.Invoice.PaymentMethod), "", 1, "R", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.Cell(0, 5, "Thank you for your order!")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func paymentLabel(m models.PaymentMethod) string {
	switch m {
	case models.PaymentMethodCreditCard:
		return "Credit card"
	case models.PaymentMethodDebitCard:
		return "Debit card"
	case models.PaymentMethodCash:
		return "Cash"
	case models.PaymentMethodWallet:
		return "Wallet"
	}
	return string(m)
}
