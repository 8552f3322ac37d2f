package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf/v2"

	"invoicely-backend/internal/models"
	"invoicely-backend/internal/store"
)

// PDFService renders an invoice into a printable PDF document
type PDFService struct {
	Users   store.UserStore
	Clients store.ClientStore
}

func NewPDFService(users store.UserStore, clients store.ClientStore) *PDFService {
	return &PDFService{Users: users, Clients: clients}
}

// RenderInvoice produces the PDF bytes for an invoice. The caller is
// responsible for ownership checks; this only draws.
func (s *PDFService) RenderInvoice(ctx context.Context, invoice *models.Invoice) ([]byte, error) {
	user, err := s.Users.Get(ctx, invoice.UserID)
	if err != nil {
		return nil, err
	}
	client, err := s.Clients.Get(ctx, invoice.ClientID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(95, 12, "INVOICE", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(95, 12, invoice.InvoiceNumber, "", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 6, businessName(user), "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 6, fmt.Sprintf("Status: %s", strings.ToUpper(string(invoice.Status))), "", 1, "R", false, 0, "")
	if user.BusinessAddress != "" {
		pdf.CellFormat(95, 6, user.BusinessAddress, "", 0, "L", false, 0, "")
	} else {
		pdf.CellFormat(95, 6, "", "", 0, "L", false, 0, "")
	}
	pdf.CellFormat(95, 6, fmt.Sprintf("Issued: %s", invoice.IssueDate.Format("02-Jan-2006")), "", 1, "R", false, 0, "")
	pdf.CellFormat(95, 6, user.Email, "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 6, fmt.Sprintf("Due: %s", invoice.DueDate.Format("02-Jan-2006")), "", 1, "R", false, 0, "")
	pdf.Ln(6)

	// Bill-to block
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Bill To", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, client.Name, "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, client.Email, "RB", 1, "L", false, 0, "")
	if client.Company != "" || client.Address != "" {
		pdf.CellFormat(95, 7, client.Company, "LB", 0, "L", false, 0, "")
		pdf.CellFormat(95, 7, client.Address, "RB", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// Line items
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(100, 7, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 7, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Rate", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 7, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, item := range invoice.Items {
		pdf.CellFormat(100, 6, item.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, trimFloat(item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.2f", item.Rate), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 6, item.Amount, "1", 1, "R", false, 0, "")
	}
	pdf.Ln(2)

	// Totals
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(125, 6, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(30, 6, "Subtotal", "1", 0, "L", false, 0, "")
	pdf.CellFormat(35, 6, fmt.Sprintf("%s %s", invoice.Currency, invoice.Subtotal), "1", 1, "R", false, 0, "")
	pdf.CellFormat(125, 6, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(30, 6, "Tax", "1", 0, "L", false, 0, "")
	pdf.CellFormat(35, 6, fmt.Sprintf("%s %s", invoice.Currency, invoice.TaxAmount), "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(125, 8, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, "Total", "1", 0, "L", true, 0, "")
	pdf.CellFormat(35, 8, fmt.Sprintf("%s %s", invoice.Currency, invoice.Total), "1", 1, "R", true, 0, "")

	if invoice.PaidDate != nil {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 12)
		pdf.SetFillColor(200, 255, 200)
		pdf.CellFormat(190, 9, fmt.Sprintf("PAID on %s", invoice.PaidDate.Format("02-Jan-2006")), "1", 1, "C", true, 0, "")
	}

	if invoice.Notes != "" {
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(190, 6, "Notes", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(190, 5, invoice.Notes, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func businessName(user *models.User) string {
	if user.BusinessName != "" {
		return user.BusinessName
	}
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name != "" {
		return name
	}
	return user.Username
}

// trimFloat formats a quantity without trailing zeros (3, 1.5)
func trimFloat(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
