package tickets

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"circustix/internal/reservations"
)

const (
	pageWidth   = 210.0
	pageMargin  = 20.0
	qrEdge      = 60.0
	qrImageName = "ticket-qr"
)

var redemptionInstructions = []string{
	"- Arrive at least 30 minutes before showtime",
	"- Present this ticket (printed or on mobile) at the entrance",
	"- Your QR code will be scanned for entry",
	"- Keep this ticket for the duration of the event",
}

// PDFRenderer lays out printable A4 tickets
type PDFRenderer struct {
	brand        string
	supportEmail string
}

func NewPDFRenderer(brand, supportEmail string) *PDFRenderer {
	if brand == "" {
		brand = "GARDEN BROS CIRCUS"
	}
	return &PDFRenderer{brand: brand, supportEmail: supportEmail}
}

// Render builds the ticket for an order. A nil qr prints the order id in its
// place so the ticket can still be redeemed by hand.
func (r *PDFRenderer) Render(order *reservations.Order, qr []byte) ([]byte, error) {
	if order == nil {
		return nil, fmt.Errorf("%w: nil order", ErrExternalRendering)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle("Ticket "+order.ID, true)
	pdf.SetCreator(r.brand, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// --- Header ---
	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(0, 10, r.brand, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 14)
	pdf.CellFormat(0, 8, "TICKET CONFIRMATION", "", 1, "C", false, 0, "")
	divider(pdf)

	// --- QR ---
	if len(qr) > 0 {
		y := pdf.GetY()
		pdf.RegisterImageOptionsReader(qrImageName, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qr))
		pdf.ImageOptions(qrImageName, (pageWidth-qrEdge)/2, y, qrEdge, qrEdge, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		pdf.SetY(y + qrEdge + 4)
	} else {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.CellFormat(0, 8, "QR code unavailable. Show this order number at the entrance.", "", 1, "C", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Order #"+order.ID, "", 1, "C", false, 0, "")
	divider(pdf)

	// --- Order ---
	drawSectionTitle(pdf, "ORDER INFORMATION")
	pdf.SetFont("Helvetica", "", 11)
	line(pdf, "Order ID: "+order.ID)
	line(pdf, "Date: "+formatDate(order.CreatedAt, "Jan 2, 2006 3:04 PM"))
	line(pdf, tr("Name: "+order.Customer.Name))
	line(pdf, "Email: "+order.Customer.Email)

	// --- Event ---
	drawSectionTitle(pdf, "EVENT DETAILS")
	pdf.SetFont("Helvetica", "B", 12)
	line(pdf, tr(order.ShowTitle))
	pdf.SetFont("Helvetica", "", 11)
	line(pdf, tr("Venue: "+order.Venue))
	if order.VenueAddress != "" {
		line(pdf, tr("       "+order.VenueAddress))
	}
	line(pdf, "When: "+formatDate(order.PerformanceDate, "Monday, January 2, 2006 - 3:04 PM"))

	// --- Seats ---
	drawSectionTitle(pdf, "SEAT DETAILS")
	pdf.SetFont("Helvetica", "", 11)
	for _, seat := range order.Seats {
		info := fmt.Sprintf("%s - Row %s - Seat %d (%s)", seat.Section, seat.Row, seat.Number, seat.TicketType)
		amount(pdf, tr(info), seat.Price)
	}

	// --- Totals ---
	drawSectionTitle(pdf, "PURCHASE SUMMARY")
	pdf.SetFont("Helvetica", "", 11)
	amount(pdf, "Subtotal:", order.Subtotal)
	if order.Discount > 0 {
		amount(pdf, "Group Discount:", -order.Discount)
	}
	amount(pdf, "Service Fee:", order.ServiceFee)
	pdf.SetFont("Helvetica", "B", 12)
	amount(pdf, "Total Paid:", order.Total)
	pdf.SetFont("Helvetica", "", 10)
	line(pdf, fmt.Sprintf("Payment: %s ****%s", paymentLabel(order.Payment), order.Payment.Last4))

	// --- Redemption ---
	drawSectionTitle(pdf, "REDEMPTION INSTRUCTIONS")
	pdf.SetFont("Helvetica", "", 10)
	for _, instruction := range redemptionInstructions {
		line(pdf, instruction)
	}

	divider(pdf)
	pdf.SetFont("Helvetica", "I", 9)
	if r.supportEmail != "" {
		pdf.CellFormat(0, 5, "For support, contact: "+r.supportEmail, "", 1, "C", false, 0, "")
	}
	pdf.CellFormat(0, 5, "Thank you for choosing us!", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: write pdf: %v", ErrExternalRendering, err)
	}
	return buf.Bytes(), nil
}

// drawSectionTitle adds consistent section headers
func drawSectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(0, 8, title, "", 1, "L", true, 0, "")
	pdf.Ln(2)
}

func divider(pdf *gofpdf.Fpdf) {
	pdf.Ln(2)
	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(pageMargin, pdf.GetY(), pageWidth-pageMargin, pdf.GetY())
	pdf.Ln(4)
}

func line(pdf *gofpdf.Fpdf, text string) {
	pdf.CellFormat(0, 6, text, "", 1, "L", false, 0, "")
}

func amount(pdf *gofpdf.Fpdf, label string, value float64) {
	width := pageWidth - 2*pageMargin
	pdf.CellFormat(width*0.75, 6, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(width*0.25, 6, formatMoney(value), "", 1, "R", false, 0, "")
}

func formatMoney(v float64) string {
	if v < 0 {
		return fmt.Sprintf("-$%.2f", -v)
	}
	return fmt.Sprintf("$%.2f", v)
}

func formatDate(t time.Time, layout string) string {
	if t.IsZero() {
		return "TBA"
	}
	return t.Format(layout)
}

func paymentLabel(p reservations.PaymentMethod) string {
	if p.Brand != "" {
		return p.Brand
	}
	if p.Type != "" {
		return p.Type
	}
	return "card"
}
