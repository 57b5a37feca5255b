// Package receipt renders the fixed-layout payment receipt PDF. Receipts are
// derived documents: they are composed on demand from ledger state and never
// persisted.
package receipt

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/prometheus/client_golang/prometheus"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	pageMargin = 50.0
	qrSize     = 100.0
	labelWidth = 150.0
	lineHeight = 25.0

	dateFormat = "Jan 2, 2006"
	timeFormat = "3:04:05 PM"
)

// Data holds everything needed to compose one receipt.
type Data struct {
	VendorName   string
	CustomerName string
	VehicleNo    string
	AmountCents  int64
	ApprovalCode string
	Date         time.Time
}

// Filename returns the download filename convention for this receipt.
func (d Data) Filename() string {
	return fmt.Sprintf("receipt-%s.pdf", d.ApprovalCode)
}

// Composer renders receipt PDFs.
type Composer struct {
	logger     *slog.Logger
	qrFailures prometheus.Counter
}

// NewComposer creates a Composer. qrFailures may be nil when the caller does
// not collect metrics.
func NewComposer(logger *slog.Logger, qrFailures prometheus.Counter) *Composer {
	return &Composer{logger: logger, qrFailures: qrFailures}
}

// Compose renders the receipt and returns the PDF bytes. A QR encoding
// failure is logged and the image omitted; the document is still produced.
// The creation date is pinned to the receipt date and stream compression is
// disabled, so identical inputs reproduce identical page content. The order
// of objects in the surrounding document is not stable across renders.
func (c *Composer) Compose(data Data) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCreationDate(data.Date)
	pdf.SetModificationDate(data.Date)
	pdf.SetCompression(false)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()

	// Title banner
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetXY(pageMargin, pageMargin)
	pdf.CellFormat(0, 24, "ASLON VENDOR PORTAL - RECEIPT", "", 1, "L", false, 0, "")

	// Scannable code, top-right, carrying the approval code
	c.drawQR(pdf, data.ApprovalCode, pageWidth-pageMargin-qrSize, pageMargin+40)

	// Receipt details block
	y := pageMargin + 70
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(pageMargin, y)
	pdf.CellFormat(0, 20, "Receipt Details", "", 1, "L", false, 0, "")
	y += 30

	details := []struct {
		label string
		value string
	}{
		{"Vendor Name:", data.VendorName},
		{"Customer Name:", data.CustomerName},
		{"Vehicle Number:", data.VehicleNo},
		{"Amount:", fmt.Sprintf("$%.2f", float64(data.AmountCents)/100)},
		{"Date:", data.Date.Format(dateFormat)},
		{"Time:", data.Date.Format(timeFormat)},
		{"Approval Code:", data.ApprovalCode},
	}

	for _, detail := range details {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetXY(pageMargin, y)
		pdf.CellFormat(labelWidth, 14, detail.label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(0, 14, detail.value, "", 0, "L", false, 0, "")
		y += lineHeight
	}

	y += 20
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(pageMargin, y)
	pdf.CellFormat(0, 18, "Thank you for your business!", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render receipt pdf: %w", err)
	}

	return buf.Bytes(), nil
}

// drawQR embeds the approval code as a QR image. Encoding failures degrade to
// a receipt without the image rather than failing the whole document.
func (c *Composer) drawQR(pdf *fpdf.Fpdf, approvalCode string, x, y float64) {
	png, err := qrcode.Encode(approvalCode, qrcode.Medium, 256)
	if err != nil {
		c.logger.Warn("Failed to encode receipt QR code, omitting image",
			slog.String("approval_code", approvalCode),
			slog.String("error", err.Error()),
		)
		c.countQRFailure()
		return
	}

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("approval-qr", opts, bytes.NewReader(png))
	if pdf.Err() {
		c.logger.Warn("Failed to embed receipt QR code, omitting image",
			slog.String("approval_code", approvalCode),
			slog.String("error", pdf.Error().Error()),
		)
		pdf.ClearError()
		c.countQRFailure()
		return
	}

	pdf.ImageOptions("approval-qr", x, y, qrSize, qrSize, false, opts, 0, "")
}

func (c *Composer) countQRFailure() {
	if c.qrFailures != nil {
		c.qrFailures.Inc()
	}
}
