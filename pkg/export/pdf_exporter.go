package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// Field is one label/value row printed on a confirmation document.
type Field struct {
	Label string
	Value string
}

// Confirmation describes the single-page enrollment certificate.
type Confirmation struct {
	Institution string
	Title       string
	QRCode      []byte
	Fields      []Field
	Footer      string
}

// PDFExporter renders datasets and confirmation documents as A4 PDFs.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(strings.ToUpper(title)), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colWidth := (pageWidth - left - right) / float64(len(data.Headers))

	pdf.SetFont("Arial", "B", 10)
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, tr(header), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		for _, header := range data.Headers {
			pdf.CellFormat(colWidth, 7, tr(row[header]), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return output(pdf)
}

// RenderConfirmation lays out the institution header, the QR image and the field rows on one page.
func (e *PDFExporter) RenderConfirmation(doc Confirmation) ([]byte, error) {
	if len(doc.QRCode) == 0 {
		return nil, fmt.Errorf("confirmation requires a qr image")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr(doc.Institution), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, tr(doc.Title), "B", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.RegisterImageOptionsReader("qr", gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(doc.QRCode))
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("register qr image: %w", err)
	}
	const qrSize = 60.0
	pageWidth, _ := pdf.GetPageSize()
	x := (pageWidth - qrSize) / 2
	y := pdf.GetY()
	pdf.SetDashPattern([]float64{2, 1}, 0)
	pdf.Rect(x-4, y-4, qrSize+8, qrSize+8, "D")
	pdf.SetDashPattern([]float64{}, 0)
	pdf.ImageOptions("qr", x, y, qrSize, qrSize, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	pdf.SetY(y + qrSize + 12)

	for _, field := range doc.Fields {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(60, 8, tr(field.Label+":"), "", 0, "", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 8, tr(field.Value), "", 1, "", false, 0, "")
	}

	if doc.Footer != "" {
		pdf.Ln(6)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 5, tr(doc.Footer), "", 1, "C", false, 0, "")
	}

	return output(pdf)
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
