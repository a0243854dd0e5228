package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
)

const (
	pdfFont      = "Arial"
	pdfSize      = 12
	pdfTitleSize = 14
	pdfCellW     = 200
	pdfCellH     = 10
)

// PDFOptions controls how a report is transcribed.
type PDFOptions struct {
	// BoldFirstRow renders the first row in bold at the title size.
	BoldFirstRow bool
}

// WritePDF transcribes rows into a PDF, one line per row with fields
// joined by ", ". Text is mapped to cp1252; characters outside it are
// dropped by the core fonts.
func WritePDF(w io.Writer, rows [][]string, opts PDFOptions) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont(pdfFont, "", pdfSize)

	for i, row := range rows {
		if i == 0 && opts.BoldFirstRow {
			pdf.SetFont(pdfFont, "B", pdfTitleSize)
		} else {
			pdf.SetFont(pdfFont, "", pdfSize)
		}
		pdf.CellFormat(pdfCellW, pdfCellH, tr(strings.Join(row, ", ")), "", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: render: %w", err)
	}
	return nil
}
