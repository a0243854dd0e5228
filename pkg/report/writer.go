package report

import (
	"io"

	"iglikes/pkg/logger"
	"iglikes/pkg/storage"
	"iglikes/pkg/tally"
)

// Writer emits report files into an account's Statistics directory.
type Writer struct {
	store      *storage.Manager
	pdfEnabled bool
	logger     logger.Logger
}

// NewWriter creates a report writer. PDF transcriptions are produced only
// when pdfEnabled is set.
func NewWriter(store *storage.Manager, pdfEnabled bool, log logger.Logger) *Writer {
	return &Writer{store: store, pdfEnabled: pdfEnabled, logger: log}
}

// Paths lists the files one report produced.
type Paths struct {
	CSV string
	PDF string
}

// WriteLikerSummary writes the liker summary CSV, and its PDF when enabled.
// The PDF renders the first row bold.
func (w *Writer) WriteLikerSummary(s Summary, ranked []tally.Entry) (Paths, error) {
	rows := LikerRows(s, ranked)
	return w.emit(rows, LikerSummaryName(s.Account, s.RunDate), LikerPDFName(s.Account), PDFOptions{BoldFirstRow: true})
}

// WritePostSummary writes the post summary CSV, and its PDF when enabled.
// Every PDF row uses the regular font.
func (w *Writer) WritePostSummary(s Summary, posts []Post) (Paths, error) {
	rows := PostRows(s, posts)
	return w.emit(rows, PostSummaryName(s.Account, s.RunDate), PostPDFName(s.Account), PDFOptions{})
}

func (w *Writer) emit(rows [][]string, csvName, pdfName string, opts PDFOptions) (Paths, error) {
	var paths Paths

	csvPath := w.store.StatisticsPath(csvName)
	err := storage.WriteAtomic(csvPath, func(out io.Writer) error {
		return WriteCSV(out, rows)
	})
	if err != nil {
		return paths, err
	}
	paths.CSV = csvPath
	w.logger.InfoWithFields("Statistics file written", map[string]interface{}{
		"path": csvPath,
		"rows": len(rows),
	})

	if !w.pdfEnabled {
		return paths, nil
	}

	pdfPath := w.store.StatisticsPath(pdfName)
	err = storage.WriteAtomic(pdfPath, func(out io.Writer) error {
		return WritePDF(out, rows, opts)
	})
	if err != nil {
		return paths, err
	}
	paths.PDF = pdfPath
	w.logger.InfoWithFields("PDF written", map[string]interface{}{"path": pdfPath})

	return paths, nil
}
