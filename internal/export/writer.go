// Package export renders ledger entries to files. Writes are append-only
// (a new file per entry) and atomic: content lands in a temp file that is
// renamed into place, so a crash never leaves a partial file at a final
// path.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/contaflow/poliza-api/internal/domain/model"
)

// timestampLayout gives filenames second precision plus nanoseconds so
// concurrent unnumbered entries never collide.
const timestampLayout = "20060102T150405.000000000"

// csvHeader is the fixed CSV/XLSX column set, one row per movement.
var csvHeader = []string{
	"date", "type", "entry_number", "concept",
	"account_code", "account_name", "debit", "credit",
	"movement_concept", "reference",
}

// WriterOptions configures a Writer.
type WriterOptions struct {
	// Dir is the directory artifacts are written to. Required.
	Dir string

	// Logger for write outcomes. Optional.
	Logger *slog.Logger

	// Now overrides the clock used in filenames. Optional, for tests.
	Now func() time.Time
}

// Writer renders ledger entries to JSON, CSV, and XLSX files with
// deterministic names: entry_<number-or-unnumbered>_<timestamp>.<ext>.
type Writer struct {
	dir    string
	logger *slog.Logger
	now    func() time.Time
}

// NewWriter constructs a Writer for the given directory.
func NewWriter(opts WriterOptions) (*Writer, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("export dir is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Writer{dir: opts.Dir, logger: logger.With("component", "export_writer"), now: now}, nil
}

// Dir returns the writer's target directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Write renders entry in the given format.
func (w *Writer) Write(entry *model.LedgerEntry, format model.ExportFormat) (model.ExportArtifact, error) {
	switch format {
	case model.FormatJSON:
		return w.WriteJSON(entry)
	case model.FormatCSV:
		return w.WriteCSV(entry)
	case model.FormatXLSX:
		return w.WriteXLSX(entry)
	default:
		return model.ExportArtifact{}, fmt.Errorf("unknown export format %q", format)
	}
}

// WriteJSON renders entry as an indented UTF-8 JSON document. Field
// order follows the model struct declaration; unset optional fields are
// omitted.
func (w *Writer) WriteJSON(entry *model.LedgerEntry) (model.ExportArtifact, error) {
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return model.ExportArtifact{}, fmt.Errorf("marshal entry: %w", err)
	}
	data = append(data, '\n')
	return w.commit(entry, model.FormatJSON, data)
}

// WriteCSV renders entry as one header row plus one row per movement,
// with RFC4180 quoting and amounts at 2 decimal places.
func (w *Writer) WriteCSV(entry *model.LedgerEntry) (model.ExportArtifact, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(csvHeader); err != nil {
		return model.ExportArtifact{}, fmt.Errorf("write csv header: %w", err)
	}
	for i := range entry.Movements {
		if err := cw.Write(movementRow(entry, &entry.Movements[i])); err != nil {
			return model.ExportArtifact{}, fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return model.ExportArtifact{}, fmt.Errorf("flush csv: %w", err)
	}
	return w.commit(entry, model.FormatCSV, buf.Bytes())
}

// WriteXLSX renders entry as a single-sheet workbook mirroring the CSV
// column layout.
func (w *Writer) WriteXLSX(entry *model.LedgerEntry) (model.ExportArtifact, error) {
	f := excelize.NewFile()
	const sheet = "Poliza"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return model.ExportArtifact{}, fmt.Errorf("xlsx sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return model.ExportArtifact{}, fmt.Errorf("xlsx drop default sheet: %w", err)
	}

	for i, h := range csvHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return model.ExportArtifact{}, fmt.Errorf("xlsx header: %w", err)
		}
	}
	for rowIdx := range entry.Movements {
		row := movementRow(entry, &entry.Movements[rowIdx])
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return model.ExportArtifact{}, fmt.Errorf("xlsx cell: %w", err)
			}
		}
	}
	// Widen the text-heavy columns.
	_ = f.SetColWidth(sheet, "A", "A", 12)
	_ = f.SetColWidth(sheet, "D", "D", 40)
	_ = f.SetColWidth(sheet, "E", "F", 18)
	_ = f.SetColWidth(sheet, "I", "J", 30)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return model.ExportArtifact{}, fmt.Errorf("xlsx write: %w", err)
	}
	return w.commit(entry, model.FormatXLSX, buf.Bytes())
}

// WriteAll renders entry in every requested format. Each format's
// outcome is independent: artifacts collects the successes, errs the
// per-format failures, index-aligned with formats.
func (w *Writer) WriteAll(entry *model.LedgerEntry, formats []model.ExportFormat) (artifacts []model.ExportArtifact, errs []error) {
	for _, format := range formats {
		artifact, err := w.Write(entry, format)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", format, err))
			continue
		}
		artifacts = append(artifacts, artifact)
	}
	return artifacts, errs
}

// commit writes data to a temp file in the target directory and renames
// it to its final name.
func (w *Writer) commit(entry *model.LedgerEntry, format model.ExportFormat, data []byte) (model.ExportArtifact, error) {
	filename := w.filename(entry, format)
	finalPath := filepath.Join(w.dir, filename)

	tmp, err := os.CreateTemp(w.dir, ".tmp-"+filename+"-*")
	if err != nil {
		return model.ExportArtifact{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return model.ExportArtifact{}, fmt.Errorf("write %s: %w", filename, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return model.ExportArtifact{}, fmt.Errorf("close %s: %w", filename, err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return model.ExportArtifact{}, fmt.Errorf("rename %s: %w", filename, err)
	}

	abs, err := filepath.Abs(finalPath)
	if err != nil {
		abs = finalPath
	}
	w.logger.Debug("artifact written", "filename", filename, "format", format, "bytes", len(data))
	return model.ExportArtifact{Filename: filename, Path: abs, Format: format}, nil
}

func (w *Writer) filename(entry *model.LedgerEntry, format model.ExportFormat) string {
	number := "unnumbered"
	if entry.Number > 0 {
		number = strconv.Itoa(entry.Number)
	}
	return fmt.Sprintf("entry_%s_%s.%s", number, w.now().UTC().Format(timestampLayout), format)
}

func movementRow(entry *model.LedgerEntry, m *model.Movement) []string {
	number := ""
	if entry.Number > 0 {
		number = strconv.Itoa(entry.Number)
	}
	return []string{
		entry.Date.Format("2006-01-02"),
		entry.Type,
		number,
		entry.Concept,
		m.AccountCode,
		m.AccountName,
		strconv.FormatFloat(m.Debit, 'f', 2, 64),
		strconv.FormatFloat(m.Credit, 'f', 2, 64),
		m.Concept,
		m.Reference,
	}
}
