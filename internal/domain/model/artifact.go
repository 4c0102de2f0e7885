package model

// ExportFormat identifies a file format produced by the export writer.
type ExportFormat string

const (
	// FormatJSON is an indented UTF-8 JSON document.
	FormatJSON ExportFormat = "json"
	// FormatCSV is a comma-delimited UTF-8 file with RFC4180 quoting.
	FormatCSV ExportFormat = "csv"
	// FormatXLSX is a single-sheet Excel workbook.
	FormatXLSX ExportFormat = "xlsx"
)

// ExportArtifact describes one file produced for a ledger entry.
// Artifacts are attached to the owning job once the write succeeds.
type ExportArtifact struct {
	Filename string       `json:"filename"`
	Path     string       `json:"path"`
	Format   ExportFormat `json:"format"`
}
