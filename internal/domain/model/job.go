// Package model defines the core data types and structures used throughout the poliza job system.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// OutputMode selects where a processed invoice ends up: the real
// accounting backend or one of the file-export formats.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type OutputMode string

// JobStatus represents the current status of a job.
type JobStatus string

const (
	// OutputModeReal sends the ledger entry to the accounting backend SDK.
	OutputModeReal OutputMode = "real"
	// OutputModeJSON exports the ledger entry as an indented JSON file.
	OutputModeJSON OutputMode = "json"
	// OutputModeCSV exports the ledger entry as an RFC4180 CSV file.
	OutputModeCSV OutputMode = "csv"
	// OutputModeXLSX exports the ledger entry as an XLSX workbook.
	OutputModeXLSX OutputMode = "xlsx"
	// OutputModeBoth exports both JSON and CSV files.
	OutputModeBoth OutputMode = "both"

	// JobStatusPending indicates a job is waiting to be processed.
	JobStatusPending JobStatus = "pending"
	// JobStatusProcessing indicates a job is currently being processed.
	JobStatusProcessing JobStatus = "processing"
	// JobStatusCompleted indicates a job has finished successfully.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed indicates a job has exhausted its retries.
	JobStatusFailed JobStatus = "failed"
)

// UnmarshalText implements encoding.TextUnmarshaler for OutputMode to allow env parsing.
func (m *OutputMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	om := OutputMode(v)
	if om.Valid() {
		*m = om
		return nil
	}
	return fmt.Errorf("invalid OutputMode: %q", v)
}

// Valid returns true if the OutputMode is valid.
func (m OutputMode) Valid() bool {
	return m == OutputModeReal || m == OutputModeJSON || m == OutputModeCSV ||
		m == OutputModeXLSX || m == OutputModeBoth
}

// IsExport returns true for modes that write files instead of calling the SDK.
func (m OutputMode) IsExport() bool {
	return m.Valid() && m != OutputModeReal
}

// ExportFormats returns the file formats this mode produces, in write order.
func (m OutputMode) ExportFormats() []ExportFormat {
	switch m {
	case OutputModeJSON:
		return []ExportFormat{FormatJSON}
	case OutputModeCSV:
		return []ExportFormat{FormatCSV}
	case OutputModeXLSX:
		return []ExportFormat{FormatXLSX}
	case OutputModeBoth:
		return []ExportFormat{FormatJSON, FormatCSV}
	default:
		return nil
	}
}

// Valid returns true if the JobStatus is valid.
func (s JobStatus) Valid() bool {
	return s == JobStatusPending || s == JobStatusProcessing ||
		s == JobStatusCompleted || s == JobStatusFailed
}

// Terminal returns true once a job can no longer change state.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Job represents one submitted invoice and its processing state.
// Jobs live in memory only; the worker is the sole mutator after enqueue.
type Job struct {
	ID          string           `json:"id"`
	Status      JobStatus        `json:"status"`
	OutputMode  OutputMode       `json:"output_mode"`
	Invoice     *Invoice         `json:"invoice"`
	CreatedAt   time.Time        `json:"created_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
	RetryCount  int              `json:"retry_count"`
	LastError   *string          `json:"last_error,omitempty"`
	EntryID     *string          `json:"entry_id,omitempty"`
	Artifacts   []ExportArtifact `json:"artifacts,omitempty"`
	Warnings    []string         `json:"warnings,omitempty"`
}

// Clone returns a copy of the job safe to publish to concurrent readers.
// The invoice payload is immutable after submission and is shared.
func (j *Job) Clone() *Job {
	if j == nil {
		return nil
	}
	out := *j
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		out.CompletedAt = &t
	}
	if j.LastError != nil {
		s := *j.LastError
		out.LastError = &s
	}
	if j.EntryID != nil {
		s := *j.EntryID
		out.EntryID = &s
	}
	if len(j.Artifacts) > 0 {
		out.Artifacts = append([]ExportArtifact(nil), j.Artifacts...)
	}
	if len(j.Warnings) > 0 {
		out.Warnings = append([]string(nil), j.Warnings...)
	}
	return &out
}

// StatusResponse projects the job into the shape returned by status queries.
func (j *Job) StatusResponse() *JobStatusResponse {
	return &JobStatusResponse{
		JobID:       j.ID,
		Status:      j.Status,
		OutputMode:  j.OutputMode,
		CreatedAt:   j.CreatedAt,
		CompletedAt: j.CompletedAt,
		EntryID:     j.EntryID,
		ErrorMsg:    j.LastError,
		RetryCount:  j.RetryCount,
		Artifacts:   j.Artifacts,
		Warnings:    j.Warnings,
	}
}

// SubmitInvoiceRequest represents a request to enqueue an invoice for processing.
type SubmitInvoiceRequest struct {
	Invoice Invoice `json:"invoice"`
	// OutputMode overrides the configured process-wide mode when set.
	OutputMode OutputMode `json:"output_mode,omitempty"`
}

// Validate validates the SubmitInvoiceRequest fields, including the
// payload arithmetic invariant. Jobs are never created from invalid input.
func (r *SubmitInvoiceRequest) Validate() error {
	if r.OutputMode != "" && !r.OutputMode.Valid() {
		return fmt.Errorf("invalid output mode %q", r.OutputMode)
	}
	return r.Invoice.Validate()
}

// SubmitInvoiceResponse is returned on successful enqueue.
type SubmitInvoiceResponse struct {
	JobID     string    `json:"job_id"`
	Status    JobStatus `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// JobStatusResponse represents the status information for a specific job.
type JobStatusResponse struct {
	JobID       string           `json:"job_id"`
	Status      JobStatus        `json:"status"`
	OutputMode  OutputMode       `json:"output_mode"`
	CreatedAt   time.Time        `json:"created_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
	EntryID     *string          `json:"entry_id,omitempty"`
	ErrorMsg    *string          `json:"error_message,omitempty"`
	RetryCount  int              `json:"retry_count"`
	Artifacts   []ExportArtifact `json:"exported_artifacts,omitempty"`
	Warnings    []string         `json:"warnings,omitempty"`
}

// JobStats represents counts of jobs in each state.
type JobStats struct {
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status               string       `json:"status"`
	BackendReady         bool         `json:"backend_ready"`
	PendingJobs          int          `json:"pending_jobs"`
	AvailableOutputModes []OutputMode `json:"available_output_modes"`
}

// ErrJobNotFound is returned by status lookups for unknown job ids.
var ErrJobNotFound = errors.New("job not found")
