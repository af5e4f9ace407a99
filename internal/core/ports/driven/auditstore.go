package driven

import (
	"context"
	"time"
)

// ScanEvent records one guardrail decision for the audit trail.
type ScanEvent struct {
	// Direction is "input" or "output".
	Direction string

	// Valid is the verdict the request proceeded with.
	Valid bool

	// Blocked reports whether the request was blocked at this stage.
	Blocked bool

	// RiskScore is the aggregated risk score.
	RiskScore float64

	// Scanners names the scanners that produced the verdict.
	Scanners []string

	// Failure records a transport error absorbed by the failure policy.
	Failure string

	// CreatedAt is when the decision was made.
	CreatedAt time.Time
}

// IngestEvent records one ingestion run.
type IngestEvent struct {
	Source     string
	ChunkCount int
	Status     string
	CreatedAt  time.Time
}

// AuditStore persists guardrail decisions and ingestion runs.
// Implementations must tolerate concurrent writers. Audit failures are
// observability losses, never request failures - callers log and move on.
type AuditStore interface {
	// RecordScan appends a scan decision.
	RecordScan(ctx context.Context, ev ScanEvent) error

	// RecordIngest appends an ingestion run.
	RecordIngest(ctx context.Context, ev IngestEvent) error

	// RecentScans returns the most recent scan decisions, newest first.
	RecentScans(ctx context.Context, limit int) ([]ScanEvent, error)

	// Close releases resources.
	Close() error
}
