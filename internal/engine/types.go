package engine

// Validation statuses reported on the CI output channel.
const (
	StatusPassed  = "passed"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Error categories. Integrity covers authorization and content errors
// (missing file, digest mismatch, undeclared entrypoint, unreadable
// manifest); Signature covers attestation and verification-tool errors.
const (
	CategoryIntegrity = "integrity"
	CategorySignature = "signature"
)

// Validation levels.
const (
	LevelFull          = "full"
	LevelIntegrity     = "integrity"
	LevelAuthorization = "authorization"
)

// Issue represents a single validation failure.
type Issue struct {
	Category string
	Path     string // relative to the pattern root; empty for run-level issues
	Reason   string
	Detail   string
}

func (i Issue) Error() string {
	msg := i.Reason
	if i.Path != "" {
		msg = i.Path + ": " + msg
	}
	if i.Detail != "" {
		msg += " — " + i.Detail
	}
	return msg
}

// Result holds the aggregated outcome of a validation run.
type Result struct {
	Status    string
	FileCount int

	// Authorized lists discovered Terraform entrypoints declared in the
	// manifest; Verified lists manifest entries whose digest matched.
	Authorized []string
	Verified   []string

	// AttestationsTotal/AttestationsPassed summarize signature checks.
	AttestationsTotal  int
	AttestationsPassed int

	Integrity []Issue
	Signature []Issue
}

// ErrorCount returns the total number of recorded errors across categories.
func (r *Result) ErrorCount() int {
	return len(r.Integrity) + len(r.Signature)
}
