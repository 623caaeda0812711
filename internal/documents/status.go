// Package documents tracks uploaded learning material: processing status,
// polling, batch uploads and local file checks.
package documents

import (
	"strings"

	"github.com/abhisek/sensei/internal/api"
)

// Status is the processing state of a document as the client sees it.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusReady      Status = "ready"
	StatusFailed     Status = "failed"
)

// Classify maps a document row to a Status. The worker has written both
// "ready" and "processed" for finished documents, and older rows only set
// the processed flag.
func Classify(d api.Document) Status {
	switch strings.ToLower(strings.TrimSpace(d.Status)) {
	case "ready", "processed":
		return StatusReady
	case "failed", "error":
		return StatusFailed
	case "processing":
		return StatusProcessing
	}
	if d.Processed {
		return StatusReady
	}
	return StatusPending
}

// Terminal reports whether no further status change is expected.
func (s Status) Terminal() bool {
	return s == StatusReady || s == StatusFailed
}

// Label returns a short display label.
func (s Status) Label() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusFailed:
		return "Failed"
	case StatusProcessing:
		return "Processing"
	default:
		return "Pending"
	}
}

// ShouldPoll reports whether any document is still moving.
func ShouldPoll(docs []api.Document) bool {
	for _, d := range docs {
		if !Classify(d).Terminal() {
			return true
		}
	}
	return false
}

// Counts tallies documents by status.
func Counts(docs []api.Document) map[Status]int {
	out := make(map[Status]int, 4)
	for _, d := range docs {
		out[Classify(d)]++
	}
	return out
}
