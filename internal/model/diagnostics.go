package model

import (
	"fmt"
	"sync"
)

// IssueKind classifies a recorded problem.
type IssueKind int

const (
	IssueStructuralError IssueKind = iota
	IssueSchemaDeviation
	IssueReferenceMiss
	IssueDataQuality
	IssueExternalService
)

func (k IssueKind) String() string {
	switch k {
	case IssueStructuralError:
		return "StructuralError"
	case IssueSchemaDeviation:
		return "SchemaDeviation"
	case IssueReferenceMiss:
		return "ReferenceMiss"
	case IssueDataQuality:
		return "DataQualityWarning"
	case IssueExternalService:
		return "ExternalServiceFailure"
	default:
		return "Unknown"
	}
}

// Issue is one problem met while reading or post-processing a document.
type Issue struct {
	Kind    IssueKind
	Element string
	Message string
}

func (i Issue) String() string {
	if i.Element == "" {
		return fmt.Sprintf("%s: %s", i.Kind, i.Message)
	}
	return fmt.Sprintf("%s: <%s> %s", i.Kind, i.Element, i.Message)
}

// Diagnostics collects issues. It is safe for concurrent use.
type Diagnostics struct {
	mu     sync.Mutex
	issues []Issue
}

// Add records an issue.
func (d *Diagnostics) Add(kind IssueKind, element, format string, args ...any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.issues = append(d.issues, Issue{Kind: kind, Element: element, Message: fmt.Sprintf(format, args...)})
}

// Issues returns a copy of the recorded issues.
func (d *Diagnostics) Issues() []Issue {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Issue, len(d.issues))
	copy(out, d.issues)
	return out
}

// Count returns the number of issues of the given kind.
func (d *Diagnostics) Count(kind IssueKind) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, i := range d.issues {
		if i.Kind == kind {
			n++
		}
	}
	return n
}

// Len returns the total number of issues.
func (d *Diagnostics) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.issues)
}
