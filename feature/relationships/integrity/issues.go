package integrity

import (
	"errors"
	"fmt"
	"strings"
)

// Severity separates invariant violations from cache staleness.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Code identifies the kind of issue.
type Code string

const (
	CodeInvalidStudioReference  Code = "INVALID_STUDIO_REFERENCE"
	CodeMissingReverseReference Code = "MISSING_REVERSE_REFERENCE"
	CodeInvalidArtistReference  Code = "INVALID_ARTIST_REFERENCE"
	CodeDuplicateAssignment     Code = "DUPLICATE_ASSIGNMENT"

	CodeCountMismatch         Code = "COUNT_MISMATCH"
	CodeOutdatedStudioName    Code = "OUTDATED_STUDIO_NAME"
	CodeOutdatedStudioAddress Code = "OUTDATED_STUDIO_ADDRESS"
	CodeOutdatedArtistDetails Code = "OUTDATED_ARTIST_DETAILS"
	CodeEmptyStudio           Code = "EMPTY_STUDIO"
	CodeOrphanedArtist        Code = "ORPHANED_ARTIST"
	CodeCapacityExceeded      Code = "CAPACITY_EXCEEDED"
)

// Issue is a single finding.
type Issue struct {
	Code     Code     `json:"code"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	ArtistID string   `json:"artistId,omitempty"`
	StudioID string   `json:"studioId,omitempty"`
}

// Summary aggregates a report.
type Summary struct {
	Artists      int          `json:"artists"`
	Studios      int          `json:"studios"`
	Assigned     int          `json:"assigned"`
	Orphaned     int          `json:"orphaned"`
	EmptyStudios int          `json:"emptyStudios"`
	Errors       int          `json:"errors"`
	Warnings     int          `json:"warnings"`
	ByCode       map[Code]int `json:"byCode"`
}

// Report is the outcome of a validation run.
type Report struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
	Summary  Summary `json:"summary"`
}

// Count returns how many issues of the given code the report holds.
func (r Report) Count(code Code) int {
	return r.Summary.ByCode[code]
}

// ErrInconsistent is matched by every *ValidationError.
var ErrInconsistent = errors.New("relationships are inconsistent")

// ValidationError aggregates the error-severity issues of a report.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d error(s)", ErrInconsistent, len(e.Issues))
	for i, issue := range e.Issues {
		if i == 3 {
			fmt.Fprintf(&b, "; and %d more", len(e.Issues)-i)
			break
		}
		fmt.Fprintf(&b, "; %s: %s", issue.Code, issue.Message)
	}
	return b.String()
}

// Is makes errors.Is(err, ErrInconsistent) hold.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInconsistent
}
