package heartdash

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrIngest is matched by every error returned from Load and LoadReader.
	ErrIngest = errors.New("heartdash: ingest failed")

	// ErrNoMatch is matched by the error PointRate returns when no record
	// has the requested state, county, gender and ethnicity.
	ErrNoMatch = errors.New("heartdash: no matching records")
)

// IngestError describes why a source could not be turned into a Table.
type IngestError struct {
	Path    string   // Source path or name given by WithSourceName
	Op      string   // "open", "header" or "read"
	Line    int      // CSV line number for "read" failures, 0 otherwise
	Missing []string // Required columns absent from the header
	Err     error
}

func (e *IngestError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ingest %s: %s", e.Path, e.Op)
	if e.Line > 0 {
		fmt.Fprintf(&b, " line %d", e.Line)
	}
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, ": missing required columns %s", strings.Join(e.Missing, ", "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *IngestError) Unwrap() error { return e.Err }

// Is reports whether target is ErrIngest.
func (e *IngestError) Is(target error) bool { return target == ErrIngest }

// NoMatchError is returned by PointRate when the exact combination is absent.
type NoMatchError struct {
	State     string
	County    string
	Gender    string
	Ethnicity string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no records for state=%q county=%q gender=%q ethnicity=%q",
		e.State, e.County, e.Gender, e.Ethnicity)
}

// Is reports whether target is ErrNoMatch.
func (e *NoMatchError) Is(target error) bool { return target == ErrNoMatch }
