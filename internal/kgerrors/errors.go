package kgerrors

import (
	"errors"
)

var (
	ErrNetwork       = errors.New("network error")
	ErrNotFound      = errors.New("not found")
	ErrParse         = errors.New("unexpected page structure")
	ErrConfigMissing = errors.New("configuration file not found")
	ErrConfigParse   = errors.New("configuration file is malformed")
	ErrValidation    = errors.New("invalid submission parameters")
	ErrCompile       = errors.New("compilation failed")
	ErrAuth          = errors.New("credentials rejected")
	ErrEmptyRange    = errors.New("no unseen problem in difficulty range")
	ErrSamplesFailed = errors.New("one or more samples failed")
	ErrRejected      = errors.New("submission not accepted")
)

// Hint returns the next step the user should take for err, or "" when there
// is nothing actionable to suggest.
func Hint(err error) string {
	switch {
	case errors.Is(err, ErrConfigMissing):
		return "Run 'kattis-grind config init' to create one, or download your .kattisrc from Kattis"
	case errors.Is(err, ErrConfigParse):
		return "Fix the file or move it aside and run 'kattis-grind config init'"
	case errors.Is(err, ErrAuth):
		return "Your token may have expired. Download a fresh .kattisrc with 'kattis-grind login --open'"
	case errors.Is(err, ErrNotFound):
		return "Check the problem id, or run 'kattis-grind fetch <id>' first"
	case errors.Is(err, ErrValidation):
		return "Pass --problem and --language explicitly"
	case errors.Is(err, ErrEmptyRange):
		return "Widen the range with --min/--max"
	case errors.Is(err, ErrParse):
		return "Kattis may have changed its pages. Re-run with --verbose and report it"
	case errors.Is(err, ErrNetwork):
		return "Check your connection and try again"
	default:
		return ""
	}
}
