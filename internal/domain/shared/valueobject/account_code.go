package valueobject

import (
	"regexp"

	"github.com/erp/ledger/internal/domain/shared"
)

// accountCodePattern matches numeric codes with optional dot-separated
// segments, e.g. "1100" or "1100.01".
var accountCodePattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)*$`)

const maxAccountCodeLength = 20

// AccountCode is a value object wrapping a chart-of-accounts code.
// Equality is by value.
type AccountCode struct {
	value string
}

// NewAccountCode validates and creates an AccountCode
func NewAccountCode(code string) (AccountCode, error) {
	if code == "" {
		return AccountCode{}, shared.NewValidationError("Account code cannot be empty")
	}
	if len(code) > maxAccountCodeLength {
		return AccountCode{}, shared.NewValidationError("Account code cannot exceed 20 characters")
	}
	if !accountCodePattern.MatchString(code) {
		return AccountCode{}, shared.NewValidationError("Account code must be numeric, optionally dot-separated")
	}
	return AccountCode{value: code}, nil
}

// String returns the raw code
func (c AccountCode) String() string {
	return c.value
}

// Equals returns true if both codes have the same value
func (c AccountCode) Equals(other AccountCode) bool {
	return c.value == other.value
}

// IsZero reports whether the code is the zero value
func (c AccountCode) IsZero() bool {
	return c.value == ""
}
