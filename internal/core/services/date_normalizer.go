package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/SscSPs/order_export_app/internal/apperrors"
)

// ErrMalformedDate is returned for dates that cannot be shown as "Mon D".
var ErrMalformedDate = fmt.Errorf("%w: malformed date", apperrors.ErrValidation)

var monthAbbreviations = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// NormalizeDate turns "YYYY-MM-DD" into the short display form "Mar 7".
// The year is ignored and the day is not zero padded. Anything after the
// day digits (a time component, say) is ignored. Empty input yields nil.
func NormalizeDate(input string) (*string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}

	parts := strings.Split(input, "-")
	if len(parts) < 3 {
		return nil, fmt.Errorf("%w: %q has no month and day", ErrMalformedDate, input)
	}

	month, err := leadingInt(parts[1])
	if err != nil || month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: %q has no valid month", ErrMalformedDate, input)
	}
	day, err := leadingInt(parts[2])
	if err != nil || day < 1 || day > 31 {
		return nil, fmt.Errorf("%w: %q has no valid day", ErrMalformedDate, input)
	}

	out := fmt.Sprintf("%s %d", monthAbbreviations[month-1], day)
	return &out, nil
}

var errNoDigits = errors.New("no leading digits")

// leadingInt parses the leading decimal digits of s, ignoring the rest.
func leadingInt(s string) (int, error) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, errNoDigits
	}
	return strconv.Atoi(s[:end])
}
