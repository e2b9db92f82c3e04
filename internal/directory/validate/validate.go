// Package validate holds the pure normalization and rejection rules for
// contact data. Nothing here touches the store; a value that fails these
// checks must never reach a repository.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// namePattern accepts a single token of Latin or Cyrillic letters.
// No digits, spaces, or punctuation.
var namePattern = regexp.MustCompile(`^[A-Za-zА-Яа-я]+$`)

var validate = validator.New()

// Name reports whether s is usable as a client name or surname.
// Case is not altered here; see Capitalize.
func Name(s string) bool {
	return namePattern.MatchString(s)
}

// Email checks raw for syntactic validity (not deliverability) and
// returns the normalized form: surrounding space trimmed and the domain
// part lower-cased. The returned error is a human-readable reason
// suitable for showing to the operator.
func Email(raw string) (string, error) {
	addr := strings.TrimSpace(raw)
	if err := validate.Var(addr, "required,email"); err != nil {
		return "", fmt.Errorf("%q is not a valid email address", raw)
	}
	at := strings.LastIndex(addr, "@")
	return addr[:at+1] + strings.ToLower(addr[at+1:]), nil
}

// Phone parses raw as a phone number with no default region, so a
// country code is required. Valid numbers are reformatted into the
// canonical international representation; two differently punctuated
// inputs for the same number always produce the identical string, which
// the phones table's unique constraint relies on.
func Phone(raw string) (string, error) {
	num, err := phonenumbers.Parse(strings.TrimSpace(raw), "")
	if err != nil {
		return "", fmt.Errorf("phone %q cannot be parsed: %w", raw, err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("phone %q is not a valid number for its region", raw)
	}
	return phonenumbers.Format(num, phonenumbers.INTERNATIONAL), nil
}

// Capitalize normalizes a single name token for storage and comparison:
// first letter upper-cased, the rest lower-cased. Works for both Latin
// and Cyrillic names.
func Capitalize(s string) string {
	return cases.Title(language.Und).String(strings.ToLower(s))
}
