package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// Letters, digits, spaces and the punctuation found on menu boards.
	namePattern    = regexp.MustCompile(`^[\p{L}\p{N} .,'&()/-]{1,100}$`)
	codePattern    = regexp.MustCompile(`^[A-Z0-9_-]{3,32}$`)
	contactPattern = regexp.MustCompile(`^[0-9+() -]{7,20}$|^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

func ValidName(s string) bool {
	return namePattern.MatchString(strings.TrimSpace(s))
}

func ValidDiscountCode(s string) bool {
	return codePattern.MatchString(s)
}

// ValidContact accepts a phone number or an e-mail address.
func ValidContact(s string) bool {
	return contactPattern.MatchString(s)
}

// ParseID parses a positive numeric path parameter.
func ParseID(raw, name string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", name)
	}
	return uint(id), nil
}
