package trade

import (
	"errors"
	"strconv"
	"strings"
)

var errMissingShares = errors.New("missing shares")
var errInvalidShares = errors.New("shares must be a positive whole number")

// ParseShareCount validates a share count form field.
//
// Only strictly positive whole numbers pass, so "0", "-3", "1.5", and "abc"
// are all rejected before any trade work happens.
func ParseShareCount(text string) (int, error) {
	text = strings.TrimSpace(text)

	if len(text) == 0 {
		return 0, errMissingShares
	}

	shares, err := strconv.Atoi(text)

	if err != nil || shares < 1 {
		return 0, errInvalidShares
	}

	return shares, nil
}
