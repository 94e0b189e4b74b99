package postgres

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Order amounts and product prices live in NUMERIC(12,2) columns but move
// through the services as int64 cents, so the webhook amount check is integer
// arithmetic. These two helpers are the only place the conversion happens.

// numericStringToCents parses a NUMERIC value scanned as text (an orders.amount
// or products.price column) into cents.
func numericStringToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty numeric string")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse numeric %q: %w", s, err)
	}

	return int64(math.Round(f * 100)), nil
}

// centsToNumericString formats cents as a NUMERIC literal with exactly two
// decimal places, matching the column scale so round trips are lossless.
func centsToNumericString(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	whole := cents / 100
	frac := cents % 100

	return fmt.Sprintf("%s%d.%02d", sign, whole, frac)
}
