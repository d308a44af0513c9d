package util

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Pagination carries parsed list-query parameters.
type Pagination struct {
	Limit  int
	Offset int
	Order  string // "ASC" or "DESC"
}

// Page is the zero-based page number used in cache keys: offset / limit.
func (p Pagination) Page() int {
	if p.Limit <= 0 {
		return 0
	}
	return p.Offset / p.Limit
}

// ParsePagination parses limit/offset/order query values. Numeric values
// out of range are clamped (limit to 1–100, offset to ≥0); non-numeric
// values and unknown orders are a validation error.
func ParsePagination(limitStr, offsetStr, orderStr string) (Pagination, error) {
	p := Pagination{Limit: DefaultLimit, Offset: 0, Order: "DESC"}

	if limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil {
			return p, Validation(fmt.Sprintf("limit must be an integer, got %q", limitStr))
		}
		if n < 1 {
			n = 1
		}
		if n > MaxLimit {
			n = MaxLimit
		}
		p.Limit = n
	}

	if offsetStr != "" {
		n, err := strconv.Atoi(offsetStr)
		if err != nil {
			return p, Validation(fmt.Sprintf("offset must be an integer, got %q", offsetStr))
		}
		if n < 0 {
			n = 0
		}
		p.Offset = n
	}

	if orderStr != "" {
		switch strings.ToUpper(orderStr) {
		case "ASC":
			p.Order = "ASC"
		case "DESC":
			p.Order = "DESC"
		default:
			return p, Validation(fmt.Sprintf("order must be ASC or DESC, got %q", orderStr))
		}
	}

	return p, nil
}
