package domain

import "strconv"

// DefaultPageSize matches the fixed page size of the listing endpoints.
const DefaultPageSize = 10

// Page is a 1-based page request. Construct it with NewPage so the clamping
// rules apply.
type Page struct {
	Number int
	Size   int
}

// NewPage parses a raw page value, clamping non-numeric or sub-1 input to
// page 1. A size below 1 falls back to DefaultPageSize.
func NewPage(raw string, size int) Page {
	if size < 1 {
		size = DefaultPageSize
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		n = 1
	}
	return Page{Number: n, Size: size}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

func (p Page) Limit() int {
	return p.Size
}

// TotalPages is ceil(total/size); zero rows yields zero pages. A page past
// the end is a valid, empty result, never an error.
func (p Page) TotalPages(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + p.Size - 1) / p.Size
}
