package query

// Pagination is cursor-based: After is the numeric ID of the last item the
// caller has seen. Order is "asc" or "desc"; anything else is treated as asc.
type Pagination struct {
	Limit *int
	Order string
	After *uint
}

// NewPagination builds a Pagination from optional request values.
func NewPagination(limit *int, order string, after *uint) *Pagination {
	return &Pagination{Limit: limit, Order: order, After: after}
}

// Descending reports whether results should be returned newest first.
func (p *Pagination) Descending() bool {
	return p != nil && p.Order == "desc"
}
