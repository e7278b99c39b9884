package stitchpaint

// IDAllocator hands out monotonically increasing identifiers starting at 1.
// Zero is reserved to mean "none". The allocator is not safe for concurrent use.
type IDAllocator struct {
	last int
}

// NewIDAllocator returns a fresh allocator.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{}
}

// Next returns a new unique identifier.
func (a *IDAllocator) Next() int {
	a.last++
	return a.last
}

// Last returns the most recently issued identifier.
func (a *IDAllocator) Last() int {
	return a.last
}
