package services

// Page selects a window of a list. Zero values fall back to the first page of 10.
type Page struct {
	Number int
	Size   int
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

func (p Page) limit() int {
	if p.Size <= 0 {
		return defaultPageSize
	}
	if p.Size > maxPageSize {
		return maxPageSize
	}
	return p.Size
}

func (p Page) offset() int {
	n := p.Number
	if n < 1 {
		n = 1
	}
	return (n - 1) * p.limit()
}
