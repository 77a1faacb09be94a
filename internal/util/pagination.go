package util

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Offset turns a 1-based page and a page size into offset and limit.
// Out-of-range input falls back to page 1 and the default size.
func Offset(page, size int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return (page - 1) * size, size
}
