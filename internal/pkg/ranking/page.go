package ranking

// Offset 页码从 1 开始
func Offset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}

// HasMore currentPage < ceil(total / pageSize)
func HasMore(currentPage, total, pageSize int) bool {
	if pageSize <= 0 {
		return false
	}
	pages := (total + pageSize - 1) / pageSize
	return currentPage < pages
}
