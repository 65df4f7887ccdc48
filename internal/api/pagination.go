package api

import (
	"strconv"

	"invest_ledger/internal/store"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxPage         = 100000 // Keeps the offset well inside int range
)

// pageParams reads page and page_size from the query string
func pageParams(c *gin.Context) (int, int, store.Page) {
	page := 1                   // Default page number
	pageSize := defaultPageSize // Default page size
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = min(v, maxPage) // Clamp runaway page numbers
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= maxPageSize {
			pageSize = v
		}
	}
	return page, pageSize, store.Page{Limit: pageSize, Offset: (page - 1) * pageSize}
}

// totalPages rounds total/pageSize up
func totalPages(total int64, pageSize int) int {
	return (int(total) + pageSize - 1) / pageSize
}
