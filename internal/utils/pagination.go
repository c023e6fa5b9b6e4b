// internal/utils/pagination.go
package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PaginationParams is the listing window read from ?page, ?limit, ?sort,
// ?order, ?search (or ?q) and ?category.
type PaginationParams struct {
	Page     int    `json:"page"`
	Limit    int    `json:"limit"`
	Sort     string `json:"sort"`
	Order    string `json:"order"`
	Search   string `json:"search"`
	Category string `json:"category"`
}

type PageMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// PaginationFromQuery clamps out of range values to the defaults instead of
// rejecting the request.
func PaginationFromQuery(c *gin.Context) PaginationParams {
	p := PaginationParams{
		Page:     1,
		Limit:    defaultPageSize,
		Sort:     c.DefaultQuery("sort", "created_at"),
		Order:    "desc",
		Search:   c.Query("search"),
		Category: c.Query("category"),
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		p.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 && limit <= maxPageSize {
		p.Limit = limit
	}
	if c.Query("order") == "asc" {
		p.Order = "asc"
	}
	if p.Search == "" {
		p.Search = c.Query("q")
	}
	return p
}

func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

func (p PaginationParams) Meta(total int64) PageMeta {
	meta := PageMeta{Page: p.Page, Limit: p.Limit, Total: total}
	if p.Limit > 0 {
		meta.TotalPages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return meta
}

// Window is a gorm scope limiting a query to the requested page.
func (p PaginationParams) Window() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset()).Limit(p.Limit)
	}
}

// SortedBy is a gorm scope ordering by the requested column when it is one of
// columns and by created_at otherwise.
func (p PaginationParams) SortedBy(columns ...string) func(*gorm.DB) *gorm.DB {
	column := "created_at"
	for _, c := range columns {
		if c == p.Sort {
			column = c
			break
		}
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: p.Order != "asc"})
	}
}
