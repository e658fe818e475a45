package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bookkeeper/internal/services"
)

const defaultPageSize = 10

// respondError maps service errors onto HTTP statuses. Unexpected errors are
// attached to the context for the request logger and hidden from clients.
func respondError(c *gin.Context, err error) {
	switch {
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case services.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Paginate slices items into the requested page. The page number is clamped
// to [1, totalPages]; an empty list still has one (empty) page.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = defaultPageSize
	}
	total := len(items)
	totalPages := (total + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	data := items[start:end]
	if data == nil {
		data = []T{}
	}
	return Page[T]{
		Data:       data,
		Pagination: Pagination{Page: page, PageSize: size, Total: total, TotalPages: totalPages},
	}
}

// pageParams reads page and page_size, falling back to the first page of
// defaultPageSize on missing or malformed values.
func pageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}
	size, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if err != nil || size <= 0 {
		size = defaultPageSize
	}
	if size > 100 {
		size = 100
	}
	return page, size
}

func paginate[T any](c *gin.Context, items []T) Page[T] {
	page, size := pageParams(c)
	return Paginate(items, page, size)
}
