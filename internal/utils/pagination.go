package utils

import (
	"strconv"

	"github.com/Achintya-Chatterjee/task-management-api/internal/constants"
	"github.com/gin-gonic/gin"
)

// PaginationParams holds the coerced pagination parameters
type PaginationParams struct {
	Page  int
	Limit int
}

// SortParams holds the requested sort field and direction. Values are
// passed through as-is; the repository validates the field against its
// allow-list.
type SortParams struct {
	SortBy    string
	SortOrder string
}

// GetPaginationParams extracts pagination parameters from the request.
// Coercion is deliberately permissive: absent or non-numeric input falls
// back to the defaults rather than failing the request.
func GetPaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(constants.MinPage)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultPageSize)))

	if page < constants.MinPage {
		page = constants.MinPage
	}
	if limit < 1 || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}

	return PaginationParams{
		Page:  page,
		Limit: limit,
	}
}

// GetSortParams extracts sort parameters from the request.
func GetSortParams(c *gin.Context) SortParams {
	return SortParams{
		SortBy:    c.DefaultQuery("sortBy", "createdAt"),
		SortOrder: c.DefaultQuery("sortOrder", "desc"),
	}
}
