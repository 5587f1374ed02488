package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/family-ledger-api/internal/constants"
)

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// PaginationResponse represents the pagination metadata in API responses
type PaginationResponse struct {
	Page  int   `json:"page"`
	Size  int   `json:"size"`
	Total int64 `json:"total"`
}

// GetPaginationParams extracts and validates pagination parameters from the request.
// The page size is read from "size", falling back to "limit".
func GetPaginationParams(c *gin.Context) PaginationParams {
	sizeValue := c.Query("size")
	if sizeValue == "" {
		sizeValue = c.DefaultQuery("limit", strconv.Itoa(constants.DefaultPageSize))
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(constants.MinPageSize)))
	limit, _ := strconv.Atoi(sizeValue)

	return NewPaginationParams(page, limit)
}

// NewPaginationParams clamps page and limit into the accepted range.
func NewPaginationParams(page, limit int) PaginationParams {
	if page < constants.MinPageSize {
		page = constants.MinPageSize
	}
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}
