package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hnakamura/task-tracker-api/internal/constants"
)

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page    int
	PerPage int
	Offset  int
}

// GetPaginationParams extracts and validates pagination parameters from the
// request. page defaults to 1; per_page defaults to 15 and is clamped to
// [1,100].
func GetPaginationParams(c *gin.Context) PaginationParams {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}

	perPage, err := strconv.Atoi(c.Query("per_page"))
	if err != nil {
		perPage = constants.DefaultPerPage
	}
	if perPage < 1 {
		perPage = 1
	}
	if perPage > constants.MaxPerPage {
		perPage = constants.MaxPerPage
	}

	return PaginationParams{
		Page:    page,
		PerPage: perPage,
		Offset:  (page - 1) * perPage,
	}
}
