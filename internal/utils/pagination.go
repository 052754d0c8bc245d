package utils

import (
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PaginationParams struct {
	Page     int    `json:"page"`
	Limit    int    `json:"limit"`
	Sort     string `json:"sort"`
	Category string `json:"category"`
}

func GetPaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	return PaginationParams{
		Page:     page,
		Limit:    limit,
		Sort:     c.Query("sort"),
		Category: c.Query("category"),
	}
}

func ApplyPagination(db *gorm.DB, params PaginationParams) *gorm.DB {
	offset := (params.Page - 1) * params.Limit
	return db.Offset(offset).Limit(params.Limit)
}

// ApplySort parses a "field:direction" sort expression. Direction "desc"
// sorts descending, anything else ascending. Unknown fields and an empty
// expression fall back to newest-first.
func ApplySort(db *gorm.DB, sort string, allowedSortFields []string) *gorm.DB {
	if sort == "" {
		return db.Order("created_at DESC")
	}

	parts := strings.SplitN(sort, ":", 2)
	field := parts[0]

	validSort := false
	for _, allowed := range allowedSortFields {
		if allowed == field {
			validSort = true
			break
		}
	}
	if !validSort {
		return db.Order("created_at DESC")
	}

	order := "ASC"
	if len(parts) == 2 && parts[1] == "desc" {
		order = "DESC"
	}

	return db.Order(field + " " + order)
}

func TotalPages(total int64, limit int) int {
	return int(math.Ceil(float64(total) / float64(limit)))
}
