// internal/utils/pagination.go
package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MaxPageLimit is the largest page size. The max tag on Limit must agree.
const MaxPageLimit = 100

type PaginationParams struct {
	Offset int `json:"offset" validate:"min=0"`
	Limit  int `json:"limit" validate:"min=1,max=100"`
}

// GetPaginationParams reads offset and limit from the query string.
// Values that are missing take the defaults; values that are malformed or
// out of range are reported rather than clamped.
func GetPaginationParams(c *gin.Context, defaultLimit int) (PaginationParams, []ValidationError) {
	params := PaginationParams{Offset: 0, Limit: defaultLimit}
	var errs []ValidationError

	if raw, ok := c.GetQuery("offset"); ok {
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			errs = append(errs, ValidationError{Field: "offset", Tag: "integer", Message: "offset must be an integer"})
		}
		params.Offset = v
	}
	if raw, ok := c.GetQuery("limit"); ok {
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			errs = append(errs, ValidationError{Field: "limit", Tag: "integer", Message: "limit must be an integer"})
		}
		params.Limit = v
	}
	if len(errs) > 0 {
		return params, errs
	}

	return params, GetValidationErrors(ValidateStruct(&params))
}

func ApplyPagination(db *gorm.DB, params PaginationParams) *gorm.DB {
	return db.Offset(params.Offset).Limit(params.Limit)
}

// ParseIDList parses a comma-separated list of positive integers.
// Blank input yields nil.
func ParseIDList(raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ParseUintParam reads a positive integer path parameter.
func ParseUintParam(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return uint(v), nil
}

func SetPaginationHeaders(c *gin.Context, total int64, params PaginationParams) {
	c.Header("X-Total-Count", strconv.FormatInt(total, 10))
	c.Header("X-Offset", strconv.Itoa(params.Offset))
	c.Header("X-Limit", strconv.Itoa(params.Limit))
}
