// Package handler exposes the report, legacy-rebuild and health endpoints
// over gin. Every endpoint answers with the same envelope so clients can
// branch on code/message uniformly.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// apiResponse is the shared envelope. Code is zero on success and mirrors
// the HTTP status on failure; Meta carries request-scoped extras such as
// pagination counters or the row count of a report.
type apiResponse struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    any            `json:"data,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func Ok(c *gin.Context, data any, meta map[string]any) {
	c.JSON(http.StatusOK, apiResponse{
		Code:    0,
		Message: "ok",
		Data:    data,
		Meta:    meta,
	})
}

func Error(c *gin.Context, status int, message string, meta map[string]any) {
	c.JSON(status, apiResponse{
		Code:    status,
		Message: message,
		Meta:    meta,
	})
}

// paginationMeta describes one page of a list response.
func paginationMeta(limit, offset, total int) map[string]any {
	if limit <= 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}
	return map[string]any{
		"limit":    limit,
		"offset":   offset,
		"total":    total,
		"has_next": limit > 0 && offset+limit < total,
	}
}
