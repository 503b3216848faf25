package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ltvreport/internal/service"
)

type ReportHandler struct {
	Service *service.ReportService
	Logger  *zap.Logger
}

func (h *ReportHandler) Register(r *gin.Engine) {
	group := r.Group("/api/report")
	group.GET("", h.getReport)
	group.GET("/filters", h.getFilters)
}

// getReport answers GET /api/report. Date params take YYYY-MM-DD;
// affiliate, source and country repeat or hold comma-separated lists.
func (h *ReportHandler) getReport(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	start, err := dateQueryPtr(c, "start")
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid start date, want YYYY-MM-DD", nil)
		return
	}
	end, err := dateQueryPtr(c, "end")
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid end date, want YYYY-MM-DD", nil)
		return
	}
	if start != nil && end != nil && end.Before(*start) {
		Error(c, http.StatusBadRequest, "end date before start date", nil)
		return
	}

	report := h.Service.BuildReport(service.Filters{
		Start:      start,
		End:        end,
		Affiliates: listQuery(c, "affiliate"),
		Sources:    listQuery(c, "source"),
		Countries:  listQuery(c, "country"),
	})
	Ok(c, report, map[string]any{"rows": len(report.Rows)})
}

func (h *ReportHandler) getFilters(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	Ok(c, h.Service.Options(), nil)
}

func intQuery(c *gin.Context, key string, def int) int {
	if val := c.Query(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return def
}

func dateQueryPtr(c *gin.Context, key string) (*time.Time, error) {
	val := strings.TrimSpace(c.Query(key))
	if val == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation("2006-01-02", val, time.UTC)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// listQuery collects a multi-valued filter param, splitting any
// comma-separated values and dropping blanks and duplicates.
func listQuery(c *gin.Context, key string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, raw := range c.QueryArray(key) {
		for _, part := range strings.Split(raw, ",") {
			val := strings.TrimSpace(part)
			if val == "" {
				continue
			}
			if _, ok := seen[val]; ok {
				continue
			}
			seen[val] = struct{}{}
			out = append(out, val)
		}
	}
	return out
}
