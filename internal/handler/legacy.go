package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ltvreport/internal/pipeline"
	"ltvreport/internal/service"
)

type LegacyHandler struct {
	Service *service.LegacyService
	Logger  *zap.Logger
}

func (h *LegacyHandler) Register(r *gin.Engine) {
	group := r.Group("/api/legacy")
	group.POST("/rebuild", h.rebuild)
	group.GET("/rows", h.listRows)
	group.GET("/summary", h.getSummary)
}

// legacyRow is the wire form of a reconstructed row: date as YYYY-MM-DD,
// money rounded to cents as plain numbers.
type legacyRow struct {
	Date       string  `json:"date"`
	Country    *string `json:"country"`
	Affiliate  string  `json:"affiliate"`
	USDTotal   float64 `json:"usd_total"`
	CountFTD   int64   `json:"count_ftd"`
	GeneralLTV float64 `json:"general_ltv"`
}

func toLegacyRow(r pipeline.LegacyRow) legacyRow {
	return legacyRow{
		Date:       r.Date.Format("2006-01-02"),
		Country:    r.Country,
		Affiliate:  r.Affiliate,
		USDTotal:   r.USDTotal.Round(2).InexactFloat64(),
		CountFTD:   r.CountFTD,
		GeneralLTV: r.GeneralLTV.Round(2).InexactFloat64(),
	}
}

func (h *LegacyHandler) rebuild(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	summary, err := h.Service.Rebuild(c.Request.Context())
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("legacy rebuild failed", zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, summary, nil)
}

func (h *LegacyHandler) listRows(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 100)
	offset := intQuery(c, "offset", 0)
	rows, total := h.Service.Rows(limit, offset)

	out := make([]legacyRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, toLegacyRow(r))
	}
	Ok(c, out, paginationMeta(limit, offset, total))
}

func (h *LegacyHandler) getSummary(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	Ok(c, h.Service.Summary(), nil)
}
