package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ltvreport/internal/config"
	"ltvreport/internal/pipeline"
	"ltvreport/internal/service"
)

func testLegacyEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	src := &stubSource{tables: map[string][]pipeline.RawRecord{
		"general_ltv": {
			{"pais": "Mexico", "fecha": "", "afiliado": "", "usd_total": "", "count_ftd": ""},
			{"pais": "alpha", "fecha": "2024-01-02", "afiliado": "100", "usd_total": "4", "count_ftd": "0"},
			{"pais": "beta", "fecha": "2024-01-03", "afiliado": "90", "usd_total": "3", "count_ftd": "0"},
			{"pais": "Total General", "fecha": "2024-01-31", "afiliado": "190", "usd_total": "7", "count_ftd": "27"},
		},
	}}
	svc := service.NewLegacyService(zap.NewNop(), src, nil, config.LegacyConfig{
		Table:     "general_ltv",
		Countries: []string{"Mexico", "Peru"},
	})

	engine := gin.New()
	h := &LegacyHandler{Service: svc, Logger: zap.NewNop()}
	h.Register(engine)
	return engine
}

func TestLegacyRebuildAndRows(t *testing.T) {
	t.Parallel()
	engine := testLegacyEngine(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/legacy/rebuild", nil)
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var summary service.RebuildSummary
	require.NoError(t, json.Unmarshal(data, &summary))
	require.Equal(t, 2, summary.Rows)
	require.Equal(t, 1, summary.SentinelRows)

	status, listResp := getJSON(t, engine, "/api/legacy/rows?limit=1&offset=1")
	require.Equal(t, http.StatusOK, status)
	require.EqualValues(t, 1, listResp.Meta["limit"])
	require.EqualValues(t, 2, listResp.Meta["total"])
	require.Equal(t, false, listResp.Meta["has_next"])

	rows, err := json.Marshal(listResp.Data)
	require.NoError(t, err)
	var page []legacyRow
	require.NoError(t, json.Unmarshal(rows, &page))
	require.Len(t, page, 1)
	require.Equal(t, "Beta", page[0].Affiliate)
	require.Equal(t, "2024-01-03", page[0].Date, "dates serialize as YYYY-MM-DD")
	require.Equal(t, 90.0, page[0].USDTotal)
	require.Equal(t, 30.0, page[0].GeneralLTV, "90 over 3 FTDs, recomputed")
}

func TestLegacyRowsBeforeRebuild(t *testing.T) {
	t.Parallel()
	engine := testLegacyEngine(t)

	status, resp := getJSON(t, engine, "/api/legacy/rows")
	require.Equal(t, http.StatusOK, status)
	require.EqualValues(t, 0, resp.Meta["total"])

	status, summary := getJSON(t, engine, "/api/legacy/summary")
	require.Equal(t, http.StatusOK, status)
	require.Zero(t, summary.Code)
}
