package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_ExposesRecordedMetrics(t *testing.T) {
	RequestStarted()
	RecordRequest(http.MethodGet, "/api/catalog", http.StatusOK, 5*time.Millisecond)
	RecordAICall("gemini", "gemini-pro", "success", time.Second)
	RecordAbandonedCall()
	SetAIInflight(2)
	RecordRecipeOutcome("valid")
	RecordPriceCache(true)
	RecordPriceCache(false)
	SetPriceCacheEntries(3)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(body)

	assert.Contains(t, text, `receptai_http_requests_total{method="GET",path="/api/catalog",status="200"} 1`)
	assert.Contains(t, text, `receptai_ai_requests_total{model="gemini-pro",outcome="success",provider="gemini"} 1`)
	assert.Contains(t, text, "receptai_ai_abandoned_calls_total 1")
	assert.Contains(t, text, "receptai_ai_inflight_calls 2")
	assert.Contains(t, text, `receptai_recipe_generations_total{result="valid"} 1`)
	assert.Contains(t, text, `receptai_price_cache_operations_total{result="hit"} 1`)
	assert.Contains(t, text, "receptai_price_cache_entries 3")
}
