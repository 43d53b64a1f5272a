package price

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/takeourcarsnow/receptai.fun/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLooker struct {
	quotes []common.PriceQuote
	panic  bool
	got    string
}

func (s *stubLooker) Lookup(ctx context.Context, displayName string) []common.PriceQuote {
	s.got = displayName
	if s.panic {
		panic("vendor exploded")
	}
	return s.quotes
}

func serve(t *testing.T, looker Looker, target string) []common.PriceQuote {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.UseRawPath = true
	r.GET("/api/prices/:ingredient", NewHandler(looker).Get)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var quotes []common.PriceQuote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quotes))
	require.NotNil(t, quotes, "body must be a JSON array: %s", rec.Body.String())
	return quotes
}

func TestGetDecodesDisplayName(t *testing.T) {
	looker := &stubLooker{quotes: []common.PriceQuote{
		{Store: "Maxima", Name: "Pomidorai", Price: "€1.23", URL: "https://www.barbora.lt/paieska?q=Pomidorai"},
	}}

	quotes := serve(t, looker, "/api/prices/%F0%9F%8D%85%20Pomidorai")
	assert.Equal(t, "🍅 Pomidorai", looker.got)
	assert.Equal(t, looker.quotes, quotes)
}

func TestGetDegradesToEmptyList(t *testing.T) {
	tests := []struct {
		name   string
		looker *stubLooker
	}{
		{name: "no quotes", looker: &stubLooker{}},
		{name: "panic", looker: &stubLooker{panic: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quotes := serve(t, tt.looker, "/api/prices/Druska")
			assert.Empty(t, quotes)
		})
	}
}
