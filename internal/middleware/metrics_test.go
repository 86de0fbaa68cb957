package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentra/ems-api/internal/service"
)

func scrape(t *testing.T, metricsSvc *service.MetricsService) string {
	t.Helper()
	rec := httptest.NewRecorder()
	metricsSvc.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestMetricsSplitsCacheAndOriginRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metricsSvc := service.NewMetricsService()

	r := gin.New()
	r.Use(WithResponseMeta(), Metrics(metricsSvc))
	r.GET("/cached", func(c *gin.Context) {
		SetCacheHit(c, true)
		c.JSON(http.StatusOK, gin.H{})
	})
	r.GET("/fresh", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})

	for _, path := range []string{"/cached", "/fresh"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	body := scrape(t, metricsSvc)
	assert.Contains(t, body, `http_requests_total{method="GET",path="/cached",source="cache",status="200"} 1`)
	assert.Contains(t, body, `http_requests_total{method="GET",path="/fresh",source="origin",status="200"} 1`)
}

func TestMetricsCountsUnmatchedRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metricsSvc := service.NewMetricsService()

	r := gin.New()
	r.Use(Metrics(metricsSvc))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	body := scrape(t, metricsSvc)
	assert.Contains(t, body, `path="/nope"`)
	assert.Contains(t, body, `status="404"`)
}
