package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-storage-sim/internal/logger"
)

func TestLoggerServerErrorsSurviveWarnLevel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	require.NoError(t, logger.SetLevel("warn"))
	defer zerolog.SetGlobalLevel(zerolog.DebugLevel)

	var buf bytes.Buffer
	router := gin.New()
	router.Use(Logger(logger.NewWithWriter("api", &buf)))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/fail", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Zero(t, buf.Len())

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "request failed", entry["message"])
	assert.Equal(t, "/fail", entry["path"])
	assert.Equal(t, 500.0, entry["status"])
}
