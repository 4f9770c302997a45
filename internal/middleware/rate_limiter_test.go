package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedServer(perMinute float64) *echo.Echo {
	e := echo.New()
	e.GET("/ws", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	}, RateLimiter(perMinute))
	return e
}

func hit(e *echo.Echo, clientIP string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.RemoteAddr = clientIP
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_BlocksBeyondPerIPLimit(t *testing.T) {
	e := newLimitedServer(DefaultHandshakeRate)

	for i := 0; i < DefaultHandshakeRate; i++ {
		rec := hit(e, "192.0.2.2:1234")
		require.Equal(t, http.StatusOK, rec.Code, "request %d should be allowed", i+1)
	}

	rec := hit(e, "192.0.2.2:1234")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "Too many requests")
}

func TestRateLimiter_TracksClientsIndependently(t *testing.T) {
	e := newLimitedServer(1)

	require.Equal(t, http.StatusOK, hit(e, "192.0.2.3:1234").Code)
	require.Equal(t, http.StatusTooManyRequests, hit(e, "192.0.2.3:1234").Code)

	// A different IP has its own bucket.
	assert.Equal(t, http.StatusOK, hit(e, "192.0.2.4:1234").Code)
}
