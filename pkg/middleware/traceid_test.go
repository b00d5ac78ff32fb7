package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceIDMiddlewareGeneratesID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	TraceIDMiddleware()(c)

	id := w.Header().Get("X-Trace-ID")
	require.NotEmpty(t, id)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)

	v, ok := c.Get("trace_id")
	require.True(t, ok)
	assert.Equal(t, id, v)
}

func TestTraceIDMiddlewareReusesIncomingID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.Header.Set("X-Trace-ID", "gateway-trace-1")

	TraceIDMiddleware()(c)

	assert.Equal(t, "gateway-trace-1", w.Header().Get("X-Trace-ID"))
	v, _ := c.Get("trace_id")
	assert.Equal(t, "gateway-trace-1", v)
}
