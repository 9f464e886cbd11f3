package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ErrorResponse is the canonical error body. One schema for every client;
// naming-convention variants belong at the serialization boundary, not here.
type ErrorResponse struct {
	Message   string `json:"message"`
	Error     string `json:"error,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// Error writes an error response with the canonical body.
func Error(c *gin.Context, status int, message, detail string) {
	c.JSON(status, ErrorResponse{
		Message:   message,
		Error:     detail,
		RequestID: getRequestID(c),
	})
}

func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return uuid.New().String()[:8]
}

// RequestBaseURL derives the scheme://host origin of the inbound request,
// honoring X-Forwarded-Proto when running behind a proxy. Handlers pass the
// result explicitly to URL resolution instead of relying on ambient state.
func RequestBaseURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host
}
