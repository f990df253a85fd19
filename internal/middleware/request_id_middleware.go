package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader — заголовок, в котором клиент может передать свой id запроса
const RequestIDHeader = "X-Request-ID"

// RequestID присваивает каждому запросу идентификатор и возвращает его в ответе.
// Переданный клиентом X-Request-ID сохраняется, иначе генерируется новый UUID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("requestID", requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)
		c.Next()
	}
}
