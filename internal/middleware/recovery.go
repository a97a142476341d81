package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/giga-bot/internal/domain/dto"
	"github.com/guttosm/giga-bot/internal/i18n"
	"github.com/guttosm/giga-bot/internal/logger"
)

// Recovery turns a panicking handler into a localized 500 carrying the request id.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log := logger.FromContext(c.Request.Context())
				log.Error().
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Interface("panic", err).
					Msg("PANIC recovered")

				message := i18n.GetTranslator().Translate(i18n.ErrKeyInternalError, i18n.GetLocale(c))
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					dto.NewError(dto.ErrCodeInternal, message).WithRequestID(GetRequestID(c)))
			}
		}()
		c.Next()
	}
}
