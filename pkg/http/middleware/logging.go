package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"FinBeta/pkg/logger"
)

// RequestLogging logs one line per request at debug level, or warn for 4xx.
func RequestLogging(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			req, res := c.Request(), c.Response()
			fields := []logger.Field{
				logger.String("method", req.Method),
				logger.String("uri", req.RequestURI),
				logger.String("remote", c.RealIP()),
				logger.Int("status", res.Status),
				logger.Duration("latency_ms", time.Since(start)),
			}
			if res.Status >= 400 && res.Status < 500 {
				log.Warn("http request rejected", fields...)
			} else {
				log.Debug("http request", fields...)
			}
			return err
		}
	}
}
