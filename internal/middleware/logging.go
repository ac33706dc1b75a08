package middleware

import (
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const requestIDHeader = "X-Request-Id"

// RequestLog tags every request with an id, echoes it back in the
// response header and writes one line per request with method, path,
// status, duration and the acting user.
func RequestLog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			reqID := c.Request().Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			c.Set("request_id", reqID)
			c.Response().Header().Set(requestIDHeader, reqID)

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			user := "-"
			if uid, uerr := getContextUserID(c); uerr == nil {
				user = "user:" + strconv.FormatUint(uid, 10)
			}
			log.Printf("request_id=%s method=%s path=%s status=%d duration=%s actor=%s",
				reqID, c.Request().Method, c.Request().URL.Path,
				c.Response().Status, time.Since(start).Round(time.Microsecond), user)
			return nil
		}
	}
}
