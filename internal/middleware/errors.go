package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"Cerezo_Blog/internal/pkg"

	"github.com/gin-gonic/gin"
)

// ErrorHandler 统一把 c.Errors 映射为状态码与 JSON，非生产环境附带错误链
func ErrorHandler(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		e := pkg.AsError(err)
		status := e.Status()

		body := gin.H{"message": e.Msg, "code": e.Code}
		if status >= http.StatusInternalServerError {
			slog.Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "err", err)
			if production && e.Kind == pkg.KindInternal {
				body["message"] = pkg.ErrInternal.Msg
			}
		}
		if !production {
			body["stack"] = chain(err)
		}
		c.JSON(status, body)
	}
}

func chain(err error) []string {
	var out []string
	for err != nil {
		out = append(out, err.Error())
		err = errors.Unwrap(err)
	}
	return out
}

// NotFound 未匹配的路由
func NotFound(c *gin.Context) {
	_ = c.Error(pkg.ErrNotFound.With("route not found - " + c.Request.URL.Path))
}
