package middleware

import (
	"Parchment/internal/pkg/logger"
	"bytes"
	"context"
	"io"
	log "log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// auditBodyLimit 审计日志里保留的请求/响应体上限
const auditBodyLimit = 16384

type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r *responseBodyWriter) Write(b []byte) (int, error) {
	if remain := auditBodyLimit - r.body.Len(); remain > 0 {
		r.body.Write(b[:min(len(b), remain)])
	}
	return r.ResponseWriter.Write(b)
}

func (r *responseBodyWriter) Flush() {
	if flusher, ok := r.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// AuditMiddleware 记录请求与响应，quietPrefixes 下的路径降为 debug 且不记录请求体
func AuditMiddleware(quietPrefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		level := log.LevelInfo
		for _, prefix := range quietPrefixes {
			if strings.HasPrefix(path, prefix) {
				level = log.LevelDebug
				break
			}
		}
		ctx := c.Request.Context()
		if !log.Default().Enabled(ctx, level) {
			c.Next()
			return
		}

		var reqBody []byte
		if level == log.LevelInfo && c.Request.Body != nil && c.Request.ContentLength != 0 {
			reqBody, _ = io.ReadAll(io.LimitReader(c.Request.Body, auditBodyLimit))
			c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(reqBody), c.Request.Body))
		}

		rawQuery := c.Request.URL.RawQuery
		decodedQuery, err := url.QueryUnescape(rawQuery)
		if err != nil {
			decodedQuery = rawQuery
		}

		log.Log(ctx, level, "Recv Request",
			log.String("method", c.Request.Method),
			log.String("path", path),
			log.String("query", decodedQuery),
			log.String("req_body", string(reqBody)),
		)

		w := &responseBodyWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = w
		startTime := time.Now()

		c.Next()

		// 鉴权与会话中间件会往 ctx 里补充 user_id / session_id
		logResponse(c.Request.Context(), level, c, w, time.Since(startTime))
	}
}

func logResponse(ctx context.Context, level log.Level, c *gin.Context, w *responseBodyWriter, latency time.Duration) {
	attrs := []any{
		log.Int("status", c.Writer.Status()),
		log.Duration("latency", latency),
		log.String("res_body", w.body.String()),
	}
	if len(c.Errors) > 0 {
		attrs = append(attrs, log.String("errors", c.Errors.String()))
	}
	if _, ok := ctx.Value(logger.SessionIDKey).(string); !ok {
		if sessionID := c.GetString(logger.SessionIDKey); sessionID != "" {
			attrs = append(attrs, log.String(logger.SessionIDKey, sessionID))
		}
	}
	log.Log(ctx, level, "Send Response", attrs...)
}
