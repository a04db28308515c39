package logger

import (
	"context"
	log "log/slog"
)

// Context 中使用的 Key，与 gin.Context 中的 Key 保持一致
const (
	TraceIDKey   = "trace_id"
	UserIDKey    = "user_id"
	SessionIDKey = "session_id"
)

// ContextHandler 从 ctx 中提取 trace_id / user_id / session_id 附加到每条日志
type ContextHandler struct {
	log.Handler
}

func (h *ContextHandler) Handle(ctx context.Context, r log.Record) error {
	if ctx != nil {
		if traceID, ok := ctx.Value(TraceIDKey).(string); ok && traceID != "" {
			r.AddAttrs(log.String(TraceIDKey, traceID))
		}
		if userID, ok := ctx.Value(UserIDKey).(uint64); ok && userID != 0 {
			r.AddAttrs(log.Uint64(UserIDKey, userID))
		}
		if sessionID, ok := ctx.Value(SessionIDKey).(string); ok && sessionID != "" {
			r.AddAttrs(log.String(SessionIDKey, sessionID))
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []log.Attr) log.Handler {
	return &ContextHandler{h.Handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) log.Handler {
	return &ContextHandler{h.Handler.WithGroup(name)}
}

// WithTrace 为后台任务构造带 trace_id 的 ctx
func WithTrace(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}
