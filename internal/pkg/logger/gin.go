package logger

import (
	"Parchment/internal/api/config"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

type accessLine struct {
	Time        string `json:"time"`
	Level       string `json:"level"`
	Msg         string `json:"msg"`
	TraceID     string `json:"trace_id"`
	SessionID   string `json:"session_id,omitempty"`
	LogToken    string `json:"log_token,omitempty"`
	TargetIndex string `json:"target_index,omitempty"`
	Method      string `json:"method"`
	Path        string `json:"path"`
	Status      int    `json:"status"`
	Latency     string `json:"latency"`
	ClientIP    string `json:"client_ip"`
}

// SetupGin 访问日志与 panic 恢复
func SetupGin(r *gin.Engine) {
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Output:    LogWriter,
		SkipPaths: []string{"/api/ping"},
		Formatter: formatAccess,
	}))
	r.Use(gin.Recovery())
}

func formatAccess(p gin.LogFormatterParams) string {
	line := accessLine{
		Time:     p.TimeStamp.Format(time.RFC3339),
		Level:    "INFO",
		Msg:      "GIN_ACCESS",
		Method:   p.Method,
		Path:     p.Path,
		Status:   p.StatusCode,
		Latency:  p.Latency.String(),
		ClientIP: p.ClientIP,
	}
	if p.Keys != nil {
		line.TraceID, _ = p.Keys[TraceIDKey].(string)
		line.SessionID, _ = p.Keys[SessionIDKey].(string)
	}
	if line.TraceID == "" && p.Request != nil {
		line.TraceID, _ = p.Request.Context().Value(TraceIDKey).(string)
	}
	if config.Cfg != nil {
		line.LogToken = config.Cfg.Logstash.Token
		line.TargetIndex = config.Cfg.Logstash.Index
	}
	if p.StatusCode >= 500 {
		line.Level = "ERROR"
	}

	b, err := json.Marshal(line)
	if err != nil {
		return fmt.Sprintf(`{"level":"ERROR","msg":"GIN_ACCESS","err":%q}`+"\n", err.Error())
	}
	return string(b) + "\n"
}
