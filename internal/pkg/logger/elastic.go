package logger

import (
	"bytes"
	"io"
	log "log/slog"
	"net/http"
	"time"
)

// ESTransport 记录 Elasticsearch 请求与响应体（截断）
type ESTransport struct {
	Transport http.RoundTripper
	Slow      time.Duration
}

func NewESTransport() *ESTransport {
	return &ESTransport{Transport: http.DefaultTransport, Slow: 500 * time.Millisecond}
}

func (t *ESTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	reqBody := drain(&req.Body)
	resp, err := t.Transport.RoundTrip(req)
	elapsed := time.Since(start)

	fields := []any{
		log.String("method", req.Method),
		log.String("url", req.URL.String()),
		log.Duration("latency", elapsed),
		log.String("req_body", truncate(string(reqBody), bodyLimit)),
	}

	if err != nil {
		log.ErrorContext(req.Context(), "ES_QUERY_ERROR", append(fields, log.Any("err", err))...)
		return nil, err
	}

	resBody := drain(&resp.Body)
	fields = append(fields,
		log.Int("status", resp.StatusCode),
		log.String("res_body", truncate(string(resBody), bodyLimit)),
	)

	switch {
	case resp.StatusCode >= 500:
		log.ErrorContext(req.Context(), "ES_QUERY_FAILED", fields...)
	case elapsed > t.Slow:
		log.WarnContext(req.Context(), "ES_QUERY_SLOW", fields...)
	default:
		log.DebugContext(req.Context(), "ES_QUERY", fields...)
	}
	return resp, nil
}

// drain 读出 body 并替换为可重复读取的副本
func drain(body *io.ReadCloser) []byte {
	if *body == nil || *body == http.NoBody {
		return nil
	}
	b, _ := io.ReadAll(*body)
	_ = (*body).Close()
	*body = io.NopCloser(bytes.NewReader(b))
	return b
}
