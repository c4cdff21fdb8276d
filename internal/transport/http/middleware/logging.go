package middleware

import (
	"encoding/json"
	"log"
	"net/http"
	"time"
)

type logEntry struct {
	Timestamp string `json:"ts"`
	Method    string `json:"method"`
	Path      string `json:"path"`
	Status    int    `json:"status"`
	Bytes     int    `json:"bytes"`
	Duration  int64  `json:"durationMs"`
	RequestID string `json:"requestId"`
	Remote    string `json:"remote"`
	Slow      bool   `json:"slow,omitempty"`
}

// slowRequestMs flags requests worth a look; approval transitions normally
// finish in a handful of milliseconds.
const slowRequestMs = 500

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(p []byte) (int, error) {
	n, err := s.ResponseWriter.Write(p)
	s.bytes += n
	return n, err
}

// Logger emits one JSON line per request. Actor attribution for sensitive
// actions lives in the audit log, not here.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		elapsed := time.Since(start).Milliseconds()
		entry := logEntry{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Method:    r.Method,
			Path:      r.URL.Path,
			Status:    recorder.status,
			Bytes:     recorder.bytes,
			Duration:  elapsed,
			RequestID: GetRequestID(r.Context()),
			Remote:    r.RemoteAddr,
			Slow:      elapsed >= slowRequestMs,
		}

		payload, _ := json.Marshal(entry)
		log.Println(string(payload))
	})
}
