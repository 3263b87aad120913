package http

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/msuny-c/fdb-viewer/internal/infra/config"
)

// replayBodyLimit bounds the request bodies buffered for replay.
const replayBodyLimit = 1 << 20

var errBodyTooLarge = errors.New("request body exceeds retry limit")

// withRetry replays JSON POSTs that ended in a transient 5xx. Multipart uploads
// and excluded path prefixes pass straight through.
func withRetry(handler http.Handler, cfg config.RetryConfig, logger *slog.Logger) http.Handler {
	if !cfg.Enabled || cfg.MaxAttempts <= 1 {
		return handler
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || isMultipart(r) || excluded(r.URL.Path, cfg.Exclude) {
			handler.ServeHTTP(w, r)
			return
		}
		body, err := bufferBody(r)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, errBodyTooLarge) {
				status = http.StatusRequestEntityTooLarge
			}
			http.Error(w, err.Error(), status)
			return
		}

		for attempt := 1; ; attempt++ {
			rec := newReplayRecorder()
			replay := r.Clone(r.Context())
			replay.Body = io.NopCloser(bytes.NewReader(body))
			replay.ContentLength = int64(len(body))
			handler.ServeHTTP(rec, replay)

			if !transient(rec.status) || attempt == cfg.MaxAttempts {
				rec.copyTo(w)
				return
			}
			logger.Warn("transient failure, replaying request", "path", r.URL.Path, "status", rec.status, "attempt", attempt)

			delay := cfg.BaseBackoff << (attempt - 1)
			timer := time.NewTimer(delay)
			select {
			case <-r.Context().Done():
				timer.Stop()
				rec.copyTo(w)
				return
			case <-timer.C:
			}
		}
	})
}

func excluded(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// isMultipart reports file uploads, which are never buffered for replay.
func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "multipart/")
}

func transient(status int) bool {
	return status >= http.StatusInternalServerError && status != http.StatusNotImplemented
}

func bufferBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	defer r.Body.Close()
	data, err := io.ReadAll(io.LimitReader(r.Body, replayBodyLimit+1))
	if err != nil {
		return nil, err
	}
	if len(data) > replayBodyLimit {
		return nil, errBodyTooLarge
	}
	return data, nil
}

// replayRecorder holds one attempt's response until it is known to be final.
type replayRecorder struct {
	header      http.Header
	body        bytes.Buffer
	status      int
	wroteHeader bool
}

func newReplayRecorder() *replayRecorder {
	return &replayRecorder{header: make(http.Header), status: http.StatusOK}
}

func (r *replayRecorder) Header() http.Header {
	return r.header
}

func (r *replayRecorder) WriteHeader(status int) {
	if r.wroteHeader {
		return
	}
	r.status = status
	r.wroteHeader = true
}

func (r *replayRecorder) Write(b []byte) (int, error) {
	return r.body.Write(b)
}

func (r *replayRecorder) Flush() {}

func (r *replayRecorder) copyTo(w http.ResponseWriter) {
	dst := w.Header()
	for k := range dst {
		dst.Del(k)
	}
	for k, values := range r.header {
		dst[k] = append([]string(nil), values...)
	}
	w.WriteHeader(r.status)
	if r.body.Len() > 0 {
		_, _ = w.Write(r.body.Bytes())
	}
}
