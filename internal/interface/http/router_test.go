package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/msuny-c/fdb-viewer/internal/domain/auth"
	"github.com/msuny-c/fdb-viewer/internal/domain/document"
	"github.com/msuny-c/fdb-viewer/internal/domain/fdb"
	"github.com/msuny-c/fdb-viewer/internal/domain/lookup"
	"github.com/msuny-c/fdb-viewer/internal/infra/config"
	apperrors "github.com/msuny-c/fdb-viewer/pkg/errors"
)

func TestRouter_Health(t *testing.T) {
	rec := serve(newRouterUnderTest(t, &stubDocuments{}, nil), http.MethodGet, "/healthz", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"ok":true}`, rec.Body.String())
	require.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestRouter_UploadRedirects(t *testing.T) {
	var got document.UploadRequest
	svc := &stubDocuments{
		uploadFn: func(ctx context.Context, req document.UploadRequest) (document.UploadResponse, error) {
			got = req
			return document.UploadResponse{Document: document.Document{ID: "abcd1234"}}, nil
		},
	}
	body, contentType := multipartBody(t, map[string][]part{
		"fdb":    {{name: "bank.fdb", data: "<1>00</1>"}},
		"assets": {{name: "img/pic.png", data: "png"}},
		"dirs":   {{name: "other.jpg", data: "jpg"}},
	})

	rec := serve(newRouterUnderTest(t, svc, nil), http.MethodPost, "/upload", body, contentType)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/abcd1234", rec.Header().Get("Location"))
	require.Equal(t, "bank.fdb", got.Filename)
	require.Equal(t, "<1>00</1>", string(got.Content))
	require.Len(t, got.Assets, 2)
}

func TestRouter_UploadRequiresFile(t *testing.T) {
	body, contentType := multipartBody(t, map[string][]part{"other": {{name: "x.fdb", data: "x"}}})

	rec := serve(newRouterUnderTest(t, &stubDocuments{}, nil), http.MethodPost, "/upload", body, contentType)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_request", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

func TestRouter_UploadInvalidInput(t *testing.T) {
	svc := &stubDocuments{
		uploadFn: func(ctx context.Context, req document.UploadRequest) (document.UploadResponse, error) {
			return document.UploadResponse{}, apperrors.Wrap("invalid_input", "fdb file cannot be empty", nil)
		},
	}
	body, contentType := multipartBody(t, map[string][]part{"fdb": {{name: "x.fdb", data: ""}}})

	rec := serve(newRouterUnderTest(t, svc, nil), http.MethodPost, "/upload", body, contentType)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, decodeErrorBody(t, rec.Body.Bytes())["error"]["message"], "cannot be empty")
}

func TestRouter_UploadTokenGuard(t *testing.T) {
	authCfg := auth.Config{Secret: "router-secret", TokenTTL: time.Hour}
	authSvc := auth.NewService(authCfg, newTestLogger())
	svc := &stubDocuments{
		uploadFn: func(ctx context.Context, req document.UploadRequest) (document.UploadResponse, error) {
			return document.UploadResponse{Document: document.Document{ID: "guarded1"}}, nil
		},
	}
	server := newRouterUnderTest(t, svc, authSvc, func(cfg *config.Config) {
		cfg.Auth.Secret = authCfg.Secret
	})

	body, contentType := multipartBody(t, map[string][]part{"fdb": {{name: "x.fdb", data: "x"}}})
	rec := serve(server, http.MethodPost, "/upload", body, contentType)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	body, contentType = multipartBody(t, map[string][]part{"fdb": {{name: "x.fdb", data: "x"}}})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	token, err := authSvc.Issue(context.Background(), auth.IssueRequest{Subject: "ci"})
	require.NoError(t, err)
	body, contentType = multipartBody(t, map[string][]part{"fdb": {{name: "x.fdb", data: "x"}}})
	req = httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token.Token)
	rec = httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/guarded1", rec.Header().Get("Location"))
}

func TestRouter_ViewAndData(t *testing.T) {
	doc := document.Document{
		ID:     "doc12345",
		Groups: fdb.Grouped{"0": {Name: fdb.AllQuestionsGroup, Questions: []fdb.Question{{ID: "1", Prompt: "Q", Answers: []string{"A"}}}}},
		Assets: []string{},
	}
	var ids []string
	svc := &stubDocuments{
		getFn: func(ctx context.Context, id string) (document.Document, error) {
			ids = append(ids, id)
			if id != doc.ID {
				return document.Document{}, apperrors.Wrap("not_found", "document not found", nil)
			}
			return doc, nil
		},
	}
	server := newRouterUnderTest(t, svc, nil)

	rec := serve(server, http.MethodGet, "/doc12345", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var view document.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Equal(t, "Документ doc12345", view.Title)
	require.Equal(t, "/s/doc12345/assets/", view.AssetBase)

	rec = serve(server, http.MethodGet, "/api/doc/doc12345.json", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var grouped fdb.Grouped
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &grouped))
	require.Equal(t, "Q", grouped["0"].Questions[0].Prompt)

	rec = serve(server, http.MethodGet, "/missing1", nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "not_found", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])

	require.Equal(t, []string{"doc12345", "doc12345", "missing1"}, ids)
}

func TestRouter_Asset(t *testing.T) {
	svc := &stubDocuments{
		assetFn: func(ctx context.Context, id, name string) (io.ReadCloser, document.AssetObject, error) {
			require.Equal(t, "doc12345", id)
			if name != "pic.png" {
				return nil, document.AssetObject{}, apperrors.Wrap("not_found", "asset not found", nil)
			}
			return io.NopCloser(strings.NewReader("PNGDATA")), document.AssetObject{Name: name, ContentType: "image/png"}, nil
		},
	}
	server := newRouterUnderTest(t, svc, nil)

	rec := serve(server, http.MethodGet, "/s/doc12345/assets/pic.png", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	require.Equal(t, "PNGDATA", rec.Body.String())

	rec = serve(server, http.MethodGet, "/s/doc12345/assets/other.png", nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Answer(t *testing.T) {
	svc := &stubDocuments{
		lookupFn: func(ctx context.Context, id, query string) (lookup.Answer, error) {
			switch query {
			case "столица франции":
				return lookup.Answer{Text: "Париж", Score: 0.97, QuestionID: "1", Source: id}, nil
			case "без ответа":
				return lookup.Answer{QuestionID: "2", Source: id, Score: 1, Empty: true}, nil
			}
			return lookup.Answer{}, apperrors.Wrap(lookup.CodeNoMatch, "no question matched the query", lookup.ErrNoMatch)
		},
	}
	server := newRouterUnderTest(t, svc, nil)

	rec := serve(server, http.MethodPost, "/api/doc/doc12345/answer", strings.NewReader(`{"query":"столица франции"}`), "application/json")
	require.Equal(t, http.StatusOK, rec.Code)
	var got lookup.Answer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "Париж", got.Text)
	require.Equal(t, "doc12345", got.Source)

	rec = serve(server, http.MethodPost, "/api/doc/doc12345/answer", strings.NewReader(`{"query":"без ответа"}`), "application/json")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.True(t, got.Empty)

	rec = serve(server, http.MethodPost, "/api/doc/doc12345/answer", strings.NewReader(`{"query":"что-то другое"}`), "application/json")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, lookup.CodeNoMatch, decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])

	rec = serve(server, http.MethodPost, "/api/doc/doc12345/answer", strings.NewReader(`{"query":1}`), "application/json")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_StorageFailureRetried(t *testing.T) {
	calls := 0
	svc := &stubDocuments{
		lookupFn: func(ctx context.Context, id, query string) (lookup.Answer, error) {
			calls++
			if calls == 1 {
				return lookup.Answer{}, apperrors.Wrap("storage_error", "failed to load document", io.ErrUnexpectedEOF)
			}
			return lookup.Answer{Text: "ok", Source: id}, nil
		},
	}
	server := newRouterUnderTest(t, svc, nil, func(cfg *config.Config) {
		cfg.HTTP.Retry = config.RetryConfig{Enabled: true, MaxAttempts: 2, BaseBackoff: time.Millisecond}
	})

	rec := serve(server, http.MethodPost, "/api/doc/doc12345/answer", strings.NewReader(`{"query":"q"}`), "application/json")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 2, calls)
}

func TestRouter_RateLimit(t *testing.T) {
	server := newRouterUnderTest(t, &stubDocuments{}, nil, func(cfg *config.Config) {
		cfg.HTTP.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 1}
	})

	require.Equal(t, http.StatusNotFound, serve(server, http.MethodGet, "/api/doc/missing1", nil, "").Code)
	rec := serve(server, http.MethodGet, "/api/doc/missing1", nil, "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "rate_limit_exceeded", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
	require.NotEmpty(t, rec.Header().Get("Retry-After"))

	require.Equal(t, http.StatusOK, serve(server, http.MethodGet, "/healthz", nil, "").Code)
}

func TestRateLimiterRefill(t *testing.T) {
	limiter := newIPRateLimiter(config.RateLimitConfig{RequestsPerMinute: 60, Burst: 2})
	start := time.Now()

	for i := 0; i < 2; i++ {
		_, ok := limiter.allow("10.0.0.1", start)
		require.True(t, ok)
	}
	wait, ok := limiter.allow("10.0.0.1", start)
	require.False(t, ok)
	require.InDelta(t, time.Second.Seconds(), wait.Seconds(), 0.01)

	_, ok = limiter.allow("10.0.0.2", start)
	require.True(t, ok, "buckets are per address")

	_, ok = limiter.allow("10.0.0.1", start.Add(2*time.Second))
	require.True(t, ok)
}

func TestRouter_CORS(t *testing.T) {
	server := newRouterUnderTest(t, &stubDocuments{}, nil, func(cfg *config.Config) {
		cfg.HTTP.AllowedOrigins = []string{"https://a.example", "https://b.example"}
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/doc/x/answer", nil)
	req.Header.Set("Origin", "https://b.example")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "https://b.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

type part struct {
	name string
	data string
}

func multipartBody(t *testing.T, fields map[string][]part) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for field, parts := range fields {
		for _, p := range parts {
			w, err := writer.CreateFormFile(field, p.name)
			require.NoError(t, err)
			_, err = w.Write([]byte(p.data))
			require.NoError(t, err)
		}
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func serve(server *http.Server, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func newRouterUnderTest(t *testing.T, svc document.Service, authSvc auth.Service, opts ...func(*config.Config)) *http.Server {
	t.Helper()
	if authSvc == nil {
		authSvc = auth.NewService(auth.Config{}, newTestLogger())
	}
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return NewRouter(cfg, NewHandler(svc, newTestLogger()), authSvc)
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type stubDocuments struct {
	uploadFn func(ctx context.Context, req document.UploadRequest) (document.UploadResponse, error)
	getFn    func(ctx context.Context, id string) (document.Document, error)
	assetFn  func(ctx context.Context, id, name string) (io.ReadCloser, document.AssetObject, error)
	lookupFn func(ctx context.Context, id, query string) (lookup.Answer, error)
}

func (s *stubDocuments) Upload(ctx context.Context, req document.UploadRequest) (document.UploadResponse, error) {
	if s.uploadFn != nil {
		return s.uploadFn(ctx, req)
	}
	return document.UploadResponse{}, nil
}

func (s *stubDocuments) Get(ctx context.Context, id string) (document.Document, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return document.Document{}, apperrors.Wrap("not_found", "document not found", nil)
}

func (s *stubDocuments) Asset(ctx context.Context, id, name string) (io.ReadCloser, document.AssetObject, error) {
	if s.assetFn != nil {
		return s.assetFn(ctx, id, name)
	}
	return nil, document.AssetObject{}, apperrors.Wrap("not_found", "asset not found", nil)
}

func (s *stubDocuments) Lookup(ctx context.Context, id, query string) (lookup.Answer, error) {
	if s.lookupFn != nil {
		return s.lookupFn(ctx, id, query)
	}
	return lookup.Answer{}, apperrors.Wrap(lookup.CodeNoMatch, "no question matched the query", lookup.ErrNoMatch)
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}
