// Package document stores decoded FDB uploads together with their images and
// answers queries against a stored document.
package document

import (
	"context"
	"crypto/rand"
	"errors"
	"io"
	"log/slog"
	"math/big"
	"mime"
	"net/http"
	"path"
	"slices"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/msuny-c/fdb-viewer/internal/domain/fdb"
	"github.com/msuny-c/fdb-viewer/internal/domain/lookup"
	apperrors "github.com/msuny-c/fdb-viewer/pkg/errors"
)

const (
	idLength       = 8
	idAlphabet     = "abcdefghijklmnopqrstuvwxyz0123456789"
	maxIDAttempts  = 5
	maxTitleLength = 200
)

// Service exposes document upload, retrieval and answer lookup.
type Service interface {
	Upload(ctx context.Context, req UploadRequest) (UploadResponse, error)
	Get(ctx context.Context, id string) (Document, error)
	Asset(ctx context.Context, id, name string) (io.ReadCloser, AssetObject, error)
	Lookup(ctx context.Context, id, query string) (lookup.Answer, error)
}

type service struct {
	cfg      Config
	repo     Repository
	cache    Cache
	storage  ObjectStorage
	matchers *lru.Cache
	allowed  map[string]struct{}
	base     *slog.Logger
	logger   *slog.Logger
	now      func() time.Time
}

// NewService wires up the document domain.
func NewService(cfg Config, repo Repository, cache Cache, storage ObjectStorage, logger *slog.Logger) (Service, error) {
	size := cfg.LookupCacheSize
	if size <= 0 {
		size = 64
	}
	matchers, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	exts := cfg.AssetExtensions
	if len(exts) == 0 {
		exts = DefaultAssetExtensions
	}
	allowed := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		allowed[strings.ToLower(ext)] = struct{}{}
	}
	return &service{
		cfg:      cfg,
		repo:     repo,
		cache:    cache,
		storage:  storage,
		matchers: matchers,
		allowed:  allowed,
		base:     logger,
		logger:   logger.With("component", "document.service"),
		now:      time.Now,
	}, nil
}

func (s *service) Upload(ctx context.Context, req UploadRequest) (UploadResponse, error) {
	if len(req.Content) == 0 {
		return UploadResponse{}, apperrors.Wrap("invalid_input", "fdb file cannot be empty", nil)
	}
	if s.cfg.MaxFileBytes > 0 && int64(len(req.Content)) > s.cfg.MaxFileBytes {
		return UploadResponse{}, apperrors.Wrap("invalid_input", "fdb file exceeds maximum allowed size", nil)
	}

	result := fdb.Decode(req.Content)
	if result.Corpus.Duplicates > 0 {
		s.logger.Warn("duplicate question ids overwritten", "filename", req.Filename, "duplicates", result.Corpus.Duplicates)
	}
	if result.FailedTags > 0 {
		s.logger.Warn("malformed tag payloads decoded as empty", "filename", req.Filename, "failed", result.FailedTags)
	}

	assets := s.planAssets(req.Assets)
	doc := Document{
		Title:     uploadTitle(req.Filename),
		Groups:    fdb.GroupQuestions(result.Corpus),
		GroupText: result.GroupText,
		Stats: Stats{
			Questions:  result.Corpus.Len(),
			Duplicates: result.Corpus.Duplicates,
			FailedTags: result.FailedTags,
		},
		Assets:    make([]string, 0, len(assets)),
		CreatedAt: s.now().UTC(),
	}
	for _, a := range assets {
		doc.Assets = append(doc.Assets, a.Filename)
	}

	if err := s.create(ctx, &doc); err != nil {
		return UploadResponse{}, err
	}

	if _, err := s.storage.Put(ctx, sourceKey(doc.ID), req.Content, "application/octet-stream"); err != nil {
		return UploadResponse{}, apperrors.Wrap("storage_error", "failed to store fdb source", err)
	}
	for _, a := range assets {
		if _, err := s.storage.Put(ctx, assetKey(doc.ID, a.Filename), a.Content, contentType(a.Filename, a.Content)); err != nil {
			return UploadResponse{}, apperrors.Wrap("storage_error", "failed to store asset", err)
		}
	}

	if err := s.cache.Set(ctx, doc, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("document cache warm failed", "id", doc.ID, "error", err)
	}
	s.logger.Info("document uploaded", "id", doc.ID, "questions", doc.Stats.Questions, "assets", len(doc.Assets))
	return UploadResponse{Document: doc}, nil
}

// create assigns a fresh id to doc and persists it, retrying on collisions.
func (s *service) create(ctx context.Context, doc *Document) error {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := newID()
		if err != nil {
			return apperrors.Wrap("internal_error", "failed to generate document id", err)
		}
		doc.ID = id
		err = s.repo.Create(ctx, *doc)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrDuplicateID) {
			return apperrors.Wrap("storage_error", "failed to persist document", err)
		}
		s.logger.Debug("document id collision", "id", id)
	}
	return apperrors.Wrap("storage_error", "failed to allocate a document id", ErrDuplicateID)
}

func (s *service) Get(ctx context.Context, id string) (Document, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Document{}, apperrors.Wrap("not_found", "document not found", nil)
	}
	if doc, ok, err := s.cache.Get(ctx, id); err != nil {
		s.logger.Warn("document cache read failed", "id", id, "error", err)
	} else if ok {
		return doc, nil
	}

	doc, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return Document{}, apperrors.Wrap("storage_error", "failed to load document", err)
	}
	if !ok {
		return Document{}, apperrors.Wrap("not_found", "document not found", nil)
	}
	if err := s.cache.Set(ctx, doc, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("document cache write failed", "id", id, "error", err)
	}
	return doc, nil
}

func (s *service) Asset(ctx context.Context, id, name string) (io.ReadCloser, AssetObject, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, AssetObject{}, err
	}
	if !slices.Contains(doc.Assets, name) {
		return nil, AssetObject{}, apperrors.Wrap("not_found", "asset not found", nil)
	}
	reader, err := s.storage.Get(ctx, assetKey(doc.ID, name))
	if err != nil {
		return nil, AssetObject{}, apperrors.Wrap("storage_error", "failed to read asset", err)
	}
	return reader, AssetObject{Name: name, ContentType: contentType(name, nil)}, nil
}

func (s *service) Lookup(ctx context.Context, id, query string) (lookup.Answer, error) {
	if strings.TrimSpace(query) == "" {
		return lookup.Answer{}, apperrors.Wrap("invalid_input", "query cannot be empty", nil)
	}
	doc, err := s.Get(ctx, id)
	if err != nil {
		return lookup.Answer{}, err
	}
	return s.matcher(doc).Answer(ctx, query)
}

// matcher returns the lookup service of doc, building it on first use.
func (s *service) matcher(doc Document) lookup.Service {
	if cached, ok := s.matchers.Get(doc.ID); ok {
		return cached.(lookup.Service)
	}
	corpus := lookup.FromQuestions(doc.ID, doc.Groups.Questions())
	svc := lookup.NewService(s.cfg.Lookup, corpus, nil, nil, s.base.With("document", doc.ID))
	s.matchers.Add(doc.ID, svc)
	return svc
}

// planAssets keeps allowed images, flattened to their base names. Name clashes
// get -1, -2, ... inserted before the extension.
func (s *service) planAssets(files []Asset) []Asset {
	used := make(map[string]struct{}, len(files))
	out := make([]Asset, 0, len(files))
	for _, f := range files {
		base := baseName(f.Filename)
		if base == "" {
			continue
		}
		ext := strings.ToLower(path.Ext(base))
		if _, ok := s.allowed[ext]; !ok {
			continue
		}
		if s.cfg.MaxAssetBytes > 0 && int64(len(f.Content)) > s.cfg.MaxAssetBytes {
			s.logger.Warn("asset skipped, too large", "name", base, "bytes", len(f.Content))
			continue
		}
		name := uniqueName(base, used)
		used[name] = struct{}{}
		out = append(out, Asset{Filename: name, Content: f.Content})
	}
	return out
}

func uniqueName(base string, used map[string]struct{}) string {
	if _, taken := used[base]; !taken {
		return base
	}
	ext := path.Ext(base)
	root := strings.TrimSuffix(base, ext)
	for i := 1; ; i++ {
		candidate := root + "-" + strconv.Itoa(i) + ext
		if _, taken := used[candidate]; !taken {
			return candidate
		}
	}
}

// baseName strips any directory part, whichever separator the client used.
func baseName(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if name == "." || name == ".." {
		return ""
	}
	return name
}

func uploadTitle(filename string) *string {
	title := strings.TrimSpace(filename)
	if title == "" {
		return nil
	}
	if runes := []rune(title); len(runes) > maxTitleLength {
		title = string(runes[:maxTitleLength])
	}
	return &title
}

func newID() (string, error) {
	var b strings.Builder
	b.Grow(idLength)
	limit := big.NewInt(int64(len(idAlphabet)))
	for i := 0; i < idLength; i++ {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b.WriteByte(idAlphabet[n.Int64()])
	}
	return b.String(), nil
}

func sourceKey(id string) string {
	return "documents/" + id + "/source.fdb"
}

func assetKey(id, name string) string {
	return "documents/" + id + "/assets/" + name
}

func contentType(name string, data []byte) string {
	if ct := mime.TypeByExtension(strings.ToLower(path.Ext(name))); ct != "" {
		return ct
	}
	if len(data) > 0 {
		return http.DetectContentType(data)
	}
	return "application/octet-stream"
}
