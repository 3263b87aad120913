package http

import (
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/msuny-c/fdb-viewer/internal/domain/document"
	"github.com/msuny-c/fdb-viewer/internal/domain/lookup"
	apperrors "github.com/msuny-c/fdb-viewer/pkg/errors"
)

// assetFields are the multipart fields carrying images next to the fdb file.
var assetFields = []string{"assets", "assets[]", "dirs"}

// Handler wires the HTTP transport to domain services.
type Handler struct {
	documentSvc document.Service
	logger      *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(documentSvc document.Service, logger *slog.Logger) *Handler {
	return &Handler{
		documentSvc: documentSvc,
		logger:      logger.With("component", "http.handler"),
	}
}

// AnswerRequest is the body of an answer lookup.
type AnswerRequest struct {
	Query string `json:"query"`
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Upload decodes a multipart fdb submission and redirects to the stored document.
func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("fdb")
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "fdb file is required", err))
		return
	}
	content, err := readPart(fileHeader)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "failed to read upload", err))
		return
	}
	req := document.UploadRequest{Filename: fileHeader.Filename, Content: content}
	if claims, ok := getClaims(c); ok {
		h.logger.Info("authorized upload", "subject", claims.Subject, "filename", fileHeader.Filename)
	}

	if form, err := c.MultipartForm(); err == nil {
		for _, field := range assetFields {
			for _, header := range form.File[field] {
				data, err := readPart(header)
				if err != nil {
					h.logger.Warn("asset part unreadable", "name", header.Filename, "error", err)
					continue
				}
				req.Assets = append(req.Assets, document.Asset{Filename: header.Filename, Content: data})
			}
		}
	}

	resp, err := h.documentSvc.Upload(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err, "upload_failed"))
		return
	}
	c.Redirect(http.StatusSeeOther, "/"+resp.Document.ID)
}

// View returns the presentation payload of one document.
func (h *Handler) View(c *gin.Context) {
	doc, err := h.documentSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, domainError(err, "document_failed"))
		return
	}
	c.JSON(http.StatusOK, document.NewView(doc))
}

// Data returns the grouped questions of one document. A trailing ".json" is accepted.
func (h *Handler) Data(c *gin.Context) {
	id := strings.TrimSuffix(c.Param("id"), ".json")
	doc, err := h.documentSvc.Get(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, domainError(err, "document_failed"))
		return
	}
	c.JSON(http.StatusOK, doc.Groups)
}

// Asset streams one stored image of a document.
func (h *Handler) Asset(c *gin.Context) {
	reader, obj, err := h.documentSvc.Asset(c.Request.Context(), c.Param("id"), c.Param("name"))
	if err != nil {
		abortWithError(c, domainError(err, "asset_failed"))
		return
	}
	defer reader.Close()
	c.Header("Cache-Control", "public, max-age=86400")
	c.DataFromReader(http.StatusOK, -1, obj.ContentType, reader, nil)
}

// Answer looks up the best matching question of a document.
func (h *Handler) Answer(c *gin.Context) {
	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	answer, err := h.documentSvc.Lookup(c.Request.Context(), c.Param("id"), req.Query)
	if err != nil {
		abortWithError(c, domainError(err, "lookup_failed"))
		return
	}
	c.JSON(http.StatusOK, answer)
}

// domainError maps domain error codes onto transport statuses.
func domainError(err error, fallback string) *HTTPError {
	switch {
	case apperrors.IsCode(err, "invalid_input"):
		return NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err)
	case apperrors.IsCode(err, "not_found"):
		return NewHTTPError(http.StatusNotFound, "not_found", errMessage(err), err)
	case apperrors.IsCode(err, lookup.CodeNoMatch):
		return NewHTTPError(http.StatusNotFound, lookup.CodeNoMatch, errMessage(err), err)
	case apperrors.IsCode(err, "storage_error"):
		return NewHTTPError(http.StatusBadGateway, fallback, errMessage(err), err)
	}
	return NewHTTPError(http.StatusInternalServerError, fallback, errMessage(err), err)
}

func readPart(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
