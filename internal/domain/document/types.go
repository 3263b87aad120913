package document

import (
	"time"

	"github.com/msuny-c/fdb-viewer/internal/domain/fdb"
)

// Document is a decoded FDB upload.
type Document struct {
	ID        string      `json:"id"`
	Title     *string     `json:"title"`
	Groups    fdb.Grouped `json:"groups"`
	GroupText string      `json:"groupText,omitempty"`
	Stats     Stats       `json:"stats"`
	// Assets lists the stored image names, servable under AssetBase.
	Assets    []string  `json:"assets"`
	CreatedAt time.Time `json:"createdAt"`
}

// Stats summarizes one decode pass.
type Stats struct {
	Questions  int `json:"questions"`
	Duplicates int `json:"duplicates"`
	FailedTags int `json:"failedTags"`
}

// DisplayTitle falls back to a generic label when the upload had no name.
func (d Document) DisplayTitle() string {
	if d.Title != nil && *d.Title != "" {
		return *d.Title
	}
	return "Документ " + d.ID
}

// AssetBase is the public path prefix of the document's images.
func (d Document) AssetBase() string {
	return "/s/" + d.ID + "/assets/"
}

// View is the rendering payload for a document page.
type View struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	AssetBase string      `json:"assetBase"`
	Data      fdb.Grouped `json:"data"`
	Stats     Stats       `json:"stats"`
	Assets    []string    `json:"assets"`
	CreatedAt time.Time   `json:"createdAt"`
}

// NewView prepares d for presentation.
func NewView(d Document) View {
	return View{
		ID:        d.ID,
		Title:     d.DisplayTitle(),
		AssetBase: d.AssetBase(),
		Data:      d.Groups,
		Stats:     d.Stats,
		Assets:    d.Assets,
		CreatedAt: d.CreatedAt,
	}
}

// Asset is an uploaded file accompanying an FDB source.
type Asset struct {
	Filename string
	Content  []byte
}

// UploadRequest captures a multipart submission.
type UploadRequest struct {
	Filename string
	Content  []byte
	Assets   []Asset
}

// UploadResponse returns the stored document.
type UploadResponse struct {
	Document Document `json:"document"`
}

// AssetObject is a readable stored image.
type AssetObject struct {
	Name        string
	ContentType string
}
