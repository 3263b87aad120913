package document

import (
	"time"

	"github.com/msuny-c/fdb-viewer/internal/domain/lookup"
)

// DefaultAssetExtensions are the image types kept from an upload.
var DefaultAssetExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".svg"}

// Config drives upload limits and caching.
type Config struct {
	MaxFileBytes    int64
	MaxAssetBytes   int64
	AssetExtensions []string
	CacheTTL        time.Duration
	// LookupCacheSize bounds how many per-document matchers stay warm.
	LookupCacheSize int
	Lookup          lookup.Config
}
