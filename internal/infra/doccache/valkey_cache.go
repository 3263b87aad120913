package doccache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/msuny-c/fdb-viewer/internal/domain/document"
)

// ValkeyCache keeps decoded documents in a Valkey-compatible database.
type ValkeyCache struct {
	client valkey.Client
	prefix string
}

// NewValkeyCache constructs a new cache backed by Valkey.
func NewValkeyCache(client valkey.Client, prefix string) *ValkeyCache {
	if prefix == "" {
		prefix = "fdb"
	}
	return &ValkeyCache{client: client, prefix: prefix}
}

// Get implements document.Cache.
func (c *ValkeyCache) Get(ctx context.Context, id string) (document.Document, bool, error) {
	if id == "" {
		return document.Document{}, false, nil
	}
	cmd := c.client.B().Get().Key(c.docKey(id)).Build()
	payload, err := c.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return document.Document{}, false, nil
		}
		return document.Document{}, false, err
	}
	var doc document.Document
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return document.Document{}, false, err
	}
	return doc, true, nil
}

// Set implements document.Cache.
func (c *ValkeyCache) Set(ctx context.Context, doc document.Document, ttl time.Duration) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	builder := c.client.B().Set().Key(c.docKey(doc.ID)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return c.client.Do(ctx, cmd).Error()
}

func (c *ValkeyCache) docKey(id string) string {
	return c.prefix + ":doc:" + id
}

var _ document.Cache = (*ValkeyCache)(nil)
