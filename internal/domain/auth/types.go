package auth

import "time"

// ScopeUpload allows posting new documents.
const ScopeUpload = "upload"

// Config drives token issuing.
type Config struct {
	Secret   string
	TokenTTL time.Duration
}

// Enabled reports whether uploads require a token.
func (c Config) Enabled() bool {
	return c.Secret != ""
}

// Claims are extracted from the JWT token.
type Claims struct {
	Subject   string
	Scope     string
	ExpiresAt time.Time
}

// IssueRequest describes a token to mint.
type IssueRequest struct {
	Subject string        `json:"subject"`
	TTL     time.Duration `json:"ttl"`
}

// IssueResponse returns the signed token.
type IssueResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
