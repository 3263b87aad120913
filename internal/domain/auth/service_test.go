package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	apperrors "github.com/msuny-c/fdb-viewer/pkg/errors"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestService_IssueAndValidate(t *testing.T) {
	svc := NewService(Config{Secret: "test-secret", TokenTTL: time.Hour}, newTestLogger())

	resp, err := svc.Issue(context.Background(), IssueRequest{Subject: " uploader "})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.WithinDuration(t, time.Now().Add(time.Hour), resp.ExpiresAt, time.Minute)

	claims, err := svc.ValidateToken(context.Background(), resp.Token)
	require.NoError(t, err)
	require.Equal(t, "uploader", claims.Subject)
	require.Equal(t, ScopeUpload, claims.Scope)
}

func TestService_IssueValidation(t *testing.T) {
	svc := NewService(Config{}, newTestLogger())
	_, err := svc.Issue(context.Background(), IssueRequest{Subject: "x"})
	require.True(t, apperrors.IsCode(err, "auth_disabled"))

	svc = NewService(Config{Secret: "s", TokenTTL: time.Hour}, newTestLogger())
	_, err = svc.Issue(context.Background(), IssueRequest{Subject: "  "})
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestService_RejectsBadTokens(t *testing.T) {
	svc := NewService(Config{Secret: "test-secret", TokenTTL: time.Hour}, newTestLogger())
	other := NewService(Config{Secret: "other-secret", TokenTTL: time.Hour}, newTestLogger())

	foreign, err := other.Issue(context.Background(), IssueRequest{Subject: "x"})
	require.NoError(t, err)

	expired := &service{cfg: Config{Secret: "test-secret"}, logger: newTestLogger(), now: func() time.Time {
		return time.Now().Add(-2 * time.Hour)
	}}
	stale, err := expired.Issue(context.Background(), IssueRequest{Subject: "x", TTL: time.Hour})
	require.NoError(t, err)

	wrongScope, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Scope: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{Scope: ScopeUpload}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"empty":          "",
		"garbage":        "not-a-jwt",
		"foreign secret": foreign.Token,
		"expired":        stale.Token,
		"wrong scope":    wrongScope,
		"no expiry":      noExpiry,
	} {
		_, err := svc.ValidateToken(context.Background(), token)
		require.True(t, apperrors.IsCode(err, "invalid_token"), name)
	}
}
