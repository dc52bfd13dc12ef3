package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_GenerateAndValidate(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	token, err := svc.GenerateToken("admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, "latency-dashboard", claims.Issuer)
}

func TestService_ValidateToken_Errors(t *testing.T) {
	svc := NewService("test-secret", time.Hour)
	good, err := svc.GenerateToken("admin")
	require.NoError(t, err)

	otherSecret, err := NewService("other", time.Hour).GenerateToken("admin")
	require.NoError(t, err)

	otherIssuer, err := NewService("test-secret", time.Hour).WithIssuer("someone-else").GenerateToken("admin")
	require.NoError(t, err)

	expired, err := NewService("test-secret", -time.Hour).GenerateToken("admin")
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Username: "admin"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		err   error
	}{
		{"garbage", "invalid-token", ErrInvalidToken},
		{"wrong secret", otherSecret, ErrInvalidToken},
		{"wrong issuer", otherIssuer, ErrInvalidToken},
		{"alg none", none, ErrInvalidToken},
		{"expired", expired, ErrExpiredToken},
		{"tampered", good + "x", ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(tt.token)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("mypassword123")
	require.NoError(t, err)

	assert.True(t, CheckPassword("mypassword123", hash))
	assert.False(t, CheckPassword("wrongpassword", hash))
	assert.False(t, CheckPassword("mypassword123", "not-a-hash"))
}

func TestOperator_Authenticate(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	op := Operator{Username: "admin", PasswordHash: hash}

	assert.NoError(t, op.Authenticate("admin", "s3cret"))
	assert.ErrorIs(t, op.Authenticate("admin", "nope"), ErrInvalidCredentials)
	assert.ErrorIs(t, op.Authenticate("root", "s3cret"), ErrInvalidCredentials)
}
