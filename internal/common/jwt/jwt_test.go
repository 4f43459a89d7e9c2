// Package jwt 令牌解析单元测试
package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-token-signing"

// signToken 按后端格式签发测试令牌
func signToken(t *testing.T, secret string, userID, tenantID int64, expireAt time.Time) string {
	claims := &Claims{
		UserID:   userID,
		Username: "admin",
		TenantID: tenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expireAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

// ==================== Parse 测试 ====================

func TestParse_Verified(t *testing.T) {
	inspector := NewInspector(&Config{Secret: testSecret})
	token := signToken(t, testSecret, 7, 3, time.Now().Add(time.Hour))

	claims, err := inspector.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, int64(3), claims.TenantID)
	assert.Equal(t, "admin", claims.Username)
	assert.True(t, inspector.Verifies())
}

func TestParse_WrongSecret(t *testing.T) {
	inspector := NewInspector(&Config{Secret: testSecret})
	token := signToken(t, "other-secret", 7, 3, time.Now().Add(time.Hour))

	_, err := inspector.Parse(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParse_Expired(t *testing.T) {
	token := signToken(t, testSecret, 7, 3, time.Now().Add(-time.Minute))

	_, err := NewInspector(&Config{Secret: testSecret}).Parse(token)
	assert.ErrorIs(t, err, ErrTokenExpired)

	_, err = NewInspector(&Config{}).Parse(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParse_Unverified(t *testing.T) {
	inspector := NewInspector(&Config{})
	token := signToken(t, "backend-only-secret", 9, 4, time.Now().Add(time.Hour))

	claims, err := inspector.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(9), claims.UserID)
	assert.False(t, inspector.Verifies())
}

func TestParse_Malformed(t *testing.T) {
	for _, secret := range []string{"", testSecret} {
		_, err := NewInspector(&Config{Secret: secret}).Parse("not.a.jwt")
		assert.ErrorIs(t, err, ErrTokenMalformed)
	}
}

// ==================== Inspect 测试 ====================

func TestInspect(t *testing.T) {
	inspector := NewInspector(&Config{})

	tenantID, userID, ok := inspector.Inspect(signToken(t, testSecret, 7, 3, time.Now().Add(time.Hour)))
	assert.True(t, ok)
	assert.Equal(t, "3", tenantID)
	assert.Equal(t, "7", userID)

	tenantID, userID, ok = inspector.Inspect(signToken(t, testSecret, 7, 0, time.Now().Add(time.Hour)))
	assert.True(t, ok)
	assert.Empty(t, tenantID)
	assert.Equal(t, "7", userID)

	_, _, ok = inspector.Inspect("garbage")
	assert.False(t, ok)
}

// ==================== TTL 测试 ====================

func TestClaims_TTL(t *testing.T) {
	now := time.Now()
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(2 * time.Hour))}}
	assert.InDelta(t, float64(2*time.Hour), float64(claims.TTL(now)), float64(time.Second))

	claims.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Hour))
	assert.Equal(t, time.Duration(0), claims.TTL(now))

	assert.Equal(t, time.Duration(0), (&Claims{}).TTL(now))
}
