package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() JWTConfig {
	return JWTConfig{SecretKey: "secret", Issuer: "orgchart-backend", Audience: EditorAudience, TTL: time.Hour}
}

func TestJWT_RoundTrip(t *testing.T) {
	gen, err := NewJWTGenerator(testConfig())
	require.NoError(t, err)
	val, err := NewJWTValidator(testConfig())
	require.NoError(t, err)

	token, err := gen.GenerateToken("orgchart_data")
	require.NoError(t, err)

	claims, err := val.ValidateToken("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "orgchart_data", claims.ChartKey)
	assert.NotEmpty(t, claims.Subject)
}

func TestJWT_Rejections(t *testing.T) {
	gen, err := NewJWTGenerator(testConfig())
	require.NoError(t, err)
	val, err := NewJWTValidator(testConfig())
	require.NoError(t, err)

	_, err = val.ValidateToken("")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = val.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	gen.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := gen.GenerateToken("orgchart_data")
	require.NoError(t, err)
	_, err = val.ValidateToken(expired)
	assert.ErrorIs(t, err, ErrExpiredToken)

	other := testConfig()
	other.SecretKey = "other"
	otherGen, err := NewJWTGenerator(other)
	require.NoError(t, err)
	forged, err := otherGen.GenerateToken("orgchart_data")
	require.NoError(t, err)
	_, err = val.ValidateToken(forged)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	wrongAud := testConfig()
	wrongAud.Audience = "someone-else"
	audGen, err := NewJWTGenerator(wrongAud)
	require.NoError(t, err)
	tok, err := audGen.GenerateToken("orgchart_data")
	require.NoError(t, err)
	_, err = val.ValidateToken(tok)
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestJWT_RejectsMissingSubject(t *testing.T) {
	val, err := NewJWTValidator(testConfig())
	require.NoError(t, err)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    "orgchart-backend",
		Audience:  jwt.ClaimStrings{EditorAudience},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = val.ValidateToken(signed)

	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestJWT_ConfigErrors(t *testing.T) {
	_, err := NewJWTValidator(JWTConfig{})
	assert.Error(t, err)
	_, err = NewJWTGenerator(JWTConfig{SecretKey: "x"})
	assert.Error(t, err)
}

func TestSlidingWindowLimiter(t *testing.T) {
	ctx := context.Background()
	l := NewSlidingWindowLimiter(2, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	ok, _ := l.Allow(ctx, "k")
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, "k")
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, "k")
	assert.False(t, ok)

	ok, _ = l.Allow(ctx, "other")
	assert.True(t, ok, "keys are independent")

	now = now.Add(61 * time.Second)
	ok, _ = l.Allow(ctx, "k")
	assert.True(t, ok, "window slides")

	require.NoError(t, l.Reset(ctx, "k"))
}

func TestIPRateLimiter_ZeroDisables(t *testing.T) {
	l := NewIPRateLimiter(0)
	for i := 0; i < 5; i++ {
		ok, err := l.Allow(context.Background(), "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok)
	}
}
