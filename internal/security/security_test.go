package security

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csemotors/web/internal/models"
)

var fastParams = Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func TestPasswordHashRoundTrip(t *testing.T) {
	h := NewPasswordHasher(fastParams)

	hash, err := h.Hash("Str0ng!Passw0rd")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(hash), "$argon2id$v=19$t=1,m=8192,p=1$"))
	assert.NotContains(t, string(hash), "Str0ng!Passw0rd")

	ok, err := h.Verify("Str0ng!Passw0rd", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("wrong-password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordVerifyUsesStoredParams(t *testing.T) {
	hash, err := NewPasswordHasher(fastParams).Hash("secret")
	require.NoError(t, err)

	ok, err := NewPasswordHasher(DefaultArgon2Params).Verify("secret", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPasswordVerifyMalformed(t *testing.T) {
	h := NewPasswordHasher(fastParams)
	for _, bad := range []string{"", "plaintext", "$bcrypt$x$y$z$w", "$argon2id$v=19$garbage$a$b"} {
		_, err := h.Verify("x", []byte(bad))
		assert.ErrorIs(t, err, ErrMalformedHash, bad)
	}
}

func TestIdentityTokenRoundTrip(t *testing.T) {
	account := models.Account{
		ID:           7,
		FirstName:    "Jane",
		LastName:     "Doe",
		Email:        "jane@x.com",
		PasswordHash: []byte("$argon2id$secret"),
		Type:         models.AccountTypeEmployee,
	}

	token, issued, err := GenerateIdentityToken("k", account, time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)

	claims, err := ParseIdentityToken(token, "k")
	require.NoError(t, err)
	assert.Equal(t, 7, claims.AccountID)
	assert.Equal(t, models.AccountTypeEmployee, claims.Type)
	assert.Equal(t, "Jane Doe", claims.FullName())
	assert.InDelta(t, time.Hour.Seconds(), claims.Remaining().Seconds(), 5)
}

func TestIdentityTokenPayloadHasNoPassword(t *testing.T) {
	account := models.Account{ID: 1, Email: "a@b.c", PasswordHash: []byte("hash"), Type: models.AccountTypeClient}
	token, _, err := GenerateIdentityToken("k", account, time.Hour)
	require.NoError(t, err)

	segments := strings.Split(token, ".")
	require.Len(t, segments, 3)
	raw, err := base64.RawURLEncoding.DecodeString(segments[1])
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, "Client", payload["account_type"])
	for key := range payload {
		assert.NotContains(t, strings.ToLower(key), "password")
	}
}

func TestParseIdentityTokenRejects(t *testing.T) {
	account := models.Account{ID: 1, Type: models.AccountTypeClient}

	expired, _, err := GenerateIdentityToken("k", account, -time.Minute)
	require.NoError(t, err)
	_, err = ParseIdentityToken(expired, "k")
	assert.ErrorIs(t, err, ErrInvalidToken)

	valid, _, err := GenerateIdentityToken("k", account, time.Hour)
	require.NoError(t, err)
	_, err = ParseIdentityToken(valid, "other-key")
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, IdentityClaims{AccountID: 1})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseIdentityToken(unsigned, "k")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCSRFToken(t *testing.T) {
	token := CSRFToken("secret", "session-1")
	assert.True(t, ValidCSRFToken("secret", "session-1", token))
	assert.False(t, ValidCSRFToken("secret", "session-2", token))
	assert.False(t, ValidCSRFToken("other", "session-1", token))
	assert.False(t, ValidCSRFToken("secret", "", token))
	assert.False(t, ValidCSRFToken("secret", "session-1", ""))
}
