package ticket

import (
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signAndParse(t *testing.T, userUUID, secret string, ttl time.Duration) url.Values {
	t.Helper()

	signed := Sign(userUUID, secret, ttl)
	require.True(t, strings.HasPrefix(signed, "/ws?"))

	parsed, err := url.Parse(signed)
	require.NoError(t, err)
	return parsed.Query()
}

func TestSignVerifyRoundtrip(t *testing.T) {
	query := signAndParse(t, "user-1", "secret", time.Minute)

	assert.Equal(t, "user-1", query.Get("uuid"))
	assert.True(t, Verify(query.Get("uuid"), query.Get("expires"), query.Get("sig"), "secret"))
}

func TestVerifyExpired(t *testing.T) {
	query := signAndParse(t, "user-1", "secret", -time.Minute)

	assert.False(t, Verify(query.Get("uuid"), query.Get("expires"), query.Get("sig"), "secret"))
}

func TestVerifyWrongSecret(t *testing.T) {
	query := signAndParse(t, "user-1", "secret", time.Minute)

	assert.False(t, Verify(query.Get("uuid"), query.Get("expires"), query.Get("sig"), "other"))
}

func TestVerifyTamperedUser(t *testing.T) {
	query := signAndParse(t, "user-1", "secret", time.Minute)

	assert.False(t, Verify("user-2", query.Get("expires"), query.Get("sig"), "secret"))
}

func TestVerifyTamperedExpiry(t *testing.T) {
	query := signAndParse(t, "user-1", "secret", time.Minute)
	later := strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10)

	assert.False(t, Verify(query.Get("uuid"), later, query.Get("sig"), "secret"))
}

func TestVerifyMalformedExpiry(t *testing.T) {
	query := signAndParse(t, "user-1", "secret", time.Minute)

	assert.False(t, Verify(query.Get("uuid"), "soon", query.Get("sig"), "secret"))
}
