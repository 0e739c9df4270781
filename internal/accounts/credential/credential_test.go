package credential

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegacyHMACIsDeterministic(t *testing.T) {
	scheme := NewLegacyHMAC("")

	first, err := scheme.Hash("senha-secreta")
	require.NoError(t, err)
	second, err := scheme.Hash("senha-secreta")
	require.NoError(t, err)

	assert.Equal(t, first, second, "legacy scheme must reproduce the stored hash exactly")
	assert.Len(t, first, 64, "hex-encoded SHA-256 output")
}

func TestLegacyHMACKnownVector(t *testing.T) {
	// HMAC-SHA256("password123", "sos-hasbik-2024"), hex. Pinned so a key
	// or encoding change breaks loudly instead of locking everyone out.
	const want = "c00041036d8a32ffb11e603a948df28de05a9dd64bd5264a28bc6b28914b0df1"

	got, err := NewLegacyHMAC("").Hash("password123")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLegacyHMACVerify(t *testing.T) {
	scheme := NewLegacyHMAC("")
	hash, err := scheme.Hash("correct horse")
	require.NoError(t, err)

	assert.NoError(t, scheme.Verify("correct horse", hash))
	assert.ErrorIs(t, scheme.Verify("wrong horse", hash), ErrMismatch)
}

func TestBcryptRoundTrip(t *testing.T) {
	scheme := NewBcrypt(4) // minimum cost keeps the test fast

	hash, err := scheme.Hash("senha-secreta")
	require.NoError(t, err)

	other, err := scheme.Hash("senha-secreta")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "bcrypt salts every hash")

	assert.NoError(t, scheme.Verify("senha-secreta", hash))
	assert.ErrorIs(t, scheme.Verify("senha-errada", hash), ErrMismatch)
}

func TestFromConfig(t *testing.T) {
	legacy, err := FromConfig("legacy-hmac", "")
	require.NoError(t, err)
	assert.IsType(t, &LegacyHMAC{}, legacy)

	def, err := FromConfig("", "")
	require.NoError(t, err)
	assert.IsType(t, &LegacyHMAC{}, def)

	bc, err := FromConfig("bcrypt", "")
	require.NoError(t, err)
	assert.IsType(t, &Bcrypt{}, bc)

	_, err = FromConfig("argon2", "")
	assert.Error(t, err)
}
