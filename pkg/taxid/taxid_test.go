package taxid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidCPF(t *testing.T) {
	t.Run("accepts known valid identifiers", func(t *testing.T) {
		assert.True(t, IsValidCPF("52998224725"))
		assert.True(t, IsValidCPF("11144477735"))
	})

	t.Run("accepts formatted input", func(t *testing.T) {
		assert.True(t, IsValidCPF("529.982.247-25"))
	})

	t.Run("rejects altered check digits", func(t *testing.T) {
		// Last digit changed.
		assert.False(t, IsValidCPF("52998224726"))
		// First check digit changed.
		assert.False(t, IsValidCPF("52998224735"))
	})

	t.Run("rejects wrong length", func(t *testing.T) {
		assert.False(t, IsValidCPF(""))
		assert.False(t, IsValidCPF("5299822472"))
		assert.False(t, IsValidCPF("529982247250"))
	})

	t.Run("rejects all-identical digits even with valid checksum shape", func(t *testing.T) {
		for _, s := range []string{
			"00000000000", "11111111111", "22222222222", "33333333333",
			"44444444444", "55555555555", "66666666666", "77777777777",
			"88888888888", "99999999999",
		} {
			assert.False(t, IsValidCPF(s), "cpf %s", s)
		}
	})

	t.Run("rejects non-numeric input", func(t *testing.T) {
		assert.False(t, IsValidCPF("abcdefghijk"))
	})
}

func TestIsValidCNPJ(t *testing.T) {
	t.Run("accepts known valid identifiers", func(t *testing.T) {
		assert.True(t, IsValidCNPJ("11222333000181"))
	})

	t.Run("accepts formatted input", func(t *testing.T) {
		assert.True(t, IsValidCNPJ("11.222.333/0001-81"))
	})

	t.Run("rejects altered check digits", func(t *testing.T) {
		assert.False(t, IsValidCNPJ("11222333000182"))
		assert.False(t, IsValidCNPJ("11222333000191"))
	})

	t.Run("rejects wrong length", func(t *testing.T) {
		assert.False(t, IsValidCNPJ(""))
		assert.False(t, IsValidCNPJ("1122233300018"))
		assert.False(t, IsValidCNPJ("112223330001810"))
	})

	t.Run("rejects all-identical digits", func(t *testing.T) {
		assert.False(t, IsValidCNPJ("00000000000000"))
		assert.False(t, IsValidCNPJ("11111111111111"))
	})
}

func TestStripNonDigits(t *testing.T) {
	assert.Equal(t, "52998224725", StripNonDigits("529.982.247-25"))
	assert.Equal(t, "", StripNonDigits("abc"))
	assert.Equal(t, "11222333000181", StripNonDigits("11.222.333/0001-81"))
}
