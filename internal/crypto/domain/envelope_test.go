package domain

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/credvault/credvault/internal/errors"
)

func TestParseEnvelope(t *testing.T) {
	iv := make([]byte, IVSize)
	ciphertext := []byte("ciphertext-with-tag")
	wire := base64.StdEncoding.EncodeToString(iv) + ":" + base64.StdEncoding.EncodeToString(ciphertext)

	t.Run("valid envelope round-trips", func(t *testing.T) {
		env, err := ParseEnvelope(wire)
		require.NoError(t, err)
		assert.Equal(t, iv, env.IV)
		assert.Equal(t, ciphertext, env.Ciphertext)
		assert.Equal(t, wire, env.String())
	})

	t.Run("missing separator", func(t *testing.T) {
		_, err := ParseEnvelope(base64.StdEncoding.EncodeToString(ciphertext))
		assert.ErrorIs(t, err, ErrMalformedEnvelope)
	})

	t.Run("too many separators", func(t *testing.T) {
		_, err := ParseEnvelope(wire + ":extra")
		assert.ErrorIs(t, err, ErrMalformedEnvelope)
	})

	t.Run("empty parts", func(t *testing.T) {
		_, err := ParseEnvelope(":" + base64.StdEncoding.EncodeToString(ciphertext))
		assert.ErrorIs(t, err, ErrMalformedEnvelope)

		_, err = ParseEnvelope(base64.StdEncoding.EncodeToString(iv) + ":")
		assert.ErrorIs(t, err, ErrMalformedEnvelope)
	})

	t.Run("invalid base64", func(t *testing.T) {
		_, err := ParseEnvelope("not-base64!!!:also-not-base64!!!")
		assert.ErrorIs(t, err, ErrMalformedEnvelope)
	})

	t.Run("wrong iv length", func(t *testing.T) {
		shortIV := base64.StdEncoding.EncodeToString(make([]byte, 8))
		_, err := ParseEnvelope(shortIV + ":" + base64.StdEncoding.EncodeToString(ciphertext))
		assert.ErrorIs(t, err, ErrMalformedEnvelope)
	})

	t.Run("malformed envelope maps to invalid input", func(t *testing.T) {
		_, err := ParseEnvelope("garbage")
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})
}

func TestEnvelope_IsZero(t *testing.T) {
	assert.True(t, Envelope{}.IsZero())

	env, err := ParseEnvelope(
		base64.StdEncoding.EncodeToString(make([]byte, IVSize)) + ":" +
			base64.StdEncoding.EncodeToString([]byte("x")),
	)
	require.NoError(t, err)
	assert.False(t, env.IsZero())
}

func TestEnvelope_StringFormat(t *testing.T) {
	env := Envelope{IV: make([]byte, IVSize), Ciphertext: []byte("payload")}
	assert.Equal(t, 1, strings.Count(env.String(), ":"))
}
