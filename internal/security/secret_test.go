package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passphrase = "correct horse battery"

func TestSealOpenRoundTrip(t *testing.T) {
	sealed, err := SealSecret("AIza-test-key", passphrase)
	require.NoError(t, err)

	assert.True(t, IsSealed(sealed))
	assert.NotContains(t, sealed, "AIza")

	plain, err := OpenSecret(sealed, passphrase)
	require.NoError(t, err)
	assert.Equal(t, "AIza-test-key", plain)

	again, err := SealSecret("AIza-test-key", passphrase)
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "salt and nonce are random")
}

func TestOpenSecret(t *testing.T) {
	sealed, err := SealSecret("AIza-test-key", passphrase)
	require.NoError(t, err)

	// flip one character inside the payload
	payload := []byte(strings.TrimPrefix(sealed, SealedPrefix))
	if payload[20] == 'A' {
		payload[20] = 'B'
	} else {
		payload[20] = 'A'
	}
	tampered := SealedPrefix + string(payload)

	tests := []struct {
		name       string
		value      string
		passphrase string
		want       string
		wantErr    error
	}{
		{name: "plain value passes through", value: "AIza-plain", want: "AIza-plain"},
		{name: "empty value", value: "", want: ""},
		{name: "missing passphrase", value: sealed, wantErr: ErrPassphraseRequired},
		{name: "wrong passphrase", value: sealed, passphrase: "not the passphrase", wantErr: ErrSealedCorrupt},
		{name: "tampered payload", value: tampered, passphrase: passphrase, wantErr: ErrSealedCorrupt},
		{name: "not base64", value: SealedPrefix + "!!!", passphrase: passphrase, wantErr: ErrSealedCorrupt},
		{name: "truncated", value: SealedPrefix + "AAAA", passphrase: passphrase, wantErr: ErrSealedCorrupt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OpenSecret(tt.value, tt.passphrase)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSealSecret_Rejects(t *testing.T) {
	_, err := SealSecret("", passphrase)
	assert.Error(t, err)

	_, err = SealSecret("key", "short")
	assert.ErrorContains(t, err, "at least 8 bytes")
}
