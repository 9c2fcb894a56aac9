package account

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"
)

func testSeed() []byte {
	return bytes.Repeat([]byte{0x11}, ed25519.SeedSize)
}

func encodeKey(flag byte, parts ...[]byte) string {
	raw := []byte{flag}
	for _, p := range parts {
		raw = append(raw, p...)
	}
	return base64.StdEncoding.EncodeToString(raw)
}

func TestFromBase64DerivesPublicKeyAndAddress(t *testing.T) {
	seed := testSeed()
	acct, err := FromBase64(encodeKey(SchemeEd25519, seed))
	require.NoError(t, err)

	wantPub := ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey)
	assert.Equal(t, []byte(wantPub), acct.PublicKey())

	digest := blake2b.Sum256(wantPub)
	assert.Equal(t, "0x"+hex.EncodeToString(digest[:]), acct.Address())
	assert.Len(t, acct.Address(), 66)
	assert.Equal(t, SchemeEd25519, acct.Scheme())
}

func TestFromBase64UsesEmbeddedPublicKey(t *testing.T) {
	seed := testSeed()
	pub := ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey)

	short, err := FromBase64(encodeKey(SchemeEd25519, seed))
	require.NoError(t, err)
	long, err := FromBase64(encodeKey(SchemeEd25519, seed, pub))
	require.NoError(t, err)

	assert.Equal(t, short.Address(), long.Address())
	assert.Equal(t, short.PublicKey(), long.PublicKey())
}

func TestFromBase64Rejects(t *testing.T) {
	seed := testSeed()
	cases := []struct {
		name   string
		secret string
		want   error
	}{
		{"empty", "  ", ErrServiceKeyMissing},
		{"not base64", "%%%", ErrInvalidServiceKey},
		{"short", encodeKey(SchemeEd25519, seed[:31]), ErrInvalidServiceKey},
		{"between lengths", encodeKey(SchemeEd25519, seed, seed[:16]), ErrInvalidServiceKey},
		{"secp256k1 flag", encodeKey(0x01, seed), ErrUnsupportedKeyScheme},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromBase64(tc.secret)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestSignTransaction(t *testing.T) {
	acct, err := FromBase64(encodeKey(SchemeEd25519, testSeed()))
	require.NoError(t, err)

	tx := []byte("unsigned transaction bytes")
	encoded, err := acct.SignTransaction(base64.StdEncoding.EncodeToString(tx))
	require.NoError(t, err)

	payload, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	require.Len(t, payload, 1+ed25519.SignatureSize+ed25519.PublicKeySize)

	assert.Equal(t, SchemeEd25519, payload[0])
	sig := payload[1 : 1+ed25519.SignatureSize]
	pub := payload[1+ed25519.SignatureSize:]
	assert.Equal(t, acct.PublicKey(), pub)

	message := append([]byte{0, 0, 0}, tx...)
	assert.True(t, ed25519.Verify(pub, message, sig))
	assert.False(t, ed25519.Verify(pub, tx, sig), "signature must cover the intent prefix")
}

func TestSignTransactionRejectsBadBytes(t *testing.T) {
	acct, err := FromBase64(encodeKey(SchemeEd25519, testSeed()))
	require.NoError(t, err)

	_, err = acct.SignTransaction("not-base64!")
	require.Error(t, err)
}

func TestStringRedactsKeyMaterial(t *testing.T) {
	acct, err := FromBase64(encodeKey(SchemeEd25519, testSeed()))
	require.NoError(t, err)

	for _, out := range []string{acct.String(), fmt.Sprintf("%v", acct), fmt.Sprintf("%#v", acct)} {
		assert.Contains(t, out, acct.Address())
		assert.NotContains(t, out, hex.EncodeToString(testSeed()))
	}
}
