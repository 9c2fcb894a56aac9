package account

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gagliardetto/solana-go"
	"golang.org/x/crypto/blake2b"
)

// SchemeEd25519 is the only signature scheme flag the service key may carry.
const SchemeEd25519 byte = 0x00

const (
	seedLen      = ed25519.SeedSize
	shortKeyLen  = 1 + seedLen
	longKeyLen   = 1 + seedLen + ed25519.PublicKeySize
	intentLength = 3
)

var (
	// ErrServiceKeyMissing is returned when no secret is configured.
	ErrServiceKeyMissing = errors.New("service key not configured")
	// ErrInvalidServiceKey is returned for undecodable or wrongly sized secrets.
	ErrInvalidServiceKey = errors.New("service key is invalid")
	// ErrUnsupportedKeyScheme is returned when the flag byte is not ed25519.
	ErrUnsupportedKeyScheme = errors.New("unsupported key scheme")
)

// intentPrefix is prepended to transaction bytes before signing.
var intentPrefix = [intentLength]byte{0x00, 0x00, 0x00}

// ServiceAccount is the immutable signing identity of the swap service.
type ServiceAccount struct {
	address    string
	privateKey solana.PrivateKey
	publicKey  []byte
	scheme     byte
}

// FromBase64 decodes a base64 secret of the form flag||seed or
// flag||seed||pubkey and derives the service address from it.
func FromBase64(secret string) (*ServiceAccount, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, ErrServiceKeyMissing
	}

	raw, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, fmt.Errorf("%w: not base64", ErrInvalidServiceKey)
	}
	if len(raw) != shortKeyLen && len(raw) != longKeyLen {
		return nil, fmt.Errorf("%w: length %d", ErrInvalidServiceKey, len(raw))
	}

	scheme := raw[0]
	if scheme != SchemeEd25519 {
		return nil, fmt.Errorf("%w: flag %d", ErrUnsupportedKeyScheme, scheme)
	}

	privateKey := solana.PrivateKey(ed25519.NewKeyFromSeed(raw[1 : 1+seedLen]))

	var publicKey []byte
	if len(raw) == longKeyLen {
		publicKey = append([]byte(nil), raw[1+seedLen:]...)
	} else {
		publicKey = privateKey.PublicKey().Bytes()
	}

	digest := blake2b.Sum256(publicKey)

	return &ServiceAccount{
		address:    hexutil.Encode(digest[:]),
		privateKey: privateKey,
		publicKey:  publicKey,
		scheme:     scheme,
	}, nil
}

// Address returns the 0x-prefixed on-chain address.
func (a *ServiceAccount) Address() string {
	return a.address
}

// PublicKey returns a copy of the raw public key bytes.
func (a *ServiceAccount) PublicKey() []byte {
	return append([]byte(nil), a.publicKey...)
}

// Scheme returns the signature scheme flag.
func (a *ServiceAccount) Scheme() byte {
	return a.scheme
}

// SignTransaction signs base64 transaction bytes and returns the serialized
// signature flag||signature||pubkey, base64 encoded.
func (a *ServiceAccount) SignTransaction(txBytes string) (string, error) {
	tx, err := base64.StdEncoding.DecodeString(txBytes)
	if err != nil {
		return "", fmt.Errorf("invalid transaction bytes: %w", err)
	}

	message := make([]byte, 0, intentLength+len(tx))
	message = append(message, intentPrefix[:]...)
	message = append(message, tx...)

	signature, err := a.privateKey.Sign(message)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	payload := make([]byte, 0, 1+len(signature)+len(a.publicKey))
	payload = append(payload, a.scheme)
	payload = append(payload, signature[:]...)
	payload = append(payload, a.publicKey...)
	return base64.StdEncoding.EncodeToString(payload), nil
}

// String keeps key material out of logs.
func (a *ServiceAccount) String() string {
	return fmt.Sprintf("ServiceAccount(%s)", a.address)
}

// GoString keeps key material out of %#v output.
func (a *ServiceAccount) GoString() string {
	return a.String()
}
