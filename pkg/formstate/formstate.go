// Package formstate encodes a widget's record array as an opaque token and
// restores it later, the analog of native form state restoration across page
// loads. Tokens are msgpack payloads in base64url; an optional signing key
// makes them tamper-evident.
package formstate

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/ColmKenna/ck-editable-array-sub000/pkg/value"
)

var (
	// ErrInvalidToken signals a token that is not in the codec's format.
	ErrInvalidToken = errors.New("formstate: invalid token")
	// ErrSignatureInvalid signals a signed token whose signature does not
	// verify.
	ErrSignatureInvalid = errors.New("formstate: signature verification failed")
)

// Codec encodes and decodes record-state tokens.
type Codec struct {
	key []byte
}

// Option configures a Codec.
type Option func(*Codec)

// WithSigningKey makes tokens tamper-evident with an HMAC-SHA256 signature.
// Keys shorter than 32 bytes are stretched through SHA-256 first.
func WithSigningKey(key []byte) Option {
	return func(c *Codec) {
		if len(key) == 0 {
			return
		}
		if len(key) < 32 {
			h := sha256.Sum256(key)
			key = h[:]
		}
		c.key = key
	}
}

// New builds a codec. Without a signing key, tokens are plain encodings.
func New(opts ...Option) *Codec {
	c := &Codec{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Encode serializes the records into a token.
func (c *Codec) Encode(records []any) (string, error) {
	if records == nil {
		records = []any{}
	}
	packed, err := msgpack.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("formstate: encode: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(packed)
	if c.key == nil {
		return token, nil
	}
	return token + "." + c.sign(packed), nil
}

// Decode restores records from a token. The result crosses the usual clone
// boundary, so numbers and containers come back in the engine's record shape
// regardless of what msgpack produced.
func (c *Codec) Decode(token string) ([]any, error) {
	payload := token
	if c.key != nil {
		body, sig, ok := strings.Cut(token, ".")
		if !ok {
			return nil, ErrInvalidToken
		}
		packed, err := base64.RawURLEncoding.DecodeString(body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		if !hmac.Equal([]byte(c.sign(packed)), []byte(sig)) {
			return nil, ErrSignatureInvalid
		}
		payload = body
	}

	packed, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	var out []any
	if err := msgpack.Unmarshal(packed, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return value.CloneRecords(out), nil
}

func (c *Codec) sign(data []byte) string {
	mac := hmac.New(sha256.New, c.key)
	mac.Write(data)
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil)[:16])
}
