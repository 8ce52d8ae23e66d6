package formstate_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ColmKenna/ck-editable-array-sub000/pkg/formstate"
)

func TestRoundTrip(t *testing.T) {
	codec := formstate.New()

	records := []any{
		map[string]any{"name": "Alice", "age": 30.0},
		map[string]any{"name": "Bob", "tags": []any{"a", "b"}},
	}

	token, err := codec.Encode(records)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if strings.ContainsAny(token, "+/=") {
		t.Fatalf("token %q is not base64url", token)
	}

	got, err := codec.Decode(token)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if diff := cmp.Diff(records, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeNormalizesNumbers(t *testing.T) {
	codec := formstate.New()

	token, err := codec.Encode([]any{int64(7), map[string]any{"n": 3}})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	got, err := codec.Decode(token)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	want := []any{7.0, map[string]any{"n": 3.0}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("normalization mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeNilBecomesEmpty(t *testing.T) {
	codec := formstate.New()

	token, err := codec.Encode(nil)
	if err != nil {
		t.Fatalf("Encode(nil) error = %v", err)
	}
	got, err := codec.Decode(token)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Decode() = %v, want empty", got)
	}
}

func TestSignedTokens(t *testing.T) {
	codec := formstate.New(formstate.WithSigningKey([]byte("secret")))

	token, err := codec.Encode([]any{map[string]any{"name": "Carol"}})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !strings.Contains(token, ".") {
		t.Fatalf("signed token %q missing signature segment", token)
	}
	if _, err := codec.Decode(token); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	codec := formstate.New(formstate.WithSigningKey([]byte("secret")))

	token, err := codec.Encode([]any{map[string]any{"name": "Carol"}})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	body, sig, _ := strings.Cut(token, ".")
	flipped := "A" + body[1:]
	if flipped == body {
		flipped = "B" + body[1:]
	}

	if _, err := codec.Decode(flipped + "." + sig); !errors.Is(err, formstate.ErrSignatureInvalid) {
		t.Fatalf("Decode(tampered) error = %v, want ErrSignatureInvalid", err)
	}
	if _, err := codec.Decode(body); !errors.Is(err, formstate.ErrInvalidToken) {
		t.Fatalf("Decode(unsigned) error = %v, want ErrInvalidToken", err)
	}
}

func TestWrongKeyRejected(t *testing.T) {
	signer := formstate.New(formstate.WithSigningKey([]byte("secret")))
	other := formstate.New(formstate.WithSigningKey([]byte("different")))

	token, err := signer.Encode([]any{1.0})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if _, err := other.Decode(token); !errors.Is(err, formstate.ErrSignatureInvalid) {
		t.Fatalf("Decode() error = %v, want ErrSignatureInvalid", err)
	}
}

func TestGarbageTokens(t *testing.T) {
	codec := formstate.New()
	for _, token := range []string{"", "!!!", "not base64 at all"} {
		if _, err := codec.Decode(token); !errors.Is(err, formstate.ErrInvalidToken) {
			t.Fatalf("Decode(%q) error = %v, want ErrInvalidToken", token, err)
		}
	}
}
