package tokens

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var seg = base64.RawURLEncoding

func TestMintVerify_RoundTrip(t *testing.T) {
	c := NewCodec("test-secret-32-bytes-should-be-long-enough", 0)
	tokenStr, err := c.Mint("64f1c0ffee00000000000001")
	if err != nil {
		t.Fatalf("Mint error: %v", err)
	}
	claims, err := c.Verify(tokenStr)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.Subject != "64f1c0ffee00000000000001" {
		t.Fatalf("unexpected sub claim: %q", claims.Subject)
	}
	if claims.ID == "" {
		t.Fatalf("expected jti to be set")
	}
	ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if ttl != 7*24*time.Hour || c.TTL() != ttl {
		t.Fatalf("unexpected ttl: %v (codec %v)", ttl, c.TTL())
	}
}

func TestMint_EmptySubject(t *testing.T) {
	c := NewCodec("secret", time.Minute)
	if _, err := c.Mint(""); err == nil {
		t.Fatalf("expected error for empty subject")
	}
}

func TestVerify_Expired(t *testing.T) {
	c := NewCodec("another-secret-32-bytes-longgggg", time.Hour)
	issued := time.Now().Add(-2 * time.Hour)
	c.now = func() time.Time { return issued }
	tokenStr, err := c.Mint("u2")
	if err != nil {
		t.Fatalf("Mint error: %v", err)
	}
	c.now = time.Now
	if _, err := c.Verify(tokenStr); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerify_WrongSecretFails(t *testing.T) {
	a := NewCodec("secret-one-32-bytes-xxxxxxxxxxxxxxxx", time.Minute)
	b := NewCodec("different-secret-xxxxxxxxxxxxxxxx", time.Minute)
	tokenStr, err := a.Mint("u3")
	if err != nil {
		t.Fatalf("Mint error: %v", err)
	}
	if _, err := b.Verify(tokenStr); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected verification to fail with wrong secret, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	c := NewCodec("x", time.Minute)
	for _, raw := range []string{"", "not.a.jwt", "abc"} {
		if _, err := c.Verify(raw); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", raw, err)
		}
	}
}

func TestVerify_AlgNoneRejected(t *testing.T) {
	c := NewCodec("x", time.Minute)
	headerEnc := seg.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payloadEnc := seg.EncodeToString([]byte(`{"sub":"u-none","exp":9999999999}`))
	if _, err := c.Verify(headerEnc + "." + payloadEnc + "."); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected alg=none token to be rejected, got %v", err)
	}
}

func TestVerify_OtherHMACAlgRejected(t *testing.T) {
	secret := "pinned-alg-secret-32-bytes-xxxxxxx"
	c := NewCodec(secret, time.Minute)
	claims := jwt.RegisteredClaims{Subject: "u4", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute))}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := c.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected HS512 token to be rejected, got %v", err)
	}
}

func TestVerify_MissingExpiryRejected(t *testing.T) {
	secret := "no-exp-secret-32-bytes-xxxxxxxxxxxx"
	c := NewCodec(secret, time.Minute)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "u5"}).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := c.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected token without exp to be rejected, got %v", err)
	}
}

func TestVerify_SignatureByteFlipped(t *testing.T) {
	c := NewCodec("flip-test-secret-32-bytes-xxxxxxxx", 5*time.Minute)
	tokenStr, err := c.Mint("user-f")
	if err != nil {
		t.Fatalf("Mint error: %v", err)
	}
	parts := strings.Split(tokenStr, ".")
	sig, err := seg.DecodeString(parts[2])
	if err != nil {
		t.Fatalf("decode sig: %v", err)
	}
	sig[0] ^= 0xff
	parts[2] = seg.EncodeToString(sig)
	if _, err := c.Verify(strings.Join(parts, ".")); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected flipped signature to fail, got %v", err)
	}
}

// Tampering with payload must fail signature verification
func TestVerify_TamperedPayload(t *testing.T) {
	c := NewCodec("tamper-test-secret-32-bytes-xxxxxxx", 5*time.Minute)
	tokenStr, err := c.Mint("user-t")
	if err != nil {
		t.Fatalf("Mint error: %v", err)
	}
	parts := strings.Split(tokenStr, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token parts")
	}
	payloadBytes, _ := seg.DecodeString(parts[1])
	parts[1] = seg.EncodeToString([]byte(strings.Replace(string(payloadBytes), "user-t", "attacker", 1)))
	if _, err := c.Verify(strings.Join(parts, ".")); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected signature verification to fail for tampered token, got %v", err)
	}
}
