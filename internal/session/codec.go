package session

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

const DefaultMaxAge = 30 * 24 * time.Hour

const keyInfo = "aulavid session cookie v1"

var ErrEmptySecret = errors.New("session secret is required")

type sessionClaims struct {
	Values map[string]string `json:"v"`
	jwt.RegisteredClaims
}

// Codec signs and verifies the session cookie payload.
type Codec struct {
	key    []byte
	maxAge time.Duration
}

func NewCodec(secret string, maxAge time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	key, err := deriveKey(secret)
	if err != nil {
		return nil, err
	}
	return &Codec{key: key, maxAge: maxAge}, nil
}

func (c *Codec) MaxAge() time.Duration {
	return c.maxAge
}

func (c *Codec) Encode(values map[string]string) (string, error) {
	now := time.Now()
	claims := &sessionClaims{
		Values: values,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.maxAge)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

func (c *Codec) Decode(value string) (map[string]string, error) {
	token, err := jwt.ParseWithClaims(value, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid session")
	}
	if claims.Values == nil {
		return map[string]string{}, nil
	}
	return claims.Values, nil
}

func deriveKey(secret string) ([]byte, error) {
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(keyInfo))
	key := make([]byte, 32)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive session key: %w", err)
	}
	return key, nil
}
