// Package token issues and verifies the HS256 bearer tokens of the game API.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/lightgame/panel/internal/access"
)

var (
	ErrMalformed = errors.New("token: malformed")
	ErrSignature = errors.New("token: bad signature")
	ErrExpired   = errors.New("token: expired")
)

type Manager struct {
	secret []byte
	now    func() time.Time
}

func NewManager(secret string) *Manager { return &Manager{secret: []byte(secret), now: time.Now} }

// Claims identify the user a token was issued to.
type Claims struct {
	Sub    int          `json:"sub"`
	Name   string       `json:"name"`
	Access access.Level `json:"access"`
	Exp    int64        `json:"exp"`
}

func b64enc(b []byte) string          { return base64.RawURLEncoding.EncodeToString(b) }
func b64dec(s string) ([]byte, error) { return base64.RawURLEncoding.DecodeString(s) }

var header = b64enc([]byte(`{"alg":"HS256","typ":"JWT"}`))

func (m *Manager) mac(payload string) []byte {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(payload))
	return mac.Sum(nil)
}

// Sign issues a token for the user. ttl <= 0 means no expiry.
func (m *Manager) Sign(id int, name string, level access.Level, ttl time.Duration) (string, error) {
	c := Claims{Sub: id, Name: name, Access: level}
	if ttl > 0 {
		c.Exp = m.now().Add(ttl).Unix()
	}
	cb, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	payload := header + "." + b64enc(cb)
	return payload + "." + b64enc(m.mac(payload)), nil
}

func (m *Manager) Verify(tok string) (Claims, error) {
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		return Claims{}, ErrMalformed
	}
	got, err := b64dec(parts[2])
	if err != nil {
		return Claims{}, ErrMalformed
	}
	if !hmac.Equal(m.mac(parts[0]+"."+parts[1]), got) {
		return Claims{}, ErrSignature
	}
	cb, err := b64dec(parts[1])
	if err != nil {
		return Claims{}, ErrMalformed
	}
	var c Claims
	if err := json.Unmarshal(cb, &c); err != nil {
		return Claims{}, ErrMalformed
	}
	if c.Exp > 0 && m.now().Unix() > c.Exp {
		return Claims{}, ErrExpired
	}
	return c, nil
}
