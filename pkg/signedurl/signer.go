package signedurl

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMalformed = errors.New("malformed token")
	ErrSignature = errors.New("invalid token signature")
	ErrExpired   = errors.New("token expired")
)

// Signer creates and validates HMAC-signed, expiring tokens that reference a
// subject (for example an approved NOC application) for a given purpose.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSigner constructs a signer with the provided secret and TTL.
func NewSigner(secret string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Generate returns a token binding subjectID to purpose until the TTL elapses.
func (s *Signer) Generate(purpose, subjectID string) (string, time.Time, error) {
	if purpose == "" || subjectID == "" {
		return "", time.Time{}, fmt.Errorf("purpose and subject required")
	}
	if strings.Contains(subjectID, ".") || strings.Contains(purpose, ".") {
		return "", time.Time{}, fmt.Errorf("purpose and subject must not contain '.'")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := s.now().Add(s.ttl).UTC()
	ts := strconv.FormatInt(expiresAt.Unix(), 10)
	signature := s.sign(purpose, subjectID, ts)
	return strings.Join([]string{purpose, subjectID, ts, signature}, "."), expiresAt, nil
}

// Parse validates the token for purpose and returns the subject it references.
func (s *Signer) Parse(purpose, token string) (string, time.Time, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return "", time.Time{}, ErrMalformed
	}
	if parts[0] != purpose {
		return "", time.Time{}, ErrSignature
	}
	expUnix, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return "", time.Time{}, ErrMalformed
	}
	expected := s.sign(parts[0], parts[1], parts[2])
	if !hmac.Equal([]byte(expected), []byte(parts[3])) {
		return "", time.Time{}, ErrSignature
	}
	expiresAt := time.Unix(expUnix, 0).UTC()
	if s.now().After(expiresAt) {
		return "", time.Time{}, ErrExpired
	}
	return parts[1], expiresAt, nil
}

func (s *Signer) sign(purpose, subjectID, ts string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(purpose + "|" + subjectID + "|" + ts))
	return hex.EncodeToString(mac.Sum(nil))
}
