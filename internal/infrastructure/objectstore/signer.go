package objectstore

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	"github.com/shoppulse/pipeline/domain"
)

// Signer mints and verifies expiring download links. The signature binds the
// object key to an expiry timestamp, so links cannot be extended or reused
// for other objects.
type Signer struct {
	secret []byte
	ttl    time.Duration
}

// NewSigner returns a Signer issuing links valid for ttl.
func NewSigner(secret string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Signer{secret: []byte(secret), ttl: ttl}
}

// SignedPath returns the download path with expiry and signature query
// parameters attached.
func (s *Signer) SignedPath(key string, now time.Time) string {
	expires := now.Add(s.ttl).Unix()
	return fmt.Sprintf("/reports/%s?expires=%d&signature=%s", key, expires, s.sign(key, expires))
}

// Verify checks the signature and expiry for a requested key. Expired or
// forged links fail with a not-found error so the response does not reveal
// whether the object exists.
func (s *Signer) Verify(key, expiresParam, signature string, now time.Time) error {
	expires, err := strconv.ParseInt(expiresParam, 10, 64)
	if err != nil {
		return domain.ErrReportNotFound
	}
	if now.Unix() > expires {
		return domain.ErrReportNotFound
	}
	expected := s.sign(key, expires)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return domain.ErrReportNotFound
	}
	return nil
}

func (s *Signer) sign(key string, expires int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s\n%d", key, expires)
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
