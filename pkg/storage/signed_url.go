package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrMalformedToken is returned for tokens that do not parse at all.
	ErrMalformedToken = errors.New("malformed download token")
	// ErrBadSignature is returned when the token's signature does not
	// match its contents.
	ErrBadSignature = errors.New("download token signature mismatch")
	// ErrTokenExpired is returned for well-signed tokens past their
	// expiry.
	ErrTokenExpired = errors.New("download token expired")
)

// DownloadTicket is the verified content of a download token: which job
// it belongs to, the archive path it unlocks, and until when.
type DownloadTicket struct {
	JobID     string
	Path      string
	ExpiresAt time.Time
}

// Signer issues and verifies HMAC-signed download tokens. Tokens are the
// only download credential, so anyone holding one can fetch the file
// until it expires.
type Signer struct {
	secret []byte
	ttl    time.Duration
}

// NewSigner builds a signer. A non-positive ttl defaults to 24 hours.
func NewSigner(secret string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Signer{secret: []byte(secret), ttl: ttl}
}

// TTL reports the token lifetime, which doubles as the archive retention.
func (s *Signer) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for the job's archive path.
func (s *Signer) Issue(jobID, relPath string) (string, time.Time, error) {
	if jobID == "" || relPath == "" {
		return "", time.Time{}, errors.New("job id and path required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, errors.New("signing secret missing")
	}
	expiresAt := time.Now().Add(s.ttl)
	ts := strconv.FormatInt(expiresAt.Unix(), 10)
	encodedPath := base64.RawURLEncoding.EncodeToString([]byte(relPath))
	token := strings.Join([]string{jobID, ts, encodedPath, s.sign(jobID, ts, encodedPath)}, ".")
	return token, expiresAt, nil
}

// Verify checks a token's shape, signature and expiry, in that order, and
// returns the embedded ticket.
func (s *Signer) Verify(token string) (DownloadTicket, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return DownloadTicket{}, ErrMalformedToken
	}
	jobID, ts, encodedPath, signature := parts[0], parts[1], parts[2], parts[3]

	rawPath, err := base64.RawURLEncoding.DecodeString(encodedPath)
	if err != nil {
		return DownloadTicket{}, fmt.Errorf("%w: bad path encoding", ErrMalformedToken)
	}
	expUnix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return DownloadTicket{}, fmt.Errorf("%w: bad timestamp", ErrMalformedToken)
	}

	if !hmac.Equal([]byte(s.sign(jobID, ts, encodedPath)), []byte(signature)) {
		return DownloadTicket{}, ErrBadSignature
	}

	ticket := DownloadTicket{
		JobID:     jobID,
		Path:      string(rawPath),
		ExpiresAt: time.Unix(expUnix, 0),
	}
	if time.Now().After(ticket.ExpiresAt) {
		return ticket, ErrTokenExpired
	}
	return ticket, nil
}

func (s *Signer) sign(jobID, ts, encodedPath string) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s|%s|%s", jobID, ts, encodedPath)
	return hex.EncodeToString(mac.Sum(nil))
}
