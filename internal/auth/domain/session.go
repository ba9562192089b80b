package domain

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// SessionKind tags the two token variants that share the sessions table. A
// pending token is never honored as a full session no matter how it is
// presented.
type SessionKind string

const (
	SessionKindActive     SessionKind = "active"
	SessionKindPending2FA SessionKind = "pending_2fa"
)

type Session struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	SessionToken string
	Kind         SessionKind
	IpAddress    string
	UserAgent    string
	// TwoFactorAttempts counts wrong codes submitted against a pending
	// token; always zero for active sessions.
	TwoFactorAttempts int
	ExpiresAt         time.Time
	CreatedAt         time.Time
}

func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// GenerateSecureToken returns 256 bits of CSPRNG output, hex encoded. The
// token is opaque: all session state lives server-side, which is what makes
// instant revocation possible.
func GenerateSecureToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
