package audit

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/kariemGerges/crashify-sub002/internal/database"
	"github.com/kariemGerges/crashify-sub002/pkg/logger"
)

type EventType string

const (
	EventLoginSuccess     EventType = "login_success"
	EventLoginFailure     EventType = "login_failure"
	EventLoginLocked      EventType = "login_locked"
	EventLoginIPBlocked   EventType = "login_ip_blocked"
	EventTwoFactorSuccess EventType = "two_factor_success"
	EventTwoFactorFailure EventType = "two_factor_failure"
	EventLogout           EventType = "logout"
)

type Event struct {
	UserID    *uuid.UUID
	Email     string
	IP        string
	UserAgent string
	Type      EventType
	Reason    string
}

//go:generate mockgen -destination=../auth/test/mock_audit.go -package=test github.com/kariemGerges/crashify-sub002/internal/audit Recorder

// Recorder persists security events. Implementations must never let a
// recording failure surface to the caller: a broken audit pipeline must not
// block a legitimate login.
type Recorder interface {
	Record(ctx context.Context, event Event)
}

type pgRecorder struct {
	db database.Service
}

func NewRecorder(db database.Service) Recorder {
	return &pgRecorder{db: db}
}

func (r *pgRecorder) Record(ctx context.Context, event Event) {
	query := sq.Insert("audit_events").
		Columns("user_id", "email", "ip_address", "user_agent", "event_type", "reason", "created_at").
		Values(event.UserID, event.Email, event.IP, event.UserAgent, event.Type, event.Reason, time.Now()).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		logger.Error("failed to build audit insert:", err)
		return
	}

	if _, err := r.db.Pool().Exec(ctx, sqlStr, args...); err != nil {
		// Swallowed on purpose; see Recorder contract.
		logger.Error("failed to record audit event:", err, "type", string(event.Type))
	}
}

// NewNopRecorder discards events. Test and offline use.
func NewNopRecorder() Recorder {
	return nopRecorder{}
}

type nopRecorder struct{}

func (nopRecorder) Record(ctx context.Context, event Event) {}
