// Package auditlog writes the audit trail to the application log. It is used
// when no MongoDB is configured.
package auditlog

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/esop/dhcp-console/internal/core/domain"
)

type Repository struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Repository {
	return &Repository{log: log.With().Str("component", "audit").Logger()}
}

func (r *Repository) InsertEvent(_ context.Context, event *domain.AuditEvent) error {
	r.log.Info().
		Str("event_id", event.ID).
		Str("session", event.SessionID).
		Str("username", event.Username).
		Str("action", string(event.Action)).
		Str("detail", event.Detail).
		Time("at", event.At).
		Msg("audit")
	return nil
}
