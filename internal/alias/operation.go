package alias

import (
	"fmt"

	"sectionpaths/internal/config"
	"sectionpaths/internal/logging"
)

// Op identifies what happened to an entity's alias.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
	// OpDeleteWithoutNewAlias marks an alias removed with no replacement
	// (term deleted and regeneration disabled).
	OpDeleteWithoutNewAlias Op = "delete_without_new_alias"
)

// Record is the structured description of one alias operation, emitted
// outward for logging and user messages.
type Record struct {
	Operation   Op     `json:"operation"`
	EntityType  string `json:"entityType"`
	EntityID    int64  `json:"entityId"`
	EntityLabel string `json:"entityLabel"`
	NewAlias    string `json:"newAlias,omitempty"`
	OldAlias    string `json:"oldAlias,omitempty"`
}

// Message renders the record as a user-facing sentence.
func (r Record) Message() string {
	switch r.Operation {
	case OpDelete:
		return fmt.Sprintf("Alias removed for %s %q (%d).", r.EntityType, r.EntityLabel, r.EntityID)
	case OpDeleteWithoutNewAlias:
		return fmt.Sprintf("Alias %q removed for %s %q (%d).", r.OldAlias, r.EntityType, r.EntityLabel, r.EntityID)
	case OpUpdate:
		return fmt.Sprintf("Alias %q updated to %q for %s %q (%d).", r.OldAlias, r.NewAlias, r.EntityType, r.EntityLabel, r.EntityID)
	case OpInsert:
		return fmt.Sprintf("Alias %q created for %s %q (%d).", r.NewAlias, r.EntityType, r.EntityLabel, r.EntityID)
	}
	return ""
}

// Messenger receives user-facing status messages. The CLI prints them;
// tests capture them.
type Messenger interface {
	Status(msg string)
}

// OperationLogger emits operation records to the structured log and to
// the messenger, honoring the event-logging and silent-messages settings.
type OperationLogger struct {
	cfg       *config.Settings
	logger    *logging.Logger
	messenger Messenger
}

// NewOperationLogger creates an operation logger. messenger may be nil.
func NewOperationLogger(cfg *config.Settings, logger *logging.Logger, messenger Messenger) *OperationLogger {
	return &OperationLogger{cfg: cfg, logger: logger, messenger: messenger}
}

// Log emits one operation record.
func (o *OperationLogger) Log(rec Record) {
	msg := rec.Message()
	if msg == "" {
		return
	}

	if o.messenger != nil && !o.cfg.SilentMessages {
		o.messenger.Status(msg)
	}

	if o.cfg.EnableEventLogging {
		o.logger.Info("alias operation", map[string]interface{}{
			"operation":   string(rec.Operation),
			"entityType":  rec.EntityType,
			"entityId":    rec.EntityID,
			"entityLabel": rec.EntityLabel,
			"newAlias":    rec.NewAlias,
			"oldAlias":    rec.OldAlias,
		})
	}
}
