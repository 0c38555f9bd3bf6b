package model

import (
	"time"

	"github.com/google/uuid"
)

type ActionKind string

const (
	ActionDelete          ActionKind = "delete"
	ActionUnsubscribe     ActionKind = "unsubscribe"
	ActionBulkDelete      ActionKind = "bulk-delete"
	ActionBulkUnsubscribe ActionKind = "bulk-unsubscribe"
)

// IsBulk reports whether the action targets a set of emails in one request.
func (k ActionKind) IsBulk() bool {
	return k == ActionBulkDelete || k == ActionBulkUnsubscribe
}

type ActionState string

const (
	StateIdle      ActionState = "idle"
	StateRequested ActionState = "requested"
	StateSucceeded ActionState = "succeeded"
	StateFailed    ActionState = "failed"
)

// ActionRecord tracks one remote action through idle -> requested -> succeeded|failed.
type ActionRecord struct {
	ID         string      `json:"id"`
	SessionID  string      `json:"session_id"`
	Kind       ActionKind  `json:"kind"`
	EmailIDs   []string    `json:"email_ids"`
	State      ActionState `json:"state"`
	Message    string      `json:"message,omitempty"`
	Successful int         `json:"successful"`
	Total      int         `json:"total"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at,omitempty"`
}

func NewActionRecord(sessionID string, kind ActionKind, emailIDs []string) *ActionRecord {
	return &ActionRecord{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Kind:      kind,
		EmailIDs:  emailIDs,
		State:     StateIdle,
		Total:     len(emailIDs),
	}
}

// PartialSuccess reports a finished bulk action where some items failed.
func (r *ActionRecord) PartialSuccess() bool {
	return r.State == StateSucceeded && r.Kind.IsBulk() && r.Successful < r.Total
}
