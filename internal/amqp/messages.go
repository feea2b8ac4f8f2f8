package amqp

import (
	"encoding/json"
	"time"
)

// Event kinds published on the mirror queue.
const (
	EventExpenseUpsert = "expense_upsert"
	EventExpenseDelete = "expense_delete"
	EventBudgetUpsert  = "budget_upsert"
)

// MirrorEvent is a lightweight pointer to a changed record. The worker
// fetches the current state from the database, so events carry keys only.
type MirrorEvent struct {
	Kind      string    `json:"kind"`
	ID        string    `json:"id"`
	UID       string    `json:"uid"`
	Timestamp time.Time `json:"timestamp"`
}

func NewMirrorEvent(kind, id, uid string) *MirrorEvent {
	return &MirrorEvent{
		Kind:      kind,
		ID:        id,
		UID:       uid,
		Timestamp: time.Now(),
	}
}

func (m *MirrorEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func MirrorEventFromJSON(data []byte) (*MirrorEvent, error) {
	var msg MirrorEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
