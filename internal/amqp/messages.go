package amqp

import (
	"encoding/json"
	"time"
)

// SnapshotMessage announces that a fetch replaced the transaction
// snapshot. It is deliberately light: the worker re-reads the snapshot
// from the store, so the message only needs to say that a new one exists.
type SnapshotMessage struct {
	Provider  string    `json:"provider"`
	Count     int       `json:"count"`
	FetchedAt time.Time `json:"fetched_at"`
}

func NewSnapshotMessage(provider string, count int) *SnapshotMessage {
	return &SnapshotMessage{
		Provider:  provider,
		Count:     count,
		FetchedAt: time.Now().UTC(),
	}
}

func (m *SnapshotMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SnapshotMessageFromJSON(data []byte) (*SnapshotMessage, error) {
	var msg SnapshotMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
