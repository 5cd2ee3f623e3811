package amqp

import (
	"encoding/json"
	"time"
)

// BatchIngestedMessage announces that a user's upload was persisted. It is
// deliberately small; the worker re-reads the ledger when it runs.
type BatchIngestedMessage struct {
	UserID    string    `json:"user_id"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

func NewBatchIngestedMessage(userID string, count int) *BatchIngestedMessage {
	return &BatchIngestedMessage{
		UserID:    userID,
		Count:     count,
		Timestamp: time.Now(),
	}
}

func (m *BatchIngestedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func BatchIngestedMessageFromJSON(data []byte) (*BatchIngestedMessage, error) {
	var msg BatchIngestedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
