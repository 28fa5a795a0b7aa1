package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// SeedRequestMessage asks a worker to reload the transaction collection from the feed.
type SeedRequestMessage struct {
	RequestID string    `json:"request_id"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// NewSeedRequestMessage creates a seed request stamped with the current time.
func NewSeedRequestMessage(requestID, source string) *SeedRequestMessage {
	return &SeedRequestMessage{
		RequestID: requestID,
		Source:    source,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *SeedRequestMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SeedRequestMessageFromJSON decodes a message and requires a request ID.
func SeedRequestMessageFromJSON(data []byte) (*SeedRequestMessage, error) {
	var msg SeedRequestMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.RequestID == "" {
		return nil, errors.New("seed request without request_id")
	}
	return &msg, nil
}
