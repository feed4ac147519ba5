package events

import (
	"encoding/json"
	"time"
)

// Envelope is the canonical event shape relayed from module outboxes to the
// bus. Keep it backward compatible; downstream consumers key on EventType.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	SourceService string          `json:"source_service"`
	OccurredAt    time.Time       `json:"occurred_at"`
	EntityType    string          `json:"entity_type"`
	EntityID      string          `json:"entity_id"`
	Payload       json.RawMessage `json:"payload"`
}
