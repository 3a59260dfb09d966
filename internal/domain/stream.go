package domain

import "time"

// Имена стримов
const (
	StreamIntents = "stream:tactical:intents"
	StreamLabels  = "stream:tactical:labels"
)

// LabelEvent - адрес, найденный для новой метки или зоны
type LabelEvent struct {
	SessionID string     `json:"session_id,omitempty"`
	Kind      IntentKind `json:"kind"`
	TargetID  string     `json:"target_id"`
	Point     GeoPoint   `json:"point"`
	Label     string     `json:"label"`
	Resolved  bool       `json:"resolved"`
	At        time.Time  `json:"at"`
}

// StreamMessage - сообщение, прочитанное из Redis stream
type StreamMessage struct {
	ID   string
	Data string
}
