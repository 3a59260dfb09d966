package domain

import "time"

// IntentKind - вид исходящего запроса create/update/delete
type IntentKind string

const (
	IntentMarkerCreated       IntentKind = "marker.created"
	IntentMarkerUpdated       IntentKind = "marker.updated"
	IntentMarkerDeleted       IntentKind = "marker.deleted"
	IntentAreaCreated         IntentKind = "area.created"
	IntentAreaMetadataUpdated IntentKind = "area.metadata_updated"
	IntentAreaDeleted         IntentKind = "area.deleted"
	IntentOpenSuspectProfile  IntentKind = "suspect.open_profile"
)

// Intent - типизированный запрос ядра карты к владельцу коллекций.
// Для каждого вида значимо ровно одно из Marker/Area/TargetID
type Intent struct {
	Kind      IntentKind    `json:"kind"`
	SessionID string        `json:"session_id,omitempty"`
	Marker    *CustomMarker `json:"marker,omitempty"`
	Area      *TacticalArea `json:"area,omitempty"`
	TargetID  string        `json:"target_id,omitempty"`
	At        time.Time     `json:"at"`
}

func MarkerCreated(m CustomMarker) Intent {
	return Intent{Kind: IntentMarkerCreated, Marker: &m, TargetID: m.ID}
}

func MarkerUpdated(m CustomMarker) Intent {
	return Intent{Kind: IntentMarkerUpdated, Marker: &m, TargetID: m.ID}
}

func MarkerDeleted(id string) Intent {
	return Intent{Kind: IntentMarkerDeleted, TargetID: id}
}

func AreaCreated(a TacticalArea) Intent {
	return Intent{Kind: IntentAreaCreated, Area: &a, TargetID: a.ID}
}

func AreaMetadataUpdated(a TacticalArea) Intent {
	return Intent{Kind: IntentAreaMetadataUpdated, Area: &a, TargetID: a.ID}
}

func AreaDeleted(id string) Intent {
	return Intent{Kind: IntentAreaDeleted, TargetID: id}
}

func OpenSuspectProfile(suspectID string) Intent {
	return Intent{Kind: IntentOpenSuspectProfile, TargetID: suspectID}
}
