package engine

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/tactical-map/internal/domain"
	apperrors "github.com/tactical-map/internal/pkg/errors"
)

// Snapshot - копия коллекций только для чтения
type Snapshot struct {
	Suspects []domain.Suspect      `json:"suspects"`
	Markers  []domain.CustomMarker `json:"markers"`
	Areas    []domain.TacticalArea `json:"areas"`
}

func (s Snapshot) Marker(id string) (domain.CustomMarker, bool) {
	for _, m := range s.Markers {
		if m.ID == id {
			return m, true
		}
	}
	return domain.CustomMarker{}, false
}

func (s Snapshot) Area(id string) (domain.TacticalArea, bool) {
	for _, a := range s.Areas {
		if a.ID == id {
			return a, true
		}
	}
	return domain.TacticalArea{}, false
}

func (s Snapshot) Suspect(id string) (domain.Suspect, bool) {
	for _, su := range s.Suspects {
		if su.ID == id {
			return su, true
		}
	}
	return domain.Suspect{}, false
}

// checkUnique - id уникален внутри своей коллекции
func (s Snapshot) checkUnique() error {
	seen := make(map[string]struct{}, len(s.Suspects))
	for _, su := range s.Suspects {
		if err := once(seen, "suspect", su.ID); err != nil {
			return err
		}
	}
	seen = make(map[string]struct{}, len(s.Markers))
	for _, m := range s.Markers {
		if err := once(seen, "marker", m.ID); err != nil {
			return err
		}
	}
	seen = make(map[string]struct{}, len(s.Areas))
	for _, a := range s.Areas {
		if err := once(seen, "area", a.ID); err != nil {
			return err
		}
	}
	return nil
}

func once(seen map[string]struct{}, kind, id string) error {
	if _, dup := seen[id]; dup {
		return duplicate(kind, id)
	}
	seen[id] = struct{}{}
	return nil
}

func duplicate(kind, id string) error {
	return apperrors.ErrDuplicateID.WithDetails(map[string]interface{}{"kind": kind, "id": id})
}

// CollectionSource - откуда ядро карты читает сущности
type CollectionSource interface {
	Snapshot() Snapshot
}

// Collections - владелец подозреваемых, меток и зон в памяти.
// Сущности меняются только здесь и только применением интентов
type Collections struct {
	mu       sync.RWMutex
	suspects []domain.Suspect
	markers  []domain.CustomMarker
	areas    []domain.TacticalArea
	logger   *zap.Logger
}

func NewCollections(logger *zap.Logger) *Collections {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collections{logger: logger}
}

// Replace подменяет набор данных от родителя; при повторе id не меняет ничего
func (c *Collections) Replace(snap Snapshot) error {
	if err := snap.checkUnique(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.suspects = append([]domain.Suspect(nil), snap.Suspects...)
	c.markers = append([]domain.CustomMarker(nil), snap.Markers...)
	c.areas = append([]domain.TacticalArea(nil), snap.Areas...)
	return nil
}

func (c *Collections) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	areas := make([]domain.TacticalArea, len(c.areas))
	for i, a := range c.areas {
		a.Ring = append([]domain.GeoPoint(nil), a.Ring...)
		areas[i] = a
	}
	return Snapshot{
		Suspects: append([]domain.Suspect(nil), c.suspects...),
		Markers:  append([]domain.CustomMarker(nil), c.markers...),
		Areas:    areas,
	}
}

// Emit применяет интент; так Collections служит IntentSink
func (c *Collections) Emit(_ context.Context, intent domain.Intent) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch intent.Kind {
	case domain.IntentMarkerCreated:
		if intent.Marker == nil {
			return apperrors.ErrInvalidMarker
		}
		if c.markerIndex(intent.Marker.ID) >= 0 {
			return duplicate("marker", intent.Marker.ID)
		}
		c.markers = append(c.markers, *intent.Marker)

	case domain.IntentMarkerUpdated:
		if intent.Marker == nil {
			return apperrors.ErrInvalidMarker
		}
		i := c.markerIndex(intent.Marker.ID)
		if i < 0 {
			return apperrors.ErrMarkerNotFound.WithDetails(map[string]interface{}{"id": intent.Marker.ID})
		}
		c.markers[i] = *intent.Marker

	case domain.IntentMarkerDeleted:
		i := c.markerIndex(intent.TargetID)
		if i < 0 {
			return apperrors.ErrMarkerNotFound.WithDetails(map[string]interface{}{"id": intent.TargetID})
		}
		c.markers = append(c.markers[:i], c.markers[i+1:]...)

	case domain.IntentAreaCreated:
		if intent.Area == nil || len(intent.Area.Ring) < domain.MinAreaVertices {
			return apperrors.ErrInvalidArea
		}
		if c.areaIndex(intent.Area.ID) >= 0 {
			return duplicate("area", intent.Area.ID)
		}
		area := *intent.Area
		area.Ring = append([]domain.GeoPoint(nil), area.Ring...)
		c.areas = append(c.areas, area)

	case domain.IntentAreaMetadataUpdated:
		if intent.Area == nil {
			return apperrors.ErrInvalidArea
		}
		i := c.areaIndex(intent.Area.ID)
		if i < 0 {
			return apperrors.ErrAreaNotFound.WithDetails(map[string]interface{}{"id": intent.Area.ID})
		}
		// геометрия здесь не редактируется
		c.areas[i].Name = intent.Area.Name
		c.areas[i].Description = intent.Area.Description
		c.areas[i].Color = intent.Area.Color

	case domain.IntentAreaDeleted:
		i := c.areaIndex(intent.TargetID)
		if i < 0 {
			return apperrors.ErrAreaNotFound.WithDetails(map[string]interface{}{"id": intent.TargetID})
		}
		c.areas = append(c.areas[:i], c.areas[i+1:]...)

	case domain.IntentOpenSuspectProfile:
		// только навигация, применять нечего
	default:
		c.logger.Warn("Unknown intent kind", zap.String("kind", string(intent.Kind)))
	}
	return nil
}

func (c *Collections) markerIndex(id string) int {
	for i, m := range c.markers {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (c *Collections) areaIndex(id string) int {
	for i, a := range c.areas {
		if a.ID == id {
			return i
		}
	}
	return -1
}
