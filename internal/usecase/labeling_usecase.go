package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tactical-map/internal/domain"
	"github.com/tactical-map/internal/domain/repository"
)

// PointResolver resolves a point to a name and degrades instead of failing.
type PointResolver interface {
	Resolve(ctx context.Context, point domain.GeoPoint) (domain.GeocodedLocation, bool)
}

// LabelingUseCase подписывает новые маркеры и области адресом
type LabelingUseCase struct {
	resolver   PointResolver
	streamRepo repository.StreamRepository
	logger     *zap.Logger
	now        func() time.Time
}

func NewLabelingUseCase(resolver PointResolver, streamRepo repository.StreamRepository, logger *zap.Logger) *LabelingUseCase {
	return &LabelingUseCase{
		resolver:   resolver,
		streamRepo: streamRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// Label строит событие с адресом; для остальных интентов возвращает nil.
// Маркер подписывается по своей точке, область - по центроиду.
func (uc *LabelingUseCase) Label(ctx context.Context, intent domain.Intent) (*domain.LabelEvent, error) {
	var point domain.GeoPoint
	switch intent.Kind {
	case domain.IntentMarkerCreated:
		if intent.Marker == nil {
			return nil, fmt.Errorf("intent %s without marker", intent.Kind)
		}
		point = intent.Marker.Point
	case domain.IntentAreaCreated:
		if intent.Area == nil || len(intent.Area.Ring) < domain.MinAreaVertices {
			return nil, fmt.Errorf("intent %s without a valid ring", intent.Kind)
		}
		point = intent.Area.Centroid()
	default:
		return nil, nil
	}

	loc, resolved := uc.resolver.Resolve(ctx, point)
	return &domain.LabelEvent{
		SessionID: intent.SessionID,
		Kind:      intent.Kind,
		TargetID:  intent.TargetID,
		Point:     point,
		Label:     loc.Name,
		Resolved:  resolved,
		At:        uc.now(),
	}, nil
}

// LabelBatch подписывает пачку интентов и публикует события в stream:tactical:labels.
// Возвращает число опубликованных событий.
func (uc *LabelingUseCase) LabelBatch(ctx context.Context, intents []domain.Intent) (int, error) {
	published := 0
	for _, intent := range intents {
		event, err := uc.Label(ctx, intent)
		if err != nil {
			uc.logger.Warn("Intent cannot be labelled, skipping",
				zap.String("kind", string(intent.Kind)),
				zap.String("target_id", intent.TargetID),
				zap.Error(err))
			continue
		}
		if event == nil {
			continue
		}

		if err := uc.streamRepo.PublishToStream(ctx, domain.StreamLabels, event); err != nil {
			return published, fmt.Errorf("failed to publish label: %w", err)
		}
		published++

		uc.logger.Debug("Label published",
			zap.String("target_id", event.TargetID),
			zap.String("label", event.Label),
			zap.Bool("resolved", event.Resolved))
	}
	return published, nil
}
