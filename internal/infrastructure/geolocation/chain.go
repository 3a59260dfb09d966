package geolocation

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tactical-map/internal/domain"
	"github.com/tactical-map/internal/domain/repository"
	apperrors "github.com/tactical-map/internal/pkg/errors"
)

// Chain опрашивает провайдеров по порядку и возвращает первую найденную позицию.
// Любая неудача сводится к ErrLocationUnavailable
type Chain struct {
	providers []repository.LocationRepository
	timeout   time.Duration
	logger    *zap.Logger
}

func NewChain(timeout time.Duration, logger *zap.Logger, providers ...repository.LocationRepository) *Chain {
	return &Chain{providers: providers, timeout: timeout, logger: logger}
}

func (c *Chain) GetCurrentPosition(ctx context.Context, highAccuracy bool) (domain.GeoPoint, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var lastErr error
	for i, p := range c.providers {
		if p == nil {
			continue
		}
		point, err := p.GetCurrentPosition(ctx, highAccuracy)
		if err == nil && point.Valid() {
			return point, nil
		}
		lastErr = err
		c.logger.Debug("Location provider failed", zap.Int("provider", i), zap.Error(err))
		if ctx.Err() != nil {
			break
		}
	}

	details := map[string]interface{}{"high_accuracy": highAccuracy}
	if lastErr != nil {
		details["cause"] = lastErr.Error()
	}
	return domain.GeoPoint{}, apperrors.ErrLocationUnavailable.WithDetails(details)
}
