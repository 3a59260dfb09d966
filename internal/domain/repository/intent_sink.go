package repository

import (
	"context"

	"github.com/tactical-map/internal/domain"
)

// IntentSink получает интенты create/update/delete от ядра карты
type IntentSink interface {
	Emit(ctx context.Context, intent domain.Intent) error
}

// IntentSinkFunc - функция как IntentSink
type IntentSinkFunc func(ctx context.Context, intent domain.Intent) error

func (f IntentSinkFunc) Emit(ctx context.Context, intent domain.Intent) error {
	return f(ctx, intent)
}
