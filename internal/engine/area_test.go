package engine_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tactical-map/internal/domain"
	"github.com/tactical-map/internal/engine"
	apperrors "github.com/tactical-map/internal/pkg/errors"
)

func newDrawer() (*engine.AreaDrawer, *[]domain.Intent) {
	var emitted []domain.Intent
	d := engine.NewAreaDrawer(func(i domain.Intent) { emitted = append(emitted, i) }, sequentialIDs("area"))
	return d, &emitted
}

var triangle = []domain.GeoPoint{
	{Lat: -19.92, Lng: -43.94},
	{Lat: -19.93, Lng: -43.93},
	{Lat: -19.91, Lng: -43.92},
}

func TestAreaDrawer_MinimumVertices(t *testing.T) {
	t.Run("two vertices fail and emit nothing", func(t *testing.T) {
		d, emitted := newDrawer()
		d.Start()
		require.NoError(t, d.AddVertex(triangle[0]))
		require.NoError(t, d.AddVertex(triangle[1]))

		_, err := d.Commit()
		assert.True(t, errors.Is(err, apperrors.ErrTooFewVertices))
		assert.Empty(t, *emitted)
		assert.Equal(t, engine.AreaDrawing, d.State())
		assert.Len(t, d.View().Vertices, 2)
	})

	t.Run("three vertices commit in click order", func(t *testing.T) {
		d, emitted := newDrawer()
		d.Start()
		for _, p := range triangle {
			require.NoError(t, d.AddVertex(p))
		}
		require.NoError(t, d.SetMetadata(engine.AreaMetadata{Name: "Zona Norte", Description: "patrulha", Color: domain.ColorYellow}))

		area, err := d.Commit()
		require.NoError(t, err)
		assert.Equal(t, "area-1", area.ID)
		assert.Equal(t, triangle, area.Ring)
		assert.Equal(t, "Zona Norte", area.Name)

		require.Len(t, *emitted, 1)
		intent := (*emitted)[0]
		assert.Equal(t, domain.IntentAreaCreated, intent.Kind)
		assert.Equal(t, triangle, intent.Area.Ring)
		assert.Equal(t, engine.AreaIdle, d.State())
		assert.Empty(t, d.View().Vertices)
	})
}

func TestAreaDrawer_ClearAndCancel(t *testing.T) {
	d, emitted := newDrawer()

	assert.True(t, errors.Is(d.AddVertex(triangle[0]), apperrors.ErrModeNotActive))

	d.Start()
	require.NoError(t, d.AddVertex(triangle[0]))
	require.NoError(t, d.Clear())
	assert.Equal(t, engine.AreaDrawing, d.State())
	assert.Empty(t, d.View().Vertices)

	require.NoError(t, d.AddVertex(triangle[1]))
	d.Cancel()
	assert.Equal(t, engine.AreaIdle, d.State())
	assert.False(t, d.HasDraft())
	assert.Empty(t, *emitted)
}

func TestAreaDrawer_DraftView(t *testing.T) {
	d, _ := newDrawer()
	d.Start()
	require.NoError(t, d.AddVertex(triangle[0]))
	require.NoError(t, d.AddVertex(triangle[1]))
	assert.False(t, d.View().Closed)

	require.NoError(t, d.AddVertex(triangle[2]))
	v := d.View()
	assert.True(t, v.Closed)
	assert.Equal(t, engine.DefaultAreaName, v.Metadata.Name)
	assert.Equal(t, domain.Colors[0], v.Metadata.Color)
}

func TestAreaDrawer_EditMetadataKeepsRing(t *testing.T) {
	d, emitted := newDrawer()
	existing := domain.TacticalArea{ID: "a9", Ring: triangle, Name: "Antigo", Color: domain.ColorRed}

	d.Edit(existing)
	assert.Equal(t, engine.AreaEditingMetadata, d.State())
	assert.True(t, errors.Is(d.AddVertex(domain.GeoPoint{Lat: 1, Lng: 1}), apperrors.ErrModeNotActive))

	require.NoError(t, d.SetMetadata(engine.AreaMetadata{Name: "Renomeada", Color: domain.ColorPurple}))
	saved, err := d.Save()
	require.NoError(t, err)
	assert.Equal(t, "a9", saved.ID)
	assert.Equal(t, triangle, saved.Ring)
	assert.Equal(t, "Renomeada", saved.Name)

	require.Len(t, *emitted, 1)
	assert.Equal(t, domain.IntentAreaMetadataUpdated, (*emitted)[0].Kind)
	assert.Equal(t, engine.AreaIdle, d.State())
}

func TestAreaDrawer_EditCancelEmitsNothing(t *testing.T) {
	d, emitted := newDrawer()
	d.Edit(domain.TacticalArea{ID: "a9", Ring: triangle, Name: "Antigo", Color: domain.ColorRed})
	require.NoError(t, d.SetMetadata(engine.AreaMetadata{Name: "Outro", Color: domain.ColorBlue}))
	d.Cancel()

	assert.Empty(t, *emitted)
	_, err := d.Save()
	assert.True(t, errors.Is(err, apperrors.ErrModeNotActive))
}

func TestAreaDrawer_InvalidMetadata(t *testing.T) {
	d, emitted := newDrawer()
	d.Start()
	for _, p := range triangle {
		require.NoError(t, d.AddVertex(p))
	}
	require.NoError(t, d.SetMetadata(engine.AreaMetadata{Name: "", Color: "orange"}))

	_, err := d.Commit()
	assert.True(t, errors.Is(err, apperrors.ErrInvalidArea))
	assert.Empty(t, *emitted)
	assert.Equal(t, engine.AreaDrawing, d.State())
}

func TestAreaDrawer_DeleteNeedsConfirmation(t *testing.T) {
	d, emitted := newDrawer()

	_, err := d.ConfirmDelete()
	assert.True(t, errors.Is(err, apperrors.ErrDeleteNotConfirmed))

	d.RequestDelete("a1")
	assert.Empty(t, *emitted)
	d.CancelDelete()
	_, err = d.ConfirmDelete()
	assert.Error(t, err)

	d.RequestDelete("a1")
	id, err := d.ConfirmDelete()
	require.NoError(t, err)
	assert.Equal(t, "a1", id)
	require.Len(t, *emitted, 1)
	assert.Equal(t, domain.AreaDeleted("a1"), (*emitted)[0])
}
