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

func newEditor() (*engine.MarkerEditor, *[]domain.Intent) {
	var emitted []domain.Intent
	e := engine.NewMarkerEditor(func(i domain.Intent) { emitted = append(emitted, i) }, sequentialIDs("marker"))
	return e, &emitted
}

func TestMarkerEditor_ArmToggle(t *testing.T) {
	e, emitted := newEditor()

	assert.True(t, e.ToggleArm())
	assert.Equal(t, engine.MarkerPlacing, e.State())
	assert.False(t, e.ToggleArm())
	assert.Equal(t, engine.MarkerIdle, e.State())
	assert.Empty(t, *emitted)

	err := e.PlaceAt(domain.GeoPoint{Lat: -19.92, Lng: -43.93})
	assert.True(t, errors.Is(err, apperrors.ErrModeNotActive))
}

func TestMarkerEditor_PlaceOpensDefaults(t *testing.T) {
	e, _ := newEditor()
	p := domain.GeoPoint{Lat: -19.92, Lng: -43.93}

	e.ToggleArm()
	require.NoError(t, e.PlaceAt(p))

	assert.Equal(t, engine.MarkerConfiguringNew, e.State())
	assert.False(t, e.Armed())
	v := e.View()
	require.NotNil(t, v.Draft)
	assert.Equal(t, p, v.Draft.Point)
	assert.Equal(t, engine.DefaultMarkerTitle, v.Draft.Title)
	assert.Equal(t, engine.DefaultMarkerDescription, v.Draft.Description)
	assert.Equal(t, domain.MarkerIcons[0], v.Draft.Icon)
	assert.Equal(t, domain.Colors[0], v.Draft.Color)
}

func TestMarkerEditor_SaveNewAndExisting(t *testing.T) {
	e, emitted := newEditor()

	e.ToggleArm()
	require.NoError(t, e.PlaceAt(domain.GeoPoint{Lat: -19.92, Lng: -43.93}))
	created, err := e.Save()
	require.NoError(t, err)
	assert.Equal(t, "marker-1", created.ID)

	e.Edit(created)
	assert.Equal(t, engine.MarkerConfiguringExisting, e.State())
	require.NoError(t, e.UpdateDraft(engine.MarkerDraft{Title: "Viatura", Icon: domain.IconVehicle, Color: domain.ColorBlue}))
	updated, err := e.Save()
	require.NoError(t, err)
	assert.Equal(t, "marker-1", updated.ID)
	assert.Equal(t, "Viatura", updated.Title)
	assert.Equal(t, created.Point, updated.Point)

	require.Len(t, *emitted, 2)
	assert.Equal(t, domain.IntentMarkerCreated, (*emitted)[0].Kind)
	assert.Equal(t, domain.IntentMarkerUpdated, (*emitted)[1].Kind)
	assert.Equal(t, engine.MarkerIdle, e.State())
}

func TestMarkerEditor_ValidationKeepsFormOpen(t *testing.T) {
	e, emitted := newEditor()
	e.ToggleArm()
	require.NoError(t, e.PlaceAt(domain.GeoPoint{Lat: -19.92, Lng: -43.93}))
	require.NoError(t, e.UpdateDraft(engine.MarkerDraft{Title: "", Icon: "star", Color: domain.ColorRed}))

	_, err := e.Save()
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidMarker))

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Contains(t, appErr.Details, "title")
	assert.Contains(t, appErr.Details, "icon")

	assert.Equal(t, engine.MarkerConfiguringNew, e.State())
	assert.Empty(t, *emitted)
}

func TestMarkerEditor_CancelEmitsNothing(t *testing.T) {
	e, emitted := newEditor()
	e.ToggleArm()
	require.NoError(t, e.PlaceAt(domain.GeoPoint{Lat: 1, Lng: 1}))
	e.Cancel()

	assert.Equal(t, engine.MarkerIdle, e.State())
	assert.Nil(t, e.View().Draft)
	assert.Empty(t, *emitted)

	assert.True(t, errors.Is(e.UpdateDraft(engine.MarkerDraft{}), apperrors.ErrModeNotActive))
}

func TestMarkerEditor_DeleteNeedsConfirmation(t *testing.T) {
	e, emitted := newEditor()
	existing := domain.CustomMarker{ID: "m1", Title: "Base", Icon: domain.IconFlag, Color: domain.ColorGreen}

	e.Edit(existing)
	e.RequestDelete("m1")
	assert.Empty(t, *emitted)
	assert.Equal(t, "m1", e.View().PendingDelete)

	id, err := e.ConfirmDelete()
	require.NoError(t, err)
	assert.Equal(t, "m1", id)
	assert.Equal(t, engine.MarkerIdle, e.State())
	require.Len(t, *emitted, 1)
	assert.Equal(t, domain.MarkerDeleted("m1"), (*emitted)[0])

	_, err = e.ConfirmDelete()
	assert.True(t, errors.Is(err, apperrors.ErrDeleteNotConfirmed))
}
