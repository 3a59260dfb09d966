package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuspect_Location(t *testing.T) {
	home := GeoPoint{Lat: -19.91, Lng: -43.94}
	s := Suspect{
		ID:        "s1",
		Residence: SuspectLocation{Point: &home, Label: "Rua da Bahia, 100"},
		Approach:  SuspectLocation{Label: "sem coordenadas"},
	}

	loc, ok := s.Location(RoleResidence)
	assert.True(t, ok)
	assert.Equal(t, home, *loc.Point)

	_, ok = s.Location(RoleApproach)
	assert.False(t, ok)

	_, ok = s.Location(LocationRole("office"))
	assert.False(t, ok)
}

func TestSuspectStatus_Severity(t *testing.T) {
	tests := []struct {
		status SuspectStatus
		want   Severity
	}{
		{StatusWanted, SeverityDanger},
		{StatusInvestigating, SeverityWarning},
		{StatusArrested, SeverityNeutral},
		{StatusReleased, SeverityNeutral},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.status.Severity(), string(tt.status))
	}
}

func TestStatusFilter_Matches(t *testing.T) {
	assert.True(t, StatusFilterAll.Matches(StatusArrested))
	assert.True(t, StatusFilter("wanted").Matches(StatusWanted))
	assert.False(t, StatusFilter("wanted").Matches(StatusArrested))
	assert.False(t, StatusFilter("unknown").Valid())
}

func TestTacticalArea_Geometry(t *testing.T) {
	area := TacticalArea{Ring: []GeoPoint{
		{Lat: 0, Lng: 0},
		{Lat: 0, Lng: 2},
		{Lat: 2, Lng: 2},
		{Lat: 2, Lng: 0},
	}}

	ring := area.OrbRing()
	assert.Len(t, ring, 5)
	assert.Equal(t, ring[0], ring[4])

	c := area.Centroid()
	assert.InDelta(t, 1.0, c.Lat, 1e-9)
	assert.InDelta(t, 1.0, c.Lng, 1e-9)

	sw, ne := area.Bounds()
	assert.Equal(t, GeoPoint{Lat: 0, Lng: 0}, sw)
	assert.Equal(t, GeoPoint{Lat: 2, Lng: 2}, ne)
}

func TestTacticalArea_CentroidDegenerate(t *testing.T) {
	area := TacticalArea{Ring: []GeoPoint{{Lat: 1, Lng: 1}, {Lat: 3, Lng: 3}, {Lat: 2, Lng: 2}}}
	c := area.Centroid()
	assert.InDelta(t, 2.0, c.Lat, 1e-9)
	assert.InDelta(t, 2.0, c.Lng, 1e-9)
}

func TestGeoPoint_LabelAndUnresolved(t *testing.T) {
	p := GeoPoint{Lat: -19.9, Lng: -43.9}
	loc := Unresolved(p)
	assert.Equal(t, "-19.9, -43.9", loc.Name)
	assert.Equal(t, p, loc.Point)
	assert.False(t, GeoPoint{Lat: 91}.Valid())
}

func TestEnums_Defaults(t *testing.T) {
	assert.Equal(t, IconTarget, MarkerIcons[0])
	assert.Equal(t, ColorRed, Colors[0])
	assert.True(t, IconVehicle.Valid())
	assert.False(t, MarkerIcon("star").Valid())
	assert.False(t, Color("orange").Valid())
}
