package celltools

import (
	"fmt"
	"strings"
	"testing"

	"github.com/golang/geo/s2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellToWKT(t *testing.T) {
	cell := s2.CellFromCellID(s2.CellIDFromLatLng(s2.LatLngFromDegrees(-33.9, 18.85)).Parent(14))
	wktString := cellToWKT(cell)

	require.True(t, strings.HasPrefix(wktString, "POLYGON(("))
	require.True(t, strings.HasSuffix(wktString, "))"))
	coords := strings.Split(strings.TrimSuffix(strings.TrimPrefix(wktString, "POLYGON(("), "))"), ", ")
	require.Len(t, coords, 5)
	assert.Equal(t, coords[0], coords[4], "ring must be closed")

	first := s2.LatLngFromPoint(cell.Vertex(0))
	assert.Equal(t, fmt.Sprintf("%v %v", first.Lng.Degrees(), first.Lat.Degrees()), coords[0], "coordinates are lng lat")
	assert.InDelta(t, 18.85, first.Lng.Degrees(), 0.05)
	assert.InDelta(t, -33.9, first.Lat.Degrees(), 0.05)
}

func TestCellAreaM2(t *testing.T) {
	cell := s2.CellFromCellID(s2.CellIDFromLatLng(s2.LatLngFromDegrees(-33.9, 18.85)).Parent(16))
	area, err := cellAreaM2(cell, cellToWKT(cell))
	require.NoError(t, err)

	approx := cell.ApproxArea() * EarthRadius * EarthRadius
	assert.InEpsilon(t, approx, area, 0.05)
}

func TestGetUTMSpatialRef(t *testing.T) {
	south, err := getUTMSpatialRef(18.85, -33.9)
	require.NoError(t, err)
	defer south.Close()
	want, err := getUTMSpatialRef(19.5, -1.0)
	require.NoError(t, err)
	defer want.Close()
	assert.True(t, south.IsSame(want))

	north, err := getUTMSpatialRef(18.85, 33.9)
	require.NoError(t, err)
	defer north.Close()
	assert.False(t, south.IsSame(north))
}
