package geofence

import (
	"context"
	"testing"

	"go-attend/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Tashkent city center and a point roughly 1.3 km north of it.
const (
	officeLat = 41.311081
	officeLon = 69.240562
	farLat    = 41.323000
	farLon    = 69.240562
)

func TestHaversine_ZeroAtIdenticalPoints(t *testing.T) {
	assert.Equal(t, 0.0, Haversine(officeLat, officeLon, officeLat, officeLon))
}

func TestHaversine_Symmetric(t *testing.T) {
	d1 := Haversine(officeLat, officeLon, farLat, farLon)
	d2 := Haversine(farLat, farLon, officeLat, officeLon)
	assert.InDelta(t, d1, d2, 1e-9)
}

func TestHaversine_KnownDistance(t *testing.T) {
	// ~0.01192 degrees of latitude is about 1325 m.
	d := Haversine(officeLat, officeLon, farLat, farLon)
	assert.InDelta(t, 1325, d, 10)
}

func location(id string, lat, lon float64, radius int) WorkLocation {
	return WorkLocation{
		ID:           uuid.MustParse(id),
		Name:         "Office",
		Latitude:     lat,
		Longitude:    lon,
		RadiusMeters: radius,
		IsActive:     true,
	}
}

func TestCheck_NoLocations(t *testing.T) {
	result := Check(officeLat, officeLon, nil)
	assert.False(t, result.Verified)
	assert.Equal(t, ReasonNoLocation, result.Reason)
	assert.Nil(t, result.Location)
}

func TestCheck_WithinRadius(t *testing.T) {
	locations := []WorkLocation{
		location("11111111-1111-1111-1111-111111111111", officeLat, officeLon, 100),
	}

	result := Check(officeLat+0.0001, officeLon, locations)
	assert.True(t, result.Verified)
	require.NotNil(t, result.Location)
	assert.Less(t, result.Distance, 100.0)
}

func TestCheck_TooFarReportsNearest(t *testing.T) {
	locations := []WorkLocation{
		location("11111111-1111-1111-1111-111111111111", officeLat, officeLon, 100),
	}

	result := Check(farLat, farLon, locations)
	assert.False(t, result.Verified)
	assert.Equal(t, ReasonTooFar, result.Reason)
	require.NotNil(t, result.Location)
	assert.Greater(t, result.Distance, 100.0)
}

func TestCheck_PicksNearestOfMany(t *testing.T) {
	near := location("22222222-2222-2222-2222-222222222222", officeLat, officeLon, 200)
	far := location("11111111-1111-1111-1111-111111111111", farLat, farLon, 200)

	result := Check(officeLat+0.0002, officeLon, []WorkLocation{far, near})
	assert.True(t, result.Verified)
	assert.Equal(t, near.ID, result.Location.ID)
}

type fakeRepo struct {
	locations []WorkLocation
	err       error
}

func (f *fakeRepo) FindActiveByDepartment(ctx context.Context, companyID, departmentID string) ([]WorkLocation, error) {
	return f.locations, f.err
}

func TestVerifyForDepartment_NoDepartment(t *testing.T) {
	v := NewVerifier(&fakeRepo{}, zap.NewNop())

	result, err := v.VerifyForDepartment(context.Background(), uuid.NewString(), "", officeLat, officeLon)
	require.NoError(t, err)
	assert.False(t, result.Verified)
	assert.Equal(t, apperror.CodeNoDepartment, result.Reason)
}

func TestVerifyForDepartment_RepoErrorSurfaces(t *testing.T) {
	v := NewVerifier(&fakeRepo{err: assert.AnError}, zap.NewNop())

	_, err := v.VerifyForDepartment(context.Background(), uuid.NewString(), uuid.NewString(), officeLat, officeLon)
	assert.Error(t, err)
}

func TestVerifyForDepartment_Verified(t *testing.T) {
	repo := &fakeRepo{locations: []WorkLocation{
		location("11111111-1111-1111-1111-111111111111", officeLat, officeLon, 150),
	}}
	v := NewVerifier(repo, zap.NewNop())

	result, err := v.VerifyForDepartment(context.Background(), uuid.NewString(), uuid.NewString(), officeLat, officeLon)
	require.NoError(t, err)
	assert.True(t, result.Verified)
}
