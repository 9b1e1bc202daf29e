package geofence

import (
	"context"
	"math"
	"strings"

	"go-attend/internal/shared/apperror"

	"go.uber.org/zap"
)

const (
	ReasonNoLocation = "NO_LOCATION"
	ReasonTooFar     = "TOO_FAR"
)

// Result describes one geofence check. Location is the nearest active
// candidate even when the check fails, so callers can report how far
// off the employee was.
type Result struct {
	Verified bool
	Location *WorkLocation
	Distance float64
	Reason   string
}

// Nearest picks the candidate with the minimal distance to the given
// point. Ties break by ascending location id for determinism.
func Nearest(lat, lon float64, locations []WorkLocation) (*WorkLocation, float64) {
	var nearest *WorkLocation
	minDistance := math.Inf(1)

	for i := range locations {
		loc := &locations[i]
		d := Haversine(lat, lon, loc.Latitude, loc.Longitude)
		if d < minDistance ||
			(d == minDistance && nearest != nil && strings.Compare(loc.ID.String(), nearest.ID.String()) < 0) {
			minDistance = d
			nearest = loc
		}
	}
	return nearest, minDistance
}

// Check verifies a point against a candidate set: nearest active
// location within its radius passes.
func Check(lat, lon float64, locations []WorkLocation) Result {
	if len(locations) == 0 {
		return Result{Verified: false, Reason: ReasonNoLocation}
	}

	nearest, distance := Nearest(lat, lon, locations)
	if distance <= float64(nearest.RadiusMeters) {
		return Result{Verified: true, Location: nearest, Distance: distance}
	}
	return Result{Verified: false, Location: nearest, Distance: distance, Reason: ReasonTooFar}
}

//go:generate mockgen -source=verifier.go -destination=mock/verifier_mock.go -package=mock
type Verifier interface {
	// VerifyForDepartment checks a coordinate against the department's
	// active locations. Missing locations degrade to an unverified
	// result, never an error.
	VerifyForDepartment(ctx context.Context, companyID, departmentID string, lat, lon float64) (Result, error)
}

type verifier struct {
	repo   Repository
	logger *zap.Logger
}

func NewVerifier(repo Repository, logger ...*zap.Logger) Verifier {
	l := zap.L().Named("geofence.verifier")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("geofence.verifier")
	}
	return &verifier{repo: repo, logger: l}
}

func (v *verifier) VerifyForDepartment(ctx context.Context, companyID, departmentID string, lat, lon float64) (Result, error) {
	if departmentID == "" {
		return Result{Verified: false, Reason: apperror.CodeNoDepartment}, nil
	}

	locations, err := v.repo.FindActiveByDepartment(ctx, companyID, departmentID)
	if err != nil {
		return Result{}, err
	}

	result := Check(lat, lon, locations)
	if !result.Verified {
		v.logger.Debug("geofence check failed",
			zap.String("department_id", departmentID),
			zap.Float64("distance", result.Distance),
			zap.String("reason", result.Reason),
		)
	}
	return result, nil
}
