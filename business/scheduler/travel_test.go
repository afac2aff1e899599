package scheduler

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/airsidetools/departcast/business/routing"
)

func Test_travelEstimator_latestDeparture_constantEstimate(t *testing.T) {
	location := testLocation(t)
	deadline := time.Date(2022, 5, 23, 17, 5, 0, 0, location)
	notBefore := time.Date(2022, 5, 23, 12, 0, 0, 0, location)

	estimator := makeTravelEstimator(constantTravel(1800, floatPtr(300)), 5*time.Minute, 20)
	result, err := estimator.latestDeparture(context.Background(), routing.Location{}, time.Monday, deadline, notBefore)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	//30 minutes travel plus 5 minutes margin back from 17:05
	wantAt := time.Date(2022, 5, 23, 16, 30, 0, 0, location)
	if !result.At.Equal(wantAt) {
		t.Errorf("got departure at %s, want %s", result.At, wantAt)
	}
	if !result.MarginApplied {
		t.Errorf("margin should be applied when the provider reports a stdev")
	}
	if !result.At.Add(time.Duration(result.DurationSeconds * float64(time.Second))).Equal(deadline) {
		t.Errorf("departure plus travel must land on the deadline")
	}
}

func Test_travelEstimator_latestDeparture_timeVaryingEstimate(t *testing.T) {
	location := testLocation(t)
	deadline := time.Date(2022, 5, 23, 17, 0, 0, 0, location)
	notBefore := time.Date(2022, 5, 23, 10, 0, 0, 0, location)

	//rush hour pricing: departures at or after 16:30 take 40 minutes, earlier ones 20 minutes.
	//the fixed point search oscillates between the two regimes and must still land on a
	//departure that satisfies the deadline
	rushBoundary := time.Date(2022, 5, 23, 16, 30, 0, 0, location)
	fake := &fakeTravelEstimator{
		estimate: func(at time.Time) (*routing.TravelEstimate, error) {
			if !at.Before(rushBoundary) {
				return &routing.TravelEstimate{DurationSeconds: 2400}, nil
			}
			return &routing.TravelEstimate{DurationSeconds: 1200}, nil
		},
	}

	estimator := makeTravelEstimator(fake, 5*time.Minute, 3)
	result, err := estimator.latestDeparture(context.Background(), routing.Location{}, time.Monday, deadline, notBefore)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	arrival := result.At.Add(time.Duration(result.DurationSeconds * float64(time.Second)))
	if arrival.After(deadline) {
		t.Errorf("departure at %s arrives %s, after deadline %s", result.At, arrival, deadline)
	}
	if result.At.Before(notBefore) {
		t.Errorf("departure at %s is before the request time %s", result.At, notBefore)
	}
	if result.MarginApplied {
		t.Errorf("margin must be reported omitted when the provider has no stdev")
	}
}

func Test_travelEstimator_latestDeparture_immediateDepartureTooLate(t *testing.T) {
	location := testLocation(t)
	deadline := time.Date(2022, 5, 23, 17, 0, 0, 0, location)
	//15 minutes before the deadline, but travel takes 30
	notBefore := time.Date(2022, 5, 23, 16, 45, 0, 0, location)

	estimator := makeTravelEstimator(constantTravel(1800, nil), 5*time.Minute, 20)
	_, err := estimator.latestDeparture(context.Background(), routing.Location{}, time.Monday, deadline, notBefore)

	var infeasible *InfeasibleError
	if !errors.As(err, &infeasible) {
		t.Fatalf("want InfeasibleError, got %v", err)
	}
	if infeasible.Stage != StageTravel {
		t.Errorf("got stage %s, want %s", infeasible.Stage, StageTravel)
	}
}

func Test_travelEstimator_latestDeparture_providerFailure(t *testing.T) {
	location := testLocation(t)
	deadline := time.Date(2022, 5, 23, 17, 0, 0, 0, location)
	notBefore := time.Date(2022, 5, 23, 12, 0, 0, 0, location)

	fake := &fakeTravelEstimator{
		estimate: func(time.Time) (*routing.TravelEstimate, error) {
			return nil, fmt.Errorf("provider timed out")
		},
	}

	estimator := makeTravelEstimator(fake, 5*time.Minute, 20)
	_, err := estimator.latestDeparture(context.Background(), routing.Location{}, time.Monday, deadline, notBefore)

	var unavailable *DataUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("want DataUnavailableError, got %v", err)
	}
	if unavailable.Stage != StageTravel {
		t.Errorf("got stage %s, want %s", unavailable.Stage, StageTravel)
	}
}
