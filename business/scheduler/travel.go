package scheduler

import (
	"context"
	"time"

	"github.com/airsidetools/departcast/business/routing"
)

//travelEstimator finds the latest departure from the origin that still reaches the airport by a
//deadline. Travel estimates come from a queryable provider rather than a fixed table, so the
//search probes the provider iteratively instead of scanning records
type travelEstimator struct {
	estimator     routing.Estimator
	probeInterval time.Duration
	maxProbes     int
}

//makeTravelEstimator builds travelEstimator over the routing estimator
func makeTravelEstimator(estimator routing.Estimator, probeInterval time.Duration, maxProbes int) *travelEstimator {
	return &travelEstimator{
		estimator:     estimator,
		probeInterval: probeInterval,
		maxProbes:     maxProbes,
	}
}

//estimateAt asks the provider for the travel cost of departing at "at", returning the full
//duration with the deviation margin included and whether a margin was available
func (t *travelEstimator) estimateAt(ctx context.Context,
	origin routing.Location,
	day time.Weekday,
	at time.Time) (time.Duration, bool, error) {

	estimate, err := t.estimator.EstimateTravel(ctx, origin, day, at)
	if err != nil {
		return 0, false, &DataUnavailableError{Stage: StageTravel, Err: err}
	}
	seconds := estimate.DurationSeconds
	marginApplied := false
	if estimate.StdDevSeconds != nil {
		seconds += *estimate.StdDevSeconds
		marginApplied = true
	}
	return time.Duration(seconds * float64(time.Second)), marginApplied, nil
}

//latestDeparture finds the latest departure time W such that W plus the travel duration and its
//deviation margin is at or before deadline. Starts from the deadline itself and iterates
//W = deadline - travel(W) until the estimate stops moving, then steps W earlier by probeInterval
//until the inequality holds. notBefore is the caller's clock reading: a W before it means even
//immediate departure misses the deadline
func (t *travelEstimator) latestDeparture(ctx context.Context,
	origin routing.Location,
	day time.Weekday,
	deadline time.Time,
	notBefore time.Time) (*StageResult, error) {

	candidate := deadline
	var travelTime time.Duration
	var marginApplied bool
	var err error

	for probe := 0; probe < t.maxProbes; probe++ {
		travelTime, marginApplied, err = t.estimateAt(ctx, origin, day, candidate)
		if err != nil {
			return nil, err
		}
		next := deadline.Add(-travelTime)
		if next.Before(notBefore) {
			next = notBefore
		}
		delta := next.Sub(candidate)
		if delta > -time.Second && delta < time.Second {
			candidate = next
			break
		}
		candidate = next
	}

	//the fixed point can land slightly late when travel time grows as departure moves earlier,
	//step back until the arrival actually satisfies the deadline
	for probe := 0; probe < t.maxProbes; probe++ {
		travelTime, marginApplied, err = t.estimateAt(ctx, origin, day, candidate)
		if err != nil {
			return nil, err
		}
		if !candidate.Add(travelTime).After(deadline) {
			return &StageResult{
				Stage:           StageTravel,
				At:              candidate,
				DurationSeconds: travelTime.Seconds(),
				MarginApplied:   marginApplied,
			}, nil
		}
		if !candidate.After(notBefore) {
			//departing right now still arrives late
			return nil, &InfeasibleError{Stage: StageTravel, Deadline: deadline}
		}
		candidate = candidate.Add(-t.probeInterval)
		if candidate.Before(notBefore) {
			candidate = notBefore
		}
	}
	return nil, &InfeasibleError{Stage: StageTravel, Deadline: deadline}
}
