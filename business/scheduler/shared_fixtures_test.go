package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/airsidetools/departcast/business/data/waitdata"
	"github.com/airsidetools/departcast/business/routing"
)

func floatPtr(v float64) *float64 {
	return &v
}

func testLocation(t *testing.T) *time.Location {
	location, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("unable to get testing time zone location")
	}
	return location
}

//monday is a non holiday Monday used by most fixtures
func testBoardingTime(t *testing.T) time.Time {
	return time.Date(2022, 5, 23, 18, 0, 0, 0, testLocation(t))
}

//makeTestSnapshot builds Monday wait history:
//security buckets every 5 minutes 15:00-17:45, mean 20 minutes, stdev 5 minutes
//check-in buckets every 5 minutes 15:00-17:30, mean 10 minutes, stdev 2 minutes
//bag drop buckets every 5 minutes 15:00-17:30, mean 5 minutes, stdev 1.5 minutes
func makeTestSnapshot() *waitdata.Snapshot {
	var records []waitdata.WaitRecord
	addSeries := func(kind waitdata.StageKind, lastBucket int, mean float64, stdev float64) {
		for bucket := 15 * 3600; bucket <= lastBucket; bucket += 300 {
			records = append(records, waitdata.WaitRecord{
				StageKind:     kind,
				DayOfWeek:     int(time.Monday),
				BucketSeconds: bucket,
				MeanSeconds:   mean,
				StdDevSeconds: floatPtr(stdev),
			})
		}
	}
	addSeries(waitdata.SecurityWait, 17*3600+45*60, 1200, 300)
	addSeries(waitdata.CheckInWait, 17*3600+30*60, 600, 120)
	addSeries(waitdata.BagDropWait, 17*3600+30*60, 300, 90)
	return waitdata.MakeSnapshot(records)
}

//fakeTravelEstimator answers travel queries from a function
type fakeTravelEstimator struct {
	estimate func(at time.Time) (*routing.TravelEstimate, error)
}

func (f *fakeTravelEstimator) EstimateTravel(_ context.Context,
	_ routing.Location,
	_ time.Weekday,
	departure time.Time) (*routing.TravelEstimate, error) {
	return f.estimate(departure)
}

//constantTravel answers every query with the same duration and deviation
func constantTravel(seconds float64, stdev *float64) *fakeTravelEstimator {
	return &fakeTravelEstimator{
		estimate: func(time.Time) (*routing.TravelEstimate, error) {
			return &routing.TravelEstimate{DurationSeconds: seconds, StdDevSeconds: stdev}, nil
		},
	}
}
