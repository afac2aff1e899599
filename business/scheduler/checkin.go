package scheduler

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/airsidetools/departcast/business/data/waitdata"
)

//latestCheckInArrival searches the day's check-in history for the latest arrival time V such that
//V plus the check-in duration (plus the bag drop duration when hasBaggage) and the deviation
//margin is at or before deadline. Check-in and bag drop are assumed independent, so their
//variances add: combined deviation is sqrt(checkin^2 + bagdrop^2)
func latestCheckInArrival(ctx context.Context,
	source waitdata.Source,
	day time.Weekday,
	serviceDate time.Time,
	deadline time.Time,
	hasBaggage bool) (*StageResult, error) {

	checkInSeries, err := source.WaitRecords(ctx, waitdata.CheckInWait, day, 0, secondsPerDay)
	if err != nil {
		return nil, &DataUnavailableError{Stage: StageCheckIn, Err: err}
	}
	if len(checkInSeries) == 0 {
		return nil, &DataUnavailableError{
			Stage: StageCheckIn,
			Err:   fmt.Errorf("no check-in history for day %d", day),
		}
	}

	var bagDropSeries []waitdata.WaitRecord
	if hasBaggage {
		bagDropSeries, err = source.WaitRecords(ctx, waitdata.BagDropWait, day, 0, secondsPerDay)
		if err != nil {
			return nil, &DataUnavailableError{Stage: StageCheckIn, Err: err}
		}
		if len(bagDropSeries) == 0 {
			return nil, &DataUnavailableError{
				Stage: StageCheckIn,
				Err:   fmt.Errorf("no bag drop history for day %d", day),
			}
		}
	}

	for i := len(checkInSeries) - 1; i >= 0; i-- {
		record := checkInSeries[i]
		meanSeconds := record.MeanSeconds
		variance := 0.0
		marginApplied := record.StdDevSeconds != nil
		if record.StdDevSeconds != nil {
			variance = *record.StdDevSeconds * *record.StdDevSeconds
		}

		if hasBaggage {
			bagDrop := waitdata.LatestRecordAtOrBefore(bagDropSeries, record.BucketSeconds)
			if bagDrop == nil {
				//no bag drop observation covers this arrival time, the candidate cannot be costed
				continue
			}
			meanSeconds += bagDrop.MeanSeconds
			if bagDrop.StdDevSeconds != nil {
				variance += *bagDrop.StdDevSeconds * *bagDrop.StdDevSeconds
			} else {
				marginApplied = false
			}
		}

		clearSeconds := meanSeconds + math.Sqrt(variance)
		arriveAt := MakeScheduleTime(serviceDate, record.BucketSeconds)
		clearedAt := arriveAt.Add(time.Duration(clearSeconds * float64(time.Second)))
		if !clearedAt.After(deadline) {
			return &StageResult{
				Stage:           StageCheckIn,
				At:              arriveAt,
				DurationSeconds: clearSeconds,
				MarginApplied:   marginApplied,
			}, nil
		}
	}
	return nil, &InfeasibleError{Stage: StageCheckIn, Deadline: deadline}
}
