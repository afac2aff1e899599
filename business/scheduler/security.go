package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/airsidetools/departcast/business/data/waitdata"
)

const secondsPerDay = 60 * 60 * 24

//latestSecurityEntry searches the day's security wait history for the latest record time U such
//that U plus the mean wait plus the deviation margin is at or before deadline. Among qualifying
//records the latest wins: entering the queue later is strictly better for the traveler
func latestSecurityEntry(ctx context.Context,
	source waitdata.Source,
	day time.Weekday,
	serviceDate time.Time,
	deadline time.Time) (*StageResult, error) {

	series, err := source.WaitRecords(ctx, waitdata.SecurityWait, day, 0, secondsPerDay)
	if err != nil {
		return nil, &DataUnavailableError{Stage: StageSecurity, Err: err}
	}
	if len(series) == 0 {
		return nil, &DataUnavailableError{
			Stage: StageSecurity,
			Err:   fmt.Errorf("no security wait history for day %d", day),
		}
	}

	for i := len(series) - 1; i >= 0; i-- {
		record := series[i]
		entryAt := MakeScheduleTime(serviceDate, record.BucketSeconds)
		clearSeconds := record.MeanSeconds
		marginApplied := false
		if record.StdDevSeconds != nil {
			clearSeconds += *record.StdDevSeconds
			marginApplied = true
		}
		clearedAt := entryAt.Add(time.Duration(clearSeconds * float64(time.Second)))
		if !clearedAt.After(deadline) {
			return &StageResult{
				Stage:           StageSecurity,
				At:              entryAt,
				DurationSeconds: clearSeconds,
				MarginApplied:   marginApplied,
			}, nil
		}
	}
	return nil, &InfeasibleError{Stage: StageSecurity, Deadline: deadline}
}
