package waitdata

import (
	"context"
	"sort"
	"time"
)

//snapshotKey identifies one day's series for a stage kind
type snapshotKey struct {
	kind StageKind
	day  time.Weekday
}

// Snapshot is an immutable in-memory Source. It serves a scheduling request against a consistent
// point in time view of the historical data, and backs tests and fixtures
type Snapshot struct {
	recordsByKey map[snapshotKey][]WaitRecord
}

// MakeSnapshot builds Snapshot from records, sorting each (kind, day) series by bucket
func MakeSnapshot(records []WaitRecord) *Snapshot {
	byKey := make(map[snapshotKey][]WaitRecord)
	for _, record := range records {
		key := snapshotKey{kind: record.StageKind, day: time.Weekday(record.DayOfWeek)}
		byKey[key] = append(byKey[key], record)
	}
	for key := range byKey {
		series := byKey[key]
		sort.Slice(series, func(i, j int) bool {
			return series[i].BucketSeconds < series[j].BucketSeconds
		})
	}
	return &Snapshot{recordsByKey: byKey}
}

const secondsPerDay = 60 * 60 * 24

// WaitRecords implements Source over the snapshot contents
func (s *Snapshot) WaitRecords(_ context.Context,
	kind StageKind,
	day time.Weekday,
	startSeconds int,
	endSeconds int) ([]WaitRecord, error) {

	series := s.recordsByKey[snapshotKey{kind: kind, day: day}]
	start := sort.Search(len(series), func(i int) bool {
		return series[i].BucketSeconds >= startSeconds
	})
	end := sort.Search(len(series), func(i int) bool {
		return series[i].BucketSeconds > endSeconds
	})
	if start >= end {
		return nil, nil
	}
	return series[start:end], nil
}

// LatestRecordAtOrBefore returns the last record in series with bucket at or before seconds,
// or nil if the series starts later. series must be ordered by bucket ascending
func LatestRecordAtOrBefore(series []WaitRecord, seconds int) *WaitRecord {
	i := sort.Search(len(series), func(i int) bool {
		return series[i].BucketSeconds > seconds
	})
	if i == 0 {
		return nil
	}
	return &series[i-1]
}
