package waitdata

import (
	"context"
	"testing"
	"time"
)

func makeTestRecord(kind StageKind, day time.Weekday, bucket int, mean float64) WaitRecord {
	return WaitRecord{
		StageKind:     kind,
		DayOfWeek:     int(day),
		BucketSeconds: bucket,
		MeanSeconds:   mean,
	}
}

func TestSnapshot_WaitRecords(t *testing.T) {
	//inserted out of order, snapshot must sort
	snapshot := MakeSnapshot([]WaitRecord{
		makeTestRecord(SecurityWait, time.Monday, 3600, 300),
		makeTestRecord(SecurityWait, time.Monday, 1800, 600),
		makeTestRecord(SecurityWait, time.Monday, 900, 200),
		makeTestRecord(SecurityWait, time.Tuesday, 1800, 900),
		makeTestRecord(CheckInWait, time.Monday, 1800, 120),
	})

	tests := []struct {
		name        string
		kind        StageKind
		day         time.Weekday
		start       int
		end         int
		wantBuckets []int
	}{
		{
			name:        "full day ordered",
			kind:        SecurityWait,
			day:         time.Monday,
			start:       0,
			end:         secondsPerDay,
			wantBuckets: []int{900, 1800, 3600},
		},
		{
			name:        "range excludes outside buckets",
			kind:        SecurityWait,
			day:         time.Monday,
			start:       1000,
			end:         2000,
			wantBuckets: []int{1800},
		},
		{
			name:        "range bounds are inclusive",
			kind:        SecurityWait,
			day:         time.Monday,
			start:       900,
			end:         3600,
			wantBuckets: []int{900, 1800, 3600},
		},
		{
			name:        "other day not visible",
			kind:        SecurityWait,
			day:         time.Wednesday,
			start:       0,
			end:         secondsPerDay,
			wantBuckets: nil,
		},
		{
			name:        "kinds are separate series",
			kind:        CheckInWait,
			day:         time.Monday,
			start:       0,
			end:         secondsPerDay,
			wantBuckets: []int{1800},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := snapshot.WaitRecords(context.Background(), tt.kind, tt.day, tt.start, tt.end)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if len(records) != len(tt.wantBuckets) {
				t.Errorf("got %d records, want %d", len(records), len(tt.wantBuckets))
				return
			}
			for i, record := range records {
				if record.BucketSeconds != tt.wantBuckets[i] {
					t.Errorf("record %d bucket = %d, want %d", i, record.BucketSeconds, tt.wantBuckets[i])
				}
			}
		})
	}
}

func TestLatestRecordAtOrBefore(t *testing.T) {
	series := []WaitRecord{
		makeTestRecord(BagDropWait, time.Friday, 900, 60),
		makeTestRecord(BagDropWait, time.Friday, 1800, 120),
		makeTestRecord(BagDropWait, time.Friday, 3600, 240),
	}

	tests := []struct {
		name       string
		seconds    int
		wantBucket int
		wantNil    bool
	}{
		{name: "exact bucket", seconds: 1800, wantBucket: 1800},
		{name: "between buckets", seconds: 2000, wantBucket: 1800},
		{name: "after last", seconds: 7200, wantBucket: 3600},
		{name: "before first", seconds: 600, wantNil: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := LatestRecordAtOrBefore(series, tt.seconds)
			if tt.wantNil {
				if record != nil {
					t.Errorf("want nil, got bucket %d", record.BucketSeconds)
				}
				return
			}
			if record == nil {
				t.Errorf("want bucket %d, got nil", tt.wantBucket)
				return
			}
			if record.BucketSeconds != tt.wantBucket {
				t.Errorf("got bucket %d, want %d", record.BucketSeconds, tt.wantBucket)
			}
		})
	}
}

func TestLatestRecordAtOrBefore_emptySeries(t *testing.T) {
	if record := LatestRecordAtOrBefore(nil, 1000); record != nil {
		t.Errorf("want nil for empty series, got %+v", record)
	}
}
