// Package waitdata provides models and database access to historical airport wait observations.
// Records hold the observed mean duration (and standard deviation where enough observations exist)
// for one stage of the airport journey, keyed by day of week and time of day bucket.
package waitdata

import (
	"context"
	"fmt"
	"time"

	"github.com/airsidetools/departcast/foundation/database"
	"github.com/jmoiron/sqlx"
)

// StageKind identifies which airport journey stage a wait record measures
type StageKind string

const (
	SecurityWait StageKind = "security"
	CheckInWait  StageKind = "checkin"
	BagDropWait  StageKind = "bagdrop"
	TravelTime   StageKind = "travel"
)

// WaitRecord holds one historical duration observation bucket.
// primary key consists of StageKind, DayOfWeek, BucketSeconds
type WaitRecord struct {
	//StageKind is the journey stage this record measures
	StageKind StageKind `db:"stage_kind" json:"stage_kind"`
	//DayOfWeek uses time.Weekday numbering, Sunday = 0
	DayOfWeek int `db:"day_of_week" json:"day_of_week"`
	//BucketSeconds is the time of day of this bucket in seconds after midnight
	BucketSeconds int `db:"bucket_seconds" json:"bucket_seconds"`
	//MeanSeconds is the observed mean duration for this bucket
	MeanSeconds float64 `db:"mean_seconds" json:"mean_seconds"`
	//StdDevSeconds is nil when too few observations were available to estimate deviation
	StdDevSeconds *float64  `db:"stdev_seconds" json:"stdev_seconds"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Source provides read access to historical wait records for one consistent snapshot of the data.
// Implementations must return records ordered by BucketSeconds ascending
type Source interface {
	WaitRecords(ctx context.Context,
		kind StageKind,
		day time.Weekday,
		startSeconds int,
		endSeconds int) ([]WaitRecord, error)
}

// RecordWaitRecords saves slice of WaitRecord into database
func RecordWaitRecords(db *sqlx.DB, records []WaitRecord) error {
	now := time.Now()
	statementString := "insert into wait_record " +
		"(stage_kind, " +
		"day_of_week, " +
		"bucket_seconds, " +
		"mean_seconds, " +
		"stdev_seconds, " +
		"created_at) " +
		"values " +
		"(:stage_kind, " +
		":day_of_week, " +
		":bucket_seconds, " +
		":mean_seconds, " +
		":stdev_seconds, " +
		":created_at) " +
		"on conflict (stage_kind, day_of_week, bucket_seconds) " +
		"do update set mean_seconds = excluded.mean_seconds, " +
		"stdev_seconds = excluded.stdev_seconds, " +
		"created_at = excluded.created_at"
	statementString = db.Rebind(statementString)
	for i := range records {
		records[i].CreatedAt = now
		if _, err := db.NamedExec(statementString, records[i]); err != nil {
			return fmt.Errorf("recording wait record %+v: %w", records[i], err)
		}
	}
	return nil
}

// DBSource implements Source against the wait_record table
type DBSource struct {
	db *sqlx.DB
}

// MakeDBSource builds DBSource over db
func MakeDBSource(db *sqlx.DB) *DBSource {
	return &DBSource{db: db}
}

// WaitRecords retrieves records for kind on day with buckets between startSeconds and endSeconds
// inclusive, ordered by bucket ascending
func (s *DBSource) WaitRecords(_ context.Context,
	kind StageKind,
	day time.Weekday,
	startSeconds int,
	endSeconds int) ([]WaitRecord, error) {

	statementString := "select * from wait_record " +
		"where stage_kind = :stage_kind " +
		"and day_of_week = :day_of_week " +
		"and bucket_seconds between :start_seconds and :end_seconds " +
		"order by bucket_seconds"
	rows, err := database.NamedQueryRowsFromMap(statementString, s.db, map[string]interface{}{
		"stage_kind":    kind,
		"day_of_week":   int(day),
		"start_seconds": startSeconds,
		"end_seconds":   endSeconds,
	})
	if err != nil {
		return nil, fmt.Errorf("querying wait records for %s on day %d: %w", kind, day, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var results []WaitRecord
	for rows.Next() {
		var record WaitRecord
		if err = rows.StructScan(&record); err != nil {
			return nil, fmt.Errorf("scanning wait record for %s: %w", kind, err)
		}
		results = append(results, record)
	}
	return results, rows.Err()
}
