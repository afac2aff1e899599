package waitmanager

import (
	"errors"
	"fmt"
	"io"
	logger "log"
	"os"

	"github.com/airsidetools/departcast/business/data/waitdata"
	"github.com/jmoiron/sqlx"
)

//LoadWaitFile reads a wait observation csv file and records its rows in the database.
//Rows for the same stage and day must appear with strictly increasing bucket times
func LoadWaitFile(log *logger.Logger, db *sqlx.DB, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("unable to open wait file %s: %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	records, err := readWaitRecords(file, path)
	if err != nil {
		return err
	}
	if err = waitdata.RecordWaitRecords(db, records); err != nil {
		return fmt.Errorf("recording wait records from %s: %w", path, err)
	}
	log.Printf("waitmanager: recorded %d wait records from %s", len(records), path)
	return nil
}

//readWaitRecords reads every row of a wait observation file, enforcing bucket ordering
func readWaitRecords(r io.Reader, filename string) ([]waitdata.WaitRecord, error) {
	reader, err := makeWaitFileReader(r, filename)
	if err != nil {
		return nil, err
	}

	type seriesKey struct {
		kind waitdata.StageKind
		day  int
	}
	lastBuckets := make(map[seriesKey]int)

	var records []waitdata.WaitRecord
	for {
		record, err := reader.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		key := seriesKey{kind: record.StageKind, day: record.DayOfWeek}
		if lastBucket, seen := lastBuckets[key]; seen && record.BucketSeconds <= lastBucket {
			return nil, reader.rowError(fmt.Errorf("bucket %d for stage %s day %d does not advance past %d",
				record.BucketSeconds, record.StageKind, record.DayOfWeek, lastBucket))
		}
		lastBuckets[key] = record.BucketSeconds
		records = append(records, *record)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no wait records found in %s", filename)
	}
	return records, nil
}
