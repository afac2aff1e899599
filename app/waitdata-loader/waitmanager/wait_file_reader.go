// Package waitmanager loads historical wait observation csv files into the database.
package waitmanager

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/airsidetools/departcast/business/data/waitdata"
)

//column headers the wait observation csv format requires
const (
	stageKindColumn = "stage_kind"
	dayOfWeekColumn = "day_of_week"
	bucketColumn    = "bucket"
	meanColumn      = "mean_seconds"
	stdevColumn     = "stdev_seconds"
)

//waitFileReader reads wait observation rows from a csv file. Parse errors record the line
//number they happened on
type waitFileReader struct {
	filename  string
	line      int
	csvReader *csv.Reader
	columns   map[string]int
}

//makeWaitFileReader creates a waitFileReader from io.Reader, reading and validating the header
func makeWaitFileReader(r io.Reader, filename string) (*waitFileReader, error) {
	csvReader := csv.NewReader(r)
	headers, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("unable to load header in %s: %w", filename, err)
	}
	removeBOMIfPresent(headers)

	columns := make(map[string]int)
	for i, header := range headers {
		columns[strings.TrimSpace(header)] = i
	}
	for _, required := range []string{stageKindColumn, dayOfWeekColumn, bucketColumn, meanColumn} {
		if _, present := columns[required]; !present {
			return nil, fmt.Errorf("missing required column %s in %s", required, filename)
		}
	}
	return &waitFileReader{
		filename:  filename,
		line:      1,
		csvReader: csvReader,
		columns:   columns,
	}, nil
}

func removeBOMIfPresent(headers []string) {
	if len(headers) < 1 {
		return
	}
	firstHeader := headers[0]
	if len(firstHeader) < 1 {
		return
	}
	runes := []rune(firstHeader)
	if runes[0] == '\uFEFF' { //check for BOM
		headers[0] = string(runes[1:])
	}
}

//next reads one wait record row, returning io.EOF at end of file
func (w *waitFileReader) next() (*waitdata.WaitRecord, error) {
	row, err := w.csvReader.Read()
	if err != nil {
		return nil, err
	}
	w.line++

	kind, err := parseStageKind(w.value(row, stageKindColumn))
	if err != nil {
		return nil, w.rowError(err)
	}
	day, err := strconv.Atoi(w.value(row, dayOfWeekColumn))
	if err != nil || day < 0 || day > 6 {
		return nil, w.rowError(fmt.Errorf("invalid day_of_week %q", w.value(row, dayOfWeekColumn)))
	}
	bucketSeconds, err := parseBucket(w.value(row, bucketColumn))
	if err != nil {
		return nil, w.rowError(err)
	}
	meanSeconds, err := strconv.ParseFloat(w.value(row, meanColumn), 64)
	if err != nil || meanSeconds < 0 {
		return nil, w.rowError(fmt.Errorf("invalid mean_seconds %q", w.value(row, meanColumn)))
	}

	record := waitdata.WaitRecord{
		StageKind:     kind,
		DayOfWeek:     day,
		BucketSeconds: bucketSeconds,
		MeanSeconds:   meanSeconds,
	}
	//stdev is optional, both as a column and per row
	if stdevString := w.value(row, stdevColumn); stdevString != "" {
		stdevSeconds, err := strconv.ParseFloat(stdevString, 64)
		if err != nil || stdevSeconds < 0 {
			return nil, w.rowError(fmt.Errorf("invalid stdev_seconds %q", stdevString))
		}
		record.StdDevSeconds = &stdevSeconds
	}
	return &record, nil
}

//value retrieves a named column from row, empty string when the column is absent or the row is short
func (w *waitFileReader) value(row []string, name string) string {
	index, present := w.columns[name]
	if !present || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}

func (w *waitFileReader) rowError(err error) error {
	return fmt.Errorf("in file %v, line %v: %w", w.filename, w.line, err)
}

//parseStageKind maps a csv stage kind value to its waitdata constant
func parseStageKind(value string) (waitdata.StageKind, error) {
	switch waitdata.StageKind(value) {
	case waitdata.SecurityWait, waitdata.CheckInWait, waitdata.BagDropWait, waitdata.TravelTime:
		return waitdata.StageKind(value), nil
	}
	return "", fmt.Errorf("unknown stage_kind %q", value)
}

//parseBucket accepts a time of day as HH:MM, HH:MM:SS, or plain seconds after midnight
func parseBucket(value string) (int, error) {
	if !strings.Contains(value, ":") {
		seconds, err := strconv.Atoi(value)
		if err != nil || seconds < 0 || seconds >= 24*60*60 {
			return 0, fmt.Errorf("invalid bucket %q", value)
		}
		return seconds, nil
	}
	parts := strings.Split(value, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid bucket %q", value)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("invalid bucket %q", value)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid bucket %q", value)
	}
	seconds := 0
	if len(parts) == 3 {
		seconds, err = strconv.Atoi(parts[2])
		if err != nil || seconds < 0 || seconds > 59 {
			return 0, fmt.Errorf("invalid bucket %q", value)
		}
	}
	return hours*3600 + minutes*60 + seconds, nil
}
