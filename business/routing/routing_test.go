package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/airsidetools/departcast/business/data/waitdata"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestProviderClient_EstimateTravel(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"appID":     r.FormValue("appID"),
			"lat":       r.FormValue("lat"),
			"lon":       r.FormValue("lon"),
			"day":       r.FormValue("day"),
			"departure": r.FormValue("departure"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"duration_seconds": 1860, "stdev_seconds": 240}`))
	}))
	defer server.Close()

	client := MakeProviderClient(server.URL, "test-key", 2*time.Second)
	origin := Location{Address: "123 Peachtree St", Latitude: 33.749, Longitude: -84.388}
	departure := time.Date(2022, 5, 23, 16, 30, 0, 0, time.UTC)

	estimate, err := client.EstimateTravel(context.Background(), origin, time.Monday, departure)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if estimate.DurationSeconds != 1860 {
		t.Errorf("got duration %f, want 1860", estimate.DurationSeconds)
	}
	if estimate.StdDevSeconds == nil || *estimate.StdDevSeconds != 240 {
		t.Errorf("got stdev %v, want 240", estimate.StdDevSeconds)
	}
	if gotQuery["appID"] != "test-key" {
		t.Errorf("got appID %q, want test-key", gotQuery["appID"])
	}
	if gotQuery["day"] != "1" {
		t.Errorf("got day %q, want 1", gotQuery["day"])
	}
	if gotQuery["departure"] != departure.Format(time.RFC3339) {
		t.Errorf("got departure %q, want %q", gotQuery["departure"], departure.Format(time.RFC3339))
	}
}

func TestProviderClient_EstimateTravel_errorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "provider exploded", http.StatusBadGateway)
	}))
	defer server.Close()

	client := MakeProviderClient(server.URL, "test-key", 2*time.Second)
	_, err := client.EstimateTravel(context.Background(), Location{}, time.Monday, time.Now())
	if err == nil {
		t.Fatalf("want error on non-2xx status")
	}
}

func TestProviderClient_EstimateTravel_timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{"duration_seconds": 60}`))
	}))
	defer server.Close()

	client := MakeProviderClient(server.URL, "test-key", 20*time.Millisecond)
	_, err := client.EstimateTravel(context.Background(), Location{}, time.Monday, time.Now())
	if err == nil {
		t.Fatalf("want error when the provider exceeds the timeout")
	}
}

func TestHistoryEstimator_EstimateTravel(t *testing.T) {
	snapshot := waitdata.MakeSnapshot([]waitdata.WaitRecord{
		{
			StageKind:     waitdata.TravelTime,
			DayOfWeek:     int(time.Monday),
			BucketSeconds: 16 * 3600,
			MeanSeconds:   1800,
			StdDevSeconds: floatPtr(300),
		},
		{
			StageKind:     waitdata.TravelTime,
			DayOfWeek:     int(time.Monday),
			BucketSeconds: 17 * 3600,
			MeanSeconds:   2400,
		},
	})
	estimator := MakeHistoryEstimator(snapshot)

	//16:30 departure is covered by the 16:00 bucket
	departure := time.Date(2022, 5, 23, 16, 30, 0, 0, time.UTC)
	estimate, err := estimator.EstimateTravel(context.Background(), Location{}, time.Monday, departure)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if estimate.DurationSeconds != 1800 {
		t.Errorf("got duration %f, want 1800", estimate.DurationSeconds)
	}
	if estimate.StdDevSeconds == nil || *estimate.StdDevSeconds != 300 {
		t.Errorf("got stdev %v, want 300", estimate.StdDevSeconds)
	}

	//before the earliest bucket there is nothing to answer with
	early := time.Date(2022, 5, 23, 6, 0, 0, 0, time.UTC)
	if _, err = estimator.EstimateTravel(context.Background(), Location{}, time.Monday, early); err == nil {
		t.Errorf("want error before the earliest travel bucket")
	}
}
