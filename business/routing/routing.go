// Package routing provides travel time estimates between an origin location and the airport.
// Estimates come from a remote routing provider, or from historical travel observations when no
// provider is reachable from the deployment.
package routing

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/airsidetools/departcast/business/data/waitdata"
	"github.com/airsidetools/departcast/foundation/httpclient"
)

// Location is an origin position for a travel estimate
type Location struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// TravelEstimate is the provider's answer for one candidate departure time
type TravelEstimate struct {
	DurationSeconds float64 `json:"duration_seconds"`
	//StdDevSeconds is nil when the provider reports no variability data
	StdDevSeconds *float64 `json:"stdev_seconds"`
}

// Estimator answers travel time queries for candidate departure times
type Estimator interface {
	EstimateTravel(ctx context.Context,
		origin Location,
		day time.Weekday,
		departure time.Time) (*TravelEstimate, error)
}

// ProviderClient implements Estimator against a remote routing provider's json api
type ProviderClient struct {
	client *httpclient.Client
	apiKey string
}

// MakeProviderClient builds ProviderClient for the provider at baseUrl.
// Requests that exceed timeout fail rather than block the scheduling request
func MakeProviderClient(baseUrl string, apiKey string, timeout time.Duration) *ProviderClient {
	return &ProviderClient{
		client: httpclient.MakeClient(baseUrl, timeout),
		apiKey: apiKey,
	}
}

// EstimateTravel queries the provider for a departure at the given instant
func (p *ProviderClient) EstimateTravel(ctx context.Context,
	origin Location,
	day time.Weekday,
	departure time.Time) (*TravelEstimate, error) {

	values := url.Values{}
	values.Set("appID", p.apiKey)
	values.Set("lat", strconv.FormatFloat(origin.Latitude, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(origin.Longitude, 'f', -1, 64))
	values.Set("day", strconv.Itoa(int(day)))
	values.Set("departure", departure.Format(time.RFC3339))

	var estimate TravelEstimate
	if err := p.client.GetJson(ctx, "/estimate", values, &estimate); err != nil {
		return nil, fmt.Errorf("routing provider estimate for %s: %w", origin.Address, err)
	}
	if estimate.DurationSeconds < 0 {
		return nil, fmt.Errorf("routing provider returned negative duration %f for %s",
			estimate.DurationSeconds, origin.Address)
	}
	return &estimate, nil
}

// HistoryEstimator implements Estimator over historical travel observations, taking the bucket at
// or before the candidate departure time of day. Origin is ignored: the history is recorded for
// the service area as a whole
type HistoryEstimator struct {
	source waitdata.Source
}

// MakeHistoryEstimator builds HistoryEstimator over source
func MakeHistoryEstimator(source waitdata.Source) *HistoryEstimator {
	return &HistoryEstimator{source: source}
}

// EstimateTravel answers with the historical travel bucket covering the departure time
func (h *HistoryEstimator) EstimateTravel(ctx context.Context,
	_ Location,
	day time.Weekday,
	departure time.Time) (*TravelEstimate, error) {

	daySeconds := departure.Hour()*3600 + departure.Minute()*60 + departure.Second()
	series, err := h.source.WaitRecords(ctx, waitdata.TravelTime, day, 0, daySeconds)
	if err != nil {
		return nil, fmt.Errorf("querying travel history for day %d: %w", day, err)
	}
	record := waitdata.LatestRecordAtOrBefore(series, daySeconds)
	if record == nil {
		return nil, fmt.Errorf("no travel history at or before %d seconds on day %d", daySeconds, day)
	}
	return &TravelEstimate{
		DurationSeconds: record.MeanSeconds,
		StdDevSeconds:   record.StdDevSeconds,
	}, nil
}
