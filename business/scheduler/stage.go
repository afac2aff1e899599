// Package scheduler computes the latest safe departure time for an airport traveler.
// Starting from a fixed boarding time it walks backward through the stages of the journey
// (terminal and gate walks, security, check-in and bag drop, rideshare travel), at each stage
// consulting historical duration data for the latest stage start that still meets the
// downstream deadline.
package scheduler

import (
	"fmt"
	"time"

	"github.com/airsidetools/departcast/business/routing"
)

// Stage identifies one leg of the backward scheduling pipeline
type Stage string

const (
	StageTerminalWalk Stage = "terminal-walk"
	StageSecurity     Stage = "security"
	StageCheckIn      Stage = "checkin-bagdrop"
	StageTravel       Stage = "travel"
	StageFinal        Stage = "final-adjustments"
)

// TravelerProfile is the immutable input to one scheduling request
type TravelerProfile struct {
	FlightNumber int `json:"flight_number"`
	//BoardingTime is the instant boarding begins, in the airport's location
	BoardingTime time.Time `json:"boarding_time"`
	//Terminal and Gate may be empty when unknown, in which case worst case walk times apply
	Terminal string `json:"terminal"`
	Gate     string `json:"gate"`
	//HasBaggage selects whether bag drop time is added to check-in time
	HasBaggage bool `json:"has_baggage"`
	//NeedAssistance indicates the traveler requires additional help moving through the airport
	NeedAssistance bool `json:"need_assistance"`
	//ExtraTime is how long the traveler wants at the airport beyond the minimum
	ExtraTime time.Duration `json:"extra_time"`
	//Origin is where the rideshare picks the traveler up
	Origin routing.Location `json:"origin"`
	//RequestedAt is the caller's clock reading, the earliest instant departure is possible
	RequestedAt time.Time `json:"requested_at"`
}

// StageResult is one stage's resolved latest safe start, which becomes the next stage's deadline
type StageResult struct {
	Stage Stage `json:"stage"`
	//At is the latest instant the stage can start and still meet its deadline
	At time.Time `json:"at"`
	//DurationSeconds is the duration the stage accounted for, variability margin included
	DurationSeconds float64 `json:"duration_seconds"`
	//MarginApplied is false when the stage's data carried no standard deviation and the
	//variability margin was omitted, a degraded confidence signal
	MarginApplied bool `json:"margin_applied"`
}

// ScheduleRecommendation is the pipeline's final output
type ScheduleRecommendation struct {
	//DepartAt is the recommended departure instant from the origin
	DepartAt time.Time `json:"depart_at"`
	//DegradedConfidence is true when any stage omitted its variability margin
	DegradedConfidence bool `json:"degraded_confidence"`
	//Stages holds every stage result in pipeline order, boarding side first
	Stages []StageResult `json:"stages"`
}

// InfeasibleError reports that no historical record or routing estimate satisfies a stage's
// deadline, meaning no safe schedule exists for the request
type InfeasibleError struct {
	Stage    Stage
	Deadline time.Time
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("no %s start satisfies deadline %s", e.Stage, e.Deadline.Format(time.RFC3339))
}

// DataUnavailableError reports that a stage's data source could not be consulted, distinct from
// data that exists but satisfies no deadline
type DataUnavailableError struct {
	Stage Stage
	Err   error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("%s data unavailable: %v", e.Stage, e.Err)
}

func (e *DataUnavailableError) Unwrap() error {
	return e.Err
}
