package scheduler

import (
	"context"
	"errors"
	"fmt"
	logger "log"
	"time"

	"github.com/airsidetools/departcast/business/data/waitdata"
	"github.com/airsidetools/departcast/business/routing"
)

// BufferPolicy selects how the final safety adjustment is made
type BufferPolicy string

const (
	//BufferPolicySubtract subtracts a fixed safety buffer from the departure time
	BufferPolicySubtract BufferPolicy = "subtract"
	//BufferPolicyBoardingGrace treats boarding time itself as having slack, no buffer subtracted.
	//Mutually exclusive with BufferPolicySubtract, never composed
	BufferPolicyBoardingGrace BufferPolicy = "boarding-grace"
)

// Conf contains all configurable parameters in the scheduler
type Conf struct {
	BufferPolicy BufferPolicy
	//SafetyBufferSeconds is the restroom and running-late margin under BufferPolicySubtract
	SafetyBufferSeconds int
	//AssistancePadSeconds is subtracted for travelers needing mobility assistance
	AssistancePadSeconds int
	//FallbackToWorstCase substitutes worst case constants when a data source is unavailable.
	//Off by default: callers must opt in to degraded answers
	FallbackToWorstCase      bool
	WorstCaseSecuritySeconds int
	WorstCaseCheckInSeconds  int
	WorstCaseTravelSeconds   int
	//TravelProbeIntervalSeconds is how far the travel search steps back per probe
	TravelProbeIntervalSeconds int
	MaxTravelProbes            int
}

// Scheduler runs the backward scheduling pipeline. Stateless across requests: independent
// requests may run concurrently against the same Scheduler
type Scheduler struct {
	log       *logger.Logger
	source    waitdata.Source
	travel    *travelEstimator
	walkTimes *WalkTimes
	calendar  *airportHolidayCalendar
	conf      Conf
}

// MakeScheduler builds Scheduler over the historical wait source and routing estimator
func MakeScheduler(log *logger.Logger,
	source waitdata.Source,
	travelEstimator routing.Estimator,
	walkTimes *WalkTimes,
	conf Conf) *Scheduler {

	probeInterval := time.Duration(conf.TravelProbeIntervalSeconds) * time.Second
	if probeInterval <= 0 {
		probeInterval = 5 * time.Minute
	}
	maxProbes := conf.MaxTravelProbes
	if maxProbes <= 0 {
		maxProbes = 20
	}
	return &Scheduler{
		log:       log,
		source:    source,
		travel:    makeTravelEstimator(travelEstimator, probeInterval, maxProbes),
		walkTimes: walkTimes,
		calendar:  makeAirportHolidayCalendar(),
		conf:      conf,
	}
}

// loadDaySnapshot reads the day's wait history into an immutable snapshot so one request never
// observes a concurrent refresh between stages. A failed read is tolerated when worst case
// fallback is on: the affected stage then reports its own data as unavailable
func (s *Scheduler) loadDaySnapshot(ctx context.Context,
	day time.Weekday,
	hasBaggage bool) (*waitdata.Snapshot, error) {

	kinds := []struct {
		kind  waitdata.StageKind
		stage Stage
	}{
		{waitdata.SecurityWait, StageSecurity},
		{waitdata.CheckInWait, StageCheckIn},
		{waitdata.BagDropWait, StageCheckIn},
	}
	var all []waitdata.WaitRecord
	for _, k := range kinds {
		if k.kind == waitdata.BagDropWait && !hasBaggage {
			continue
		}
		records, err := s.source.WaitRecords(ctx, k.kind, day, 0, secondsPerDay)
		if err != nil {
			if !s.conf.FallbackToWorstCase {
				return nil, &DataUnavailableError{Stage: k.stage, Err: err}
			}
			s.log.Printf("ignoring failed %s history read, worst case fallback is on: %v", k.kind, err)
			continue
		}
		all = append(all, records...)
	}
	return waitdata.MakeSnapshot(all), nil
}

// Schedule computes a ScheduleRecommendation for profile, or the error of the first stage that
// fails. The pipeline runs strictly backward: each stage's latest safe start becomes the next
// stage's deadline, so no stage can compensate for an upstream failure
func (s *Scheduler) Schedule(ctx context.Context, profile *TravelerProfile) (*ScheduleRecommendation, error) {
	if err := validateProfile(profile, s.conf.BufferPolicy); err != nil {
		return nil, err
	}
	day := s.calendar.scheduleDay(profile.BoardingTime)
	serviceDate := Get12AmTime(profile.BoardingTime)

	snapshot, err := s.loadDaySnapshot(ctx, day, profile.HasBaggage)
	if err != nil {
		return nil, err
	}

	walk := resolveSecurityDeadline(profile, s.walkTimes)
	stages := []StageResult{walk}

	security, err := latestSecurityEntry(ctx, snapshot, day, serviceDate, walk.At)
	if err != nil {
		if security, err = s.worstCaseStage(err, StageSecurity, walk.At, s.conf.WorstCaseSecuritySeconds); err != nil {
			return nil, err
		}
	}
	stages = append(stages, *security)

	checkIn, err := latestCheckInArrival(ctx, snapshot, day, serviceDate, security.At, profile.HasBaggage)
	if err != nil {
		if checkIn, err = s.worstCaseStage(err, StageCheckIn, security.At, s.conf.WorstCaseCheckInSeconds); err != nil {
			return nil, err
		}
	}
	stages = append(stages, *checkIn)

	travel, err := s.travel.latestDeparture(ctx, profile.Origin, day, checkIn.At, profile.RequestedAt)
	if err != nil {
		if travel, err = s.worstCaseStage(err, StageTravel, checkIn.At, s.conf.WorstCaseTravelSeconds); err != nil {
			return nil, err
		}
		if travel.At.Before(profile.RequestedAt) {
			return nil, &InfeasibleError{Stage: StageTravel, Deadline: checkIn.At}
		}
	}
	stages = append(stages, *travel)

	final := s.finalAdjustments(profile, travel.At)
	stages = append(stages, final)

	recommendation := ScheduleRecommendation{
		DepartAt: final.At,
		Stages:   stages,
	}
	for _, stage := range stages {
		if !stage.MarginApplied {
			recommendation.DegradedConfidence = true
		}
	}
	return &recommendation, nil
}

// finalAdjustments applies the assistance padding and the configured buffer policy to the latest
// departure from the travel stage. Assistance padding is applied here rather than in a single leg
// because it widens the aggregate risk margin, not one physical walk
func (s *Scheduler) finalAdjustments(profile *TravelerProfile, departAt time.Time) StageResult {
	adjustedSeconds := 0
	if profile.NeedAssistance {
		adjustedSeconds += s.conf.AssistancePadSeconds
	}
	if s.conf.BufferPolicy == BufferPolicySubtract {
		adjustedSeconds += s.conf.SafetyBufferSeconds
	}
	return StageResult{
		Stage:           StageFinal,
		At:              departAt.Add(-time.Duration(adjustedSeconds) * time.Second),
		DurationSeconds: float64(adjustedSeconds),
		MarginApplied:   true,
	}
}

// worstCaseStage converts a DataUnavailableError into a worst case constant stage result when the
// caller opted in, otherwise the original error propagates
func (s *Scheduler) worstCaseStage(stageErr error,
	stage Stage,
	deadline time.Time,
	worstCaseSeconds int) (*StageResult, error) {

	var unavailable *DataUnavailableError
	if !s.conf.FallbackToWorstCase || !errors.As(stageErr, &unavailable) || worstCaseSeconds <= 0 {
		return nil, stageErr
	}
	s.log.Printf("using worst case %d seconds for %s stage, data unavailable: %v",
		worstCaseSeconds, stage, unavailable.Err)
	return &StageResult{
		Stage:           stage,
		At:              deadline.Add(-time.Duration(worstCaseSeconds) * time.Second),
		DurationSeconds: float64(worstCaseSeconds),
		MarginApplied:   false,
	}, nil
}

// validateProfile rejects requests the pipeline cannot answer meaningfully
func validateProfile(profile *TravelerProfile, policy BufferPolicy) error {
	if policy != BufferPolicySubtract && policy != BufferPolicyBoardingGrace {
		return fmt.Errorf("unknown buffer policy %q", policy)
	}
	if profile.BoardingTime.IsZero() {
		return fmt.Errorf("profile for flight %d has no boarding time", profile.FlightNumber)
	}
	if profile.RequestedAt.IsZero() {
		return fmt.Errorf("profile for flight %d has no request time", profile.FlightNumber)
	}
	if !profile.RequestedAt.Before(profile.BoardingTime) {
		return fmt.Errorf("boarding time %s for flight %d is not after request time %s",
			profile.BoardingTime.Format(time.RFC3339), profile.FlightNumber,
			profile.RequestedAt.Format(time.RFC3339))
	}
	if profile.ExtraTime < 0 {
		return fmt.Errorf("profile for flight %d has negative extra time", profile.FlightNumber)
	}
	return nil
}
