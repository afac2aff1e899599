package planner

import (
	"context"
	"encoding/json"
	"errors"
	logger "log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/airsidetools/departcast/business/data/flyers"
	"github.com/airsidetools/departcast/business/scheduler"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
)

//defaultHttpHandler simple default http handler for default route
type defaultHttpHandler struct {
}

//ServeHTTP implements defaultHttpHandler http.Handler interface
func (h *defaultHttpHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Add("Application-Status", "OK")
}

//scheduleHandler responds to departure scheduling requests
type scheduleHandler struct {
	log       *logger.Logger
	scheduler *scheduler.Scheduler
	publisher *pickupPublisher
	now       func() time.Time
}

//makeScheduleHandler scheduleHandler factory. publisher may be nil when no nats destination is
//configured
func makeScheduleHandler(log *logger.Logger,
	sched *scheduler.Scheduler,
	publisher *pickupPublisher) *scheduleHandler {
	return &scheduleHandler{
		log:       log,
		scheduler: sched,
		publisher: publisher,
		now:       time.Now,
	}
}

//errorResponse is the structured error body naming the failed stage and why
type errorResponse struct {
	Error  string          `json:"error"`
	Stage  scheduler.Stage `json:"stage,omitempty"`
	Detail string          `json:"detail,omitempty"`
}

//ServeHTTP implements scheduleHandler's http.Handler interface
func (s *scheduleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var profile scheduler.TravelerProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		s.log.Printf("rejecting unparseable schedule request: %v", err)
		s.writeError(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Detail: err.Error()})
		return
	}
	if profile.RequestedAt.IsZero() {
		profile.RequestedAt = s.now()
	}

	recommendation, err := s.scheduler.Schedule(r.Context(), &profile)
	if err != nil {
		s.writeScheduleError(w, &profile, err)
		return
	}

	if s.publisher != nil {
		s.publisher.publish(&PickupRecommendation{
			FlightNumber:       profile.FlightNumber,
			Origin:             profile.Origin,
			PickupTime:         recommendation.DepartAt,
			DegradedConfidence: recommendation.DegradedConfidence,
		})
	}
	s.writeJSON(w, http.StatusOK, recommendation)
}

//writeScheduleError maps pipeline failures onto status codes: infeasible requests are
//unprocessable, missing data is a service availability problem, anything else is a bad request
func (s *scheduleHandler) writeScheduleError(w http.ResponseWriter, profile *scheduler.TravelerProfile, err error) {
	var infeasible *scheduler.InfeasibleError
	if errors.As(err, &infeasible) {
		s.log.Printf("no safe schedule for flight %d: %v", profile.FlightNumber, err)
		s.writeError(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  "infeasible",
			Stage:  infeasible.Stage,
			Detail: err.Error(),
		})
		return
	}
	var unavailable *scheduler.DataUnavailableError
	if errors.As(err, &unavailable) {
		s.log.Printf("data unavailable for flight %d: %v", profile.FlightNumber, err)
		s.writeError(w, http.StatusServiceUnavailable, errorResponse{
			Error:  "data_unavailable",
			Stage:  unavailable.Stage,
			Detail: err.Error(),
		})
		return
	}
	s.log.Printf("rejecting invalid schedule request for flight %d: %v", profile.FlightNumber, err)
	s.writeError(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Detail: err.Error()})
}

func (s *scheduleHandler) writeError(w http.ResponseWriter, status int, body errorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Printf("Error writing json error response: %s", err)
	}
}

func (s *scheduleHandler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		s.log.Printf("Error marshaling response to json: error:%v\n", err)
		http.Error(w, "Error serving request", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	byteCount, err := w.Write(jsonData)
	if err != nil {
		s.log.Printf("Error writing json response: %s", err)
		return
	}
	s.log.Printf("wrote %d bytes in json response.", byteCount)
}

//flyerListHandler serves the flyer population for one flight
type flyerListHandler struct {
	log *logger.Logger
	db  *sqlx.DB
}

//ServeHTTP implements flyerListHandler's http.Handler interface
func (f *flyerListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flightNumberString := mux.Vars(r)["flightNumber"]
	flightNumber, err := strconv.Atoi(flightNumberString)
	if err != nil {
		http.Error(w, "flight number must be numeric", http.StatusBadRequest)
		return
	}
	flyerList, err := flyers.GetFlyersForFlight(f.db, flightNumber)
	if err != nil {
		f.log.Printf("Error retrieving flyers for flight %d: error:%v", flightNumber, err)
		http.Error(w, "Error serving request", http.StatusInternalServerError)
		return
	}
	jsonData, err := json.Marshal(flyerList)
	if err != nil {
		f.log.Printf("Error marshaling flyers to json: error:%v", err)
		http.Error(w, "Error serving request", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err = w.Write(jsonData); err != nil {
		f.log.Printf("Error writing json response: %s", err)
	}
}

//createServer creates configured http.Server for responding to departure schedule requests
func createServer(log *logger.Logger,
	db *sqlx.DB,
	sched *scheduler.Scheduler,
	publisher *pickupPublisher,
	httpPort int) *http.Server {

	scheduleService := makeScheduleHandler(log, sched, publisher)

	r := mux.NewRouter()
	r.Handle("/", &defaultHttpHandler{})
	r.Handle("/schedule", scheduleService).Methods(http.MethodPost)
	r.Handle("/flights/{flightNumber}/flyers", &flyerListHandler{log: log, db: db}).Methods(http.MethodGet)
	srv := &http.Server{
		Addr: strings.Join([]string{"0.0.0.0", strconv.Itoa(httpPort)}, ":"),
		// Good practice to set timeouts to avoid Slowloris attacks.
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      r,
	}
	return srv
}

//runWebService starts up the schedule web service, and terminates on shutdown signal
func runWebService(log *logger.Logger,
	wg *sync.WaitGroup,
	db *sqlx.DB,
	sched *scheduler.Scheduler,
	publisher *pickupPublisher,
	httpPort int,
	shutdownSignal chan bool,
) {
	wg.Add(1)
	defer wg.Done()
	srv := createServer(log, db, sched, publisher, httpPort)
	log.Printf("Starting server on port %d", httpPort)
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			log.Printf("server ListenAndServe ended. %s", err)
		}
	}()
	shutdownCtx, serverCancelFunc := context.WithTimeout(context.Background(), time.Duration(5)*time.Second)
	defer serverCancelFunc()

	<-shutdownSignal
	log.Printf("ending webservice on shutdown signal")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("error shutting down webservice, error:%s", err)
	}
}
