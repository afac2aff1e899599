// Package planner hosts the departure planning service: an http endpoint that computes the
// latest safe departure for a traveler profile, and a nats feed of the resulting pickup times
// for the visualization front end.
package planner

import (
	logger "log"
	"os"
	"sync"
	"time"

	"github.com/airsidetools/departcast/business/data/waitdata"
	"github.com/airsidetools/departcast/business/routing"
	"github.com/airsidetools/departcast/business/scheduler"
	"github.com/jmoiron/sqlx"
	"github.com/nats-io/nats.go"
)

// Conf contains all configurable parameters in planner
type Conf struct {
	HttpPort      int
	PickupSubject string
	//RoutingProviderUrl selects the remote routing provider. Empty falls back to the
	//historical travel table in the database
	RoutingProviderUrl    string
	RoutingProviderKey    string
	RoutingTimeoutSeconds int
	SchedulerConf         scheduler.Conf
}

// Run starts the departure planning service and blocks until shutdownSignal
func Run(log *logger.Logger,
	db *sqlx.DB,
	natsConn *nats.Conn,
	shutdownSignal chan os.Signal,
	conf Conf) error {

	source := waitdata.MakeDBSource(db)

	var travelEstimator routing.Estimator
	if conf.RoutingProviderUrl != "" {
		log.Printf("using routing provider at %s", conf.RoutingProviderUrl)
		travelEstimator = routing.MakeProviderClient(conf.RoutingProviderUrl, conf.RoutingProviderKey,
			time.Duration(conf.RoutingTimeoutSeconds)*time.Second)
	} else {
		log.Printf("no routing provider configured, using historical travel table")
		travelEstimator = routing.MakeHistoryEstimator(source)
	}

	sched := scheduler.MakeScheduler(log, source, travelEstimator,
		scheduler.MakeDefaultWalkTimes(), conf.SchedulerConf)

	var publisher *pickupPublisher
	if natsConn != nil {
		publisher = makePickupPublisher(log, natsConn, conf.PickupSubject)
	}

	wg := sync.WaitGroup{}
	webServiceShutdown := make(chan bool, 1)
	go runWebService(log, &wg, db, sched, publisher, conf.HttpPort, webServiceShutdown)

	<-shutdownSignal
	log.Printf("Exiting on shutdown signal, shutting down web service")
	webServiceShutdown <- true
	wg.Wait()
	log.Printf("Web service shut down, exiting planner")
	return nil
}
