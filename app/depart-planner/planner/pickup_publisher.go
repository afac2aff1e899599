package planner

import (
	"encoding/json"
	"fmt"
	logger "log"
	"time"

	"github.com/airsidetools/departcast/business/routing"
	"github.com/nats-io/nats.go"
)

// PickupRecommendation is the message the visualization front end consumes: where and when the
// rideshare should collect the traveler. Stage traces stay on the http response only
type PickupRecommendation struct {
	FlightNumber       int              `json:"flight_number"`
	Origin             routing.Location `json:"origin"`
	PickupTime         time.Time        `json:"pickup_time"`
	DegradedConfidence bool             `json:"degraded_confidence"`
}

// pickupPublicationDestination is where pickup recommendations are sent after computation
type pickupPublicationDestination interface {
	Publish(recommendation *PickupRecommendation) error
}

// natsPickupPublicationDestination sends pickup recommendations over nats
type natsPickupPublicationDestination struct {
	natsConn      *nats.Conn
	pickupSubject string
}

func (n *natsPickupPublicationDestination) Publish(recommendation *PickupRecommendation) error {
	jsonData, err := json.Marshal(recommendation)
	if err != nil {
		return fmt.Errorf("error marshaling pickup recommendation to json: error:%v", err)
	}
	return n.natsConn.Publish(n.pickupSubject, jsonData)
}

// pickupPublisher publishes computed pickups to a destination, logging rather than failing the
// request when the destination is unreachable
type pickupPublisher struct {
	log         *logger.Logger
	destination pickupPublicationDestination
}

// makePickupPublisher builds pickupPublisher over a nats connection
func makePickupPublisher(log *logger.Logger, natsConn *nats.Conn, pickupSubject string) *pickupPublisher {
	return &pickupPublisher{
		log: log,
		destination: &natsPickupPublicationDestination{
			natsConn:      natsConn,
			pickupSubject: pickupSubject,
		},
	}
}

// publish sends one pickup recommendation, best effort
func (p *pickupPublisher) publish(recommendation *PickupRecommendation) {
	if err := p.destination.Publish(recommendation); err != nil {
		p.log.Printf("Error publishing pickup recommendation for flight %d: error:%v",
			recommendation.FlightNumber, err)
	}
}
