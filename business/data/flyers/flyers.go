// Package flyers provides models and database access for synthetic flyer populations used to
// exercise the departure planner.
package flyers

import (
	"fmt"
	"time"

	"github.com/airsidetools/departcast/foundation/database"
	"github.com/jmoiron/sqlx"
)

// ServiceClass is a flyer's rideshare service preference
type ServiceClass int

const (
	ServiceLine ServiceClass = iota
	ServiceStandard
	ServicePlus
	ServicePremier
	ServiceLux
	ServiceLuxSUV
)

// Flyer is one synthetic traveler on a flight
type Flyer struct {
	FlyerId      int64  `db:"flyer_id" json:"id"`
	FlightNumber int    `db:"flight_number" json:"flightNumber"`
	HasBaggage   bool   `db:"has_baggage" json:"hasBaggage"`
	//NeedAssistance indicates the flyer requires additional help moving through the airport
	NeedAssistance bool `db:"need_assistance" json:"needAssistance"`
	//ExtraTimeSeconds is how long the flyer wants at the airport beyond the minimum
	ExtraTimeSeconds int          `db:"extra_time_seconds" json:"extraTime"`
	ServiceClass     ServiceClass `db:"service_class" json:"servicePreference"`
	//PickupTime is filled in once the planner has computed a recommendation, zero until then
	PickupTime time.Time `db:"pickup_time" json:"pickupTime"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// RecordFlyers saves slice of Flyer into database
func RecordFlyers(db *sqlx.DB, flyerList []*Flyer) error {
	now := time.Now()
	statementString := "insert into flyer " +
		"(flyer_id, " +
		"flight_number, " +
		"has_baggage, " +
		"need_assistance, " +
		"extra_time_seconds, " +
		"service_class, " +
		"pickup_time, " +
		"created_at) " +
		"values " +
		"(:flyer_id, " +
		":flight_number, " +
		":has_baggage, " +
		":need_assistance, " +
		":extra_time_seconds, " +
		":service_class, " +
		":pickup_time, " +
		":created_at)"
	statementString = db.Rebind(statementString)
	for _, flyer := range flyerList {
		flyer.CreatedAt = now
		if _, err := db.NamedExec(statementString, flyer); err != nil {
			return fmt.Errorf("recording flyer %d: %w", flyer.FlyerId, err)
		}
	}
	return nil
}

// GetFlyersForFlight retrieves all flyers on flightNumber ordered by flyer id
func GetFlyersForFlight(db *sqlx.DB, flightNumber int) ([]*Flyer, error) {
	statementString := "select * from flyer where flight_number = :flight_number order by flyer_id"
	rows, err := database.NamedQueryRowsFromMap(statementString, db, map[string]interface{}{
		"flight_number": flightNumber,
	})
	if err != nil {
		return nil, fmt.Errorf("querying flyers for flight %d: %w", flightNumber, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var results []*Flyer
	for rows.Next() {
		var flyer Flyer
		if err = rows.StructScan(&flyer); err != nil {
			return nil, fmt.Errorf("scanning flyer for flight %d: %w", flightNumber, err)
		}
		results = append(results, &flyer)
	}
	return results, rows.Err()
}
