// Package flyergen builds randomized flyer populations for departure planner trials and
// records or prints them.
package flyergen

import (
	"encoding/json"
	"fmt"
	"io"
	logger "log"
	"math/rand"

	"github.com/airsidetools/departcast/business/data/flyers"
	"github.com/jmoiron/sqlx"
)

//FlightManifest describes one flight to populate with flyers
type FlightManifest struct {
	FlightNumber int
	//SeatCount is how many flyers to generate for the flight
	SeatCount int
	//BaggagePercent is the percent chance each flyer checks a bag
	BaggagePercent int
	//AssistancePercent is the percent chance each flyer needs assistance
	AssistancePercent int
	Aircraft          string
}

//DefaultManifests returns the standard trial departure bank
func DefaultManifests() []FlightManifest {
	return []FlightManifest{
		{FlightNumber: 1560, SeatCount: 149, BaggagePercent: 35, AssistancePercent: 5, Aircraft: "md88"},
		{FlightNumber: 1159, SeatCount: 149, BaggagePercent: 30, AssistancePercent: 2, Aircraft: "md88"},
		{FlightNumber: 906, SeatCount: 180, BaggagePercent: 50, AssistancePercent: 3, Aircraft: "757-200"},
		{FlightNumber: 2393, SeatCount: 182, BaggagePercent: 25, AssistancePercent: 3, Aircraft: "321"},
		{FlightNumber: 2299, SeatCount: 180, BaggagePercent: 33, AssistancePercent: 2, Aircraft: "737-900"},
		{FlightNumber: 74, SeatCount: 110, BaggagePercent: 61, AssistancePercent: 2, Aircraft: "717-200"},
		{FlightNumber: 2623, SeatCount: 180, BaggagePercent: 32, AssistancePercent: 3, Aircraft: "737-900"},
		{FlightNumber: 1241, SeatCount: 149, BaggagePercent: 38, AssistancePercent: 3, Aircraft: "md88"},
		{FlightNumber: 1814, SeatCount: 180, BaggagePercent: 31, AssistancePercent: 2, Aircraft: "737-900"},
		{FlightNumber: 1862, SeatCount: 149, BaggagePercent: 28, AssistancePercent: 4, Aircraft: "md88"},
	}
}

//Generator produces flyers with ids sequential across every flight it populates
type Generator struct {
	rng    *rand.Rand
	nextId int64
}

//MakeGenerator Generator factory. The same seed reproduces the same population
func MakeGenerator(seed int64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

//coinflip returns true pSuccess percent of the time
func (g *Generator) coinflip(pSuccess int) bool {
	return g.rng.Intn(101) < pSuccess
}

//serviceClass picks a rideshare preference, weighted toward the standard service
func (g *Generator) serviceClass() flyers.ServiceClass {
	if g.coinflip(50) {
		return flyers.ServiceStandard
	}
	if g.coinflip(30) {
		return flyers.ServicePlus
	}
	return flyers.ServiceLine
}

//GenerateFlyers builds the flyer population for one flight manifest
func (g *Generator) GenerateFlyers(manifest FlightManifest) []*flyers.Flyer {
	flyerList := make([]*flyers.Flyer, 0, manifest.SeatCount)
	for i := 0; i < manifest.SeatCount; i++ {
		flyer := flyers.Flyer{
			FlyerId:        g.nextId,
			FlightNumber:   manifest.FlightNumber,
			HasBaggage:     g.coinflip(manifest.BaggagePercent),
			NeedAssistance: g.coinflip(manifest.AssistancePercent),
			ServiceClass:   g.serviceClass(),
		}
		g.nextId++
		flyerList = append(flyerList, &flyer)
	}
	return flyerList
}

//PrintFlyers writes the populations for every manifest as indented json, one array per flight
func PrintFlyers(w io.Writer, generator *Generator, manifests []FlightManifest) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "    ")
	for _, manifest := range manifests {
		if err := encoder.Encode(generator.GenerateFlyers(manifest)); err != nil {
			return fmt.Errorf("encoding flyers for flight %d: %w", manifest.FlightNumber, err)
		}
	}
	return nil
}

//LoadFlyers generates and records the populations for every manifest
func LoadFlyers(log *logger.Logger, db *sqlx.DB, generator *Generator, manifests []FlightManifest) error {
	for _, manifest := range manifests {
		flyerList := generator.GenerateFlyers(manifest)
		if err := flyers.RecordFlyers(db, flyerList); err != nil {
			return fmt.Errorf("recording flyers for flight %d: %w", manifest.FlightNumber, err)
		}
		log.Printf("flyergen: recorded %d flyers for flight %d (%s)",
			len(flyerList), manifest.FlightNumber, manifest.Aircraft)
	}
	return nil
}
