package scheduler

import (
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

//airportHolidayCalendar holds the holidays observed by the airport, used to pick which day's
//historical data a scheduling request should consult
type airportHolidayCalendar struct {
	calendar *cal.BusinessCalendar
}

//makeAirportHolidayCalendar builds airportHolidayCalendar
//TODO:: should be customizable per airport rather than being hardcoded as it is now.
func makeAirportHolidayCalendar() *airportHolidayCalendar {
	calendar := cal.NewBusinessCalendar()
	calendar.AddHoliday(
		us.NewYear,
		us.MlkDay,
		us.MemorialDay,
		us.IndependenceDay,
		us.LaborDay,
		us.ThanksgivingDay,
		us.ChristmasDay,
		us.Juneteenth,
	)
	return &airportHolidayCalendar{calendar: calendar}
}

//scheduleDay returns the day of week whose historical data applies at "at".
//Traffic on an observed holiday behaves like a Sunday regardless of the actual weekday
func (a *airportHolidayCalendar) scheduleDay(at time.Time) time.Weekday {
	_, observed, _ := a.calendar.IsHoliday(at)
	if observed {
		return time.Sunday
	}
	return at.Weekday()
}
