package polygon

import (
	"time"
	_ "time/tzdata"
)

var newYork = mustLoadLocation("America/New_York")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// InRegularHours reports whether a bar starting at t falls in the US equities
// regular session, 09:30 to 16:00 New York time on weekdays. Exchange holidays
// have no bars upstream, so they need no calendar here.
func InRegularHours(t time.Time) bool {
	local := t.In(newYork)
	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	mins := local.Hour()*60 + local.Minute()
	return mins >= 9*60+30 && mins < 16*60
}
