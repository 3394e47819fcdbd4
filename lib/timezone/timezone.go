package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Europe/Istanbul")
	if err != nil {
		panic(err)
	}
}

// force the clock into the portal's timezone because the host is not
// guaranteed to run in the same region as the university, and "today's
// menu" must resolve against the portal's wall clock, not the server's
func Now() time.Time {
	return time.Now().In(Location)
}
