package unisis

import "time"

// Meals holds the three meal slots of one day for one cafeteria. Each
// value is a normalized comma-joined list of dish names; empty string
// means "no data yet".
type Meals struct {
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Dinner    string `json:"dinner"`
}

// WeekSchedule maps every weekday to its meals. A schedule always
// carries all seven keys so consumers never have to nil-check days.
type WeekSchedule map[Weekday]Meals

func NewWeekSchedule() WeekSchedule {
	schedule := make(WeekSchedule, len(Weekdays))
	for _, day := range Weekdays {
		schedule[day] = Meals{}
	}
	return schedule
}

// MenuSnapshot is one fetched-and-parsed weekly menu. A snapshot is
// immutable once produced; a new fetch fully replaces the previous
// snapshot, there is no partial merge.
type MenuSnapshot struct {
	Staff       WeekSchedule `json:"staff"`
	Dormitory   WeekSchedule `json:"dormitory"`
	LastUpdated time.Time    `json:"lastUpdated"`
}

func (s MenuSnapshot) Cafeteria(kind CafeteriaKind) WeekSchedule {
	if kind == StaffCafeteria {
		return s.Staff
	}
	return s.Dormitory
}
