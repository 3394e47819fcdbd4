package unisis

import (
	"time"

	"unigate-backend/lib/textutil"
)

type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Weekdays is the fixed set of day identifiers, in portal order
// (the portal's week starts on Monday).
var Weekdays = [7]Weekday{
	Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday,
}

// StaffWeekdays are the days the staff cafeteria serves by upstream
// convention (Monday through Friday, lunch and dinner only).
var StaffWeekdays = [5]Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

type Meal string

const (
	Breakfast Meal = "breakfast"
	Lunch     Meal = "lunch"
	Dinner    Meal = "dinner"
)

type CafeteriaKind string

const (
	StaffCafeteria     CafeteriaKind = "staff"
	DormitoryCafeteria CafeteriaKind = "dormitory"
)

// dayAnchors maps the folded Turkish section anchors on the weekly menu
// page to day identifiers. Unknown anchors are skipped by the parser,
// not treated as errors, so upstream markup drift degrades gracefully.
var dayAnchors = map[string]Weekday{
	"pazartesi": Monday,
	"sali":      Tuesday,
	"carsamba":  Wednesday,
	"persembe":  Thursday,
	"cuma":      Friday,
	"cumartesi": Saturday,
	"pazar":     Sunday,
}

// mealLabels maps folded row labels to meal slots. The label set is the
// same for both cafeteria tables.
var mealLabels = map[string]Meal{
	"kahvalti":    Breakfast,
	"sabah":       Breakfast,
	"ogleyemegi":  Lunch,
	"ogle":        Lunch,
	"aksamyemegi": Dinner,
	"aksam":       Dinner,
}

// cafeteriaMarkers match the sub-heading above each cafeteria's table
// within a day section.
var cafeteriaMarkers = map[CafeteriaKind][]string{
	StaffCafeteria:     {"personel"},
	DormitoryCafeteria: {"yurt", "ogrenci"},
}

func matchWeekday(anchor string) (Weekday, bool) {
	day, ok := dayAnchors[textutil.NormalizeName(anchor)]
	return day, ok
}

func matchMeal(label string) (Meal, bool) {
	meal, ok := mealLabels[textutil.NormalizeName(label)]
	return meal, ok
}

// ParseWeekday validates an external day identifier (the English name).
func ParseWeekday(s string) (Weekday, bool) {
	for _, day := range Weekdays {
		if string(day) == s {
			return day, true
		}
	}
	return "", false
}

// ParseCafeteria validates an external cafeteria kind.
func ParseCafeteria(s string) (CafeteriaKind, bool) {
	switch CafeteriaKind(s) {
	case StaffCafeteria:
		return StaffCafeteria, true
	case DormitoryCafeteria:
		return DormitoryCafeteria, true
	}
	return "", false
}

var goWeekdays = map[time.Weekday]Weekday{
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
	time.Sunday:    Sunday,
}

func WeekdayFromTime(t time.Time) Weekday {
	return goWeekdays[t.Weekday()]
}
