package unisis

import (
	"errors"
	"fmt"
	"strings"

	"unigate-backend/lib/htmlutil"
	"unigate-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// ErrMalformedInput is returned only when the input is empty or cannot
// be parsed as markup at all. A menu that happens to be empty is a
// valid parse result; whether it is good enough is judged downstream.
var ErrMalformedInput = errors.New("menu page is empty or not parseable as markup")

// ParseWeeklyMenu turns the raw weekly menu page into a MenuSnapshot.
// Pure function, no I/O: identical input yields identical output.
//
// The page contains seven day sections keyed by fixed per-weekday
// anchors. Within each section, the table immediately following the
// staff-cafeteria sub-heading and the one following the dormitory
// sub-heading are extracted row by row. Unknown day anchors and
// unknown meal labels are skipped silently so upstream markup drift
// does not break the whole snapshot; an absent section or table just
// leaves that day's fields empty.
func ParseWeeklyMenu(input string) (MenuSnapshot, error) {
	if strings.TrimSpace(input) == "" {
		return MenuSnapshot{}, ErrMalformedInput
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	if err != nil {
		return MenuSnapshot{}, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	snapshot := MenuSnapshot{
		Staff:     NewWeekSchedule(),
		Dormitory: NewWeekSchedule(),
	}
	doc.Find("[id]").Each(func(_ int, section *goquery.Selection) {
		day, ok := matchWeekday(section.AttrOr("id", ""))
		if !ok {
			return
		}
		snapshot.Staff[day] = parseCafeteriaTable(section, StaffCafeteria)
		snapshot.Dormitory[day] = parseCafeteriaTable(section, DormitoryCafeteria)
	})

	return snapshot, nil
}

func parseCafeteriaTable(section *goquery.Selection, kind CafeteriaKind) Meals {
	var meals Meals

	heading := findCafeteriaHeading(section, cafeteriaMarkers[kind])
	if heading == nil {
		return meals
	}
	table := heading.NextAllFiltered("table").First()
	if table.Length() == 0 {
		return meals
	}

	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("th, td")
		if cells.Length() < 2 {
			return
		}
		meal, ok := matchMeal(htmlutil.CellText(cells.First()))
		if !ok {
			return
		}

		text := htmlutil.CellText(cells.Eq(1))
		var value string
		if kind == StaffCafeteria {
			value = FormatStaffCell(text)
		} else {
			value = FormatDormitoryCell(text)
		}

		switch meal {
		case Breakfast:
			meals.Breakfast = value
		case Lunch:
			meals.Lunch = value
		case Dinner:
			meals.Dinner = value
		}
	})

	return meals
}

func findCafeteriaHeading(section *goquery.Selection, markers []string) *goquery.Selection {
	var heading *goquery.Selection
	section.Find("h1, h2, h3, h4, h5, h6").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if textutil.MatchName(sel.Text(), markers) {
			heading = sel
			return false
		}
		return true
	})
	return heading
}
