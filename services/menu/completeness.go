package menu

import "unigate-backend/lib/scrapers/unisis"

// Completeness policy: a snapshot is retry-worthy only when
// essentially nothing came back, i.e. ALL staff weekdays are unfilled
// AND ALL seven dormitory days are unfilled. Legitimately sparse weeks
// (holidays) are complete under this rule and are never retried.

// a staff day is filled when both served meals are present
func staffFilled(meals unisis.Meals) bool {
	return meals.Lunch != "" && meals.Dinner != ""
}

// a dormitory day is filled only when all three meals are present
func dormitoryFilled(meals unisis.Meals) bool {
	return meals.Breakfast != "" && meals.Lunch != "" && meals.Dinner != ""
}

func incomplete(snapshot unisis.MenuSnapshot) bool {
	for _, day := range unisis.StaffWeekdays {
		if staffFilled(snapshot.Staff[day]) {
			return false
		}
	}
	for _, day := range unisis.Weekdays {
		if dormitoryFilled(snapshot.Dormitory[day]) {
			return false
		}
	}
	return true
}
