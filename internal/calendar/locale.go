package calendar

import "github.com/habitpulse/habitpulse/internal/models"

// names holds the month and weekday name tables for one locale.
// Weekday names are Sunday-first to match the grid layout.
type names struct {
	months [12]string
	days   [7]string
}

var localeTables = map[models.Locale]names{
	models.LocaleEN: {
		months: [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
		days:   [7]string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"},
	},
	models.LocaleUK: {
		months: [12]string{"Січ", "Лют", "Бер", "Кві", "Тра", "Чер", "Лип", "Сер", "Вер", "Жов", "Лис", "Гру"},
		days:   [7]string{"Нд", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"},
	},
}

// localeNames returns the name tables for a locale, falling back to English.
func localeNames(loc models.Locale) names {
	if n, ok := localeTables[loc]; ok {
		return n
	}
	return localeTables[models.LocaleEN]
}
