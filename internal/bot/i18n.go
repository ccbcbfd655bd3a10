package bot

import (
	"fmt"

	"github.com/habitpulse/habitpulse/internal/models"
)

// menuLabels are the reply-keyboard button captions. The text router treats
// them as command aliases, so they must stay in sync with commandForText.
type menuLabels struct {
	AddHabit   string
	ViewHabits string
	LogHabit   string
	Stats      string
}

// texts holds every user-facing string for one locale. Format fields are
// fmt templates filled in by the flow handlers.
type texts struct {
	Menu menuLabels

	UnableToIdentify string
	RegisterFirst    string
	GenericError     string

	Welcome string // display name

	EnterHabitName     string
	DuplicateHabit     string // habit name
	MonthlyTargetAsk   string // habit name
	YearlyTargetAsk    string // habit name
	InvalidTargetValue string
	HabitCreated       string // habit name
	MonthlyTargetLine  string // value
	YearlyTargetLine   string // value
	CreatedFooter      string

	NoHabitsYet       string
	NoEnabledHabits   string
	SelectHabitDetail string
	SelectHabitToLog  string
	HabitNotFound     string
	NamedHabitMissing string // habit name
	UserNotFound      string

	WhenToLog          string // habit name
	AlreadyLoggedToday string // habit name
	LoggedToday        string // habit name
	EnterCustomDate    string // habit name
	InvalidDate        string
	FutureDate         string
	AlreadyLoggedFor   string // habit name, date
	LoggedFor          string // habit name, date
	LogCancelled       string
	LoggedToast        string
	AlreadyToast       string

	ButtonToday      string
	ButtonCustomDate string

	SetMonthlyAsk        string // habit name
	SetYearlyAsk         string // habit name
	InvalidTargetEdit    string
	MonthlyTargetSet     string // habit name, value
	MonthlyTargetRemoved string // habit name
	YearlyTargetSet      string // habit name, value
	YearlyTargetRemoved  string // habit name

	DetailCreated    string
	DetailLastLogged string
	DetailTargets    string
	DetailPerMonth   string
	DetailPerYear    string
	DetailNotSet     string
	DetailNever      string

	ButtonViewStats   string
	ButtonSetMonthly  string
	ButtonSetYearly   string
	ButtonRemoveHabit string
	HabitRemoved      string // habit name

	StatsHeader      string
	SelectHabitStats string
	ButtonAllHabits  string
	NoLogsForHabit   string
	TotalThisMonth   string // count
	TotalThisYear    string // count
	ButtonPrev       string
	ButtonNavToday   string
	ButtonNext       string
	AlreadyOnView    string

	ReminderHeader     string
	TestReminderHeader string
	ReminderFooter     string
	TestReminderSent   string
}

var localeStrings = map[models.Locale]texts{
	models.LocaleEN: {
		Menu: menuLabels{
			AddHabit:   "➕ Add habit",
			ViewHabits: "📋 View habits",
			LogHabit:   "✅ Log habit",
			Stats:      "📊 Stats",
		},

		UnableToIdentify: "Unable to identify user.",
		RegisterFirst:    "Please use /start first to register.",
		GenericError:     "Sorry, an error occurred. Please try again later.",

		Welcome: "👋 Welcome to Habit Pulse, %s!\n\nI'll help you track your daily habits and stay consistent.\n\n📝 Available commands:\n/add_habit - Create a new habit\n/view_habits - See all your habits\n/log_habit - Log a habit for today\n/stats - View your statistics\n\nLet's build better habits together! 💪",

		EnterHabitName:     "Please enter the name of the habit you want to track:",
		DuplicateHabit:     "You already have a habit named %q. Please choose a different name.",
		MonthlyTargetAsk:   "Great! Now set a monthly target for %q.\n\nHow many times per month do you want to do this habit?\n\nSend a number (e.g., 20) or \"skip\" to set no target.",
		YearlyTargetAsk:    "Now set a yearly target for %q.\n\nHow many times per year do you want to do this habit?\n\nSend a number (e.g., 200) or \"skip\" to set no target.",
		InvalidTargetValue: "Please enter a valid positive number or \"skip\".",
		HabitCreated:       "✅ Habit %q created successfully!",
		MonthlyTargetLine:  "\n📊 Monthly target: %d",
		YearlyTargetLine:   "\n📊 Yearly target: %d",
		CreatedFooter:      "\n\nYou can now log it with /log_habit",

		NoHabitsYet:       "You don't have any habits yet. Use /add_habit to create one!",
		NoEnabledHabits:   "You don't have any active habits. Use /add_habit to create one!",
		SelectHabitDetail: "📋 Select a habit to view details:",
		SelectHabitToLog:  "Select a habit to log:",
		HabitNotFound:     "Habit not found.",
		NamedHabitMissing: "Habit %q not found.",
		UserNotFound:      "User not found.",

		WhenToLog:          "📊 <b>%s</b>\n\nWhen do you want to log this habit?",
		AlreadyLoggedToday: "⚠️ %q was already logged today.\n\nUse /log_habit to log another habit.",
		LoggedToday:        "✅ Logged %q for today!\n\nGreat job staying consistent! 💪\n\nUse /log_habit to log another habit or /stats to see your progress.",
		EnterCustomDate:    "📅 Enter the date for <b>%s</b>\n\nFormat: DD.MM.YYYY (e.g., 01.02.2026)\n\nOr send \"cancel\" to go back.",
		InvalidDate:        "Invalid date. Please use DD.MM.YYYY (e.g., 01.02.2026)\n\nOr send \"cancel\" to go back.",
		FutureDate:         "You cannot log for a future date. Please enter a date from today or earlier.\n\nOr send \"cancel\" to go back.",
		AlreadyLoggedFor:   "⚠️ %q was already logged for %s.\n\nUse /log_habit to log another habit.",
		LoggedFor:          "✅ Logged %q for %s!\n\nGreat job staying consistent! 💪\n\nUse /log_habit to log another habit or /stats to see your progress.",
		LogCancelled:       "Cancelled. Use /log_habit to try again.",
		LoggedToast:        "Logged successfully! 🎉",
		AlreadyToast:       "Already logged today.",

		ButtonToday:      "📅 Today",
		ButtonCustomDate: "📆 Custom Date",

		SetMonthlyAsk:        "Set monthly target for <b>%s</b>\n\nHow many times per month?\n\nSend a number or \"0\" to remove the target.",
		SetYearlyAsk:         "Set yearly target for <b>%s</b>\n\nHow many times per year?\n\nSend a number or \"0\" to remove the target.",
		InvalidTargetEdit:    "Please enter a valid number (0 or higher).",
		MonthlyTargetSet:     "✅ Monthly target for %q set to %d!\n\nUse /view_habits to see updated details.",
		MonthlyTargetRemoved: "✅ Monthly target for %q removed!\n\nUse /view_habits to see updated details.",
		YearlyTargetSet:      "✅ Yearly target for %q set to %d!\n\nUse /view_habits to see updated details.",
		YearlyTargetRemoved:  "✅ Yearly target for %q removed!\n\nUse /view_habits to see updated details.",

		DetailCreated:    "Created",
		DetailLastLogged: "Last logged",
		DetailTargets:    "Targets",
		DetailPerMonth:   "Per month",
		DetailPerYear:    "Per year",
		DetailNotSet:     "Not set",
		DetailNever:      "Never",

		ButtonViewStats:   "📊 View Stats",
		ButtonSetMonthly:  "📊 Set Monthly Target",
		ButtonSetYearly:   "📈 Set Yearly Target",
		ButtonRemoveHabit: "🗑 Remove Habit",
		HabitRemoved:      "🗑 Habit %q removed.\n\nUse /view_habits to see remaining habits.",

		StatsHeader:      "📊 Your Statistics:\n\n",
		SelectHabitStats: "📊 Select a habit to view stats:",
		ButtonAllHabits:  "📊 All Habits",
		NoLogsForHabit:   "No logs yet for this habit.\nUse /log_habit to start tracking!\n",
		TotalThisMonth:   "<b>Total this month: %d</b>\n",
		TotalThisYear:    "<b>Total this year: %d</b>\n",
		ButtonPrev:       "◀️ Prev",
		ButtonNavToday:   "Today",
		ButtonNext:       "Next ▶️",
		AlreadyOnView:    "Already on current view",

		ReminderHeader:     "⏰ Daily Reminder!\n\nDon't forget to log your habits today:\n\n",
		TestReminderHeader: "⏰ Test Daily Reminder!\n\nThis is a test notification. Your habits are:\n\n",
		ReminderFooter:     "\nUse /log_habit to track your progress! 💪",
		TestReminderSent:   "✅ Test reminder sent!",
	},
	models.LocaleUK: {
		Menu: menuLabels{
			AddHabit:   "➕ Додати звичку",
			ViewHabits: "📋 Мої звички",
			LogHabit:   "✅ Записати звичку",
			Stats:      "📊 Статистика",
		},

		UnableToIdentify: "Не вдалося визначити користувача.",
		RegisterFirst:    "Спершу зареєструйся через /start.",
		GenericError:     "Вибач, сталася помилка. Спробуй пізніше.",

		Welcome: "👋 Вітаю в Habit Pulse, %s!\n\nЯ допоможу тобі відстежувати звички та рухатись вперед.\n\n📝 Доступні команди:\n/add_habit - Створити нову звичку\n/view_habits - Переглянути твої звички\n/log_habit - Записати звичку за сьогодні\n/stats - Переглянути статистику\n\nРазом до кращих звичок! 💪",

		EnterHabitName:     "Введи назву звички, яку хочеш відстежувати:",
		DuplicateHabit:     "У тебе вже є звичка з назвою %q. Обери іншу назву.",
		MonthlyTargetAsk:   "Чудово! Тепер встанови місячну ціль для %q.\n\nСкільки разів на місяць ти хочеш виконувати цю звичку?\n\nНадішли число (напр., 20) або \"skip\", щоб не ставити ціль.",
		YearlyTargetAsk:    "Тепер встанови річну ціль для %q.\n\nСкільки разів на рік ти хочеш виконувати цю звичку?\n\nНадішли число (напр., 200) або \"skip\", щоб не ставити ціль.",
		InvalidTargetValue: "Введи додатне число або \"skip\".",
		HabitCreated:       "✅ Звичку %q створено!",
		MonthlyTargetLine:  "\n📊 Місячна ціль: %d",
		YearlyTargetLine:   "\n📊 Річна ціль: %d",
		CreatedFooter:      "\n\nТепер її можна записувати через /log_habit",

		NoHabitsYet:       "У тебе ще немає звичок. Створи першу через /add_habit!",
		NoEnabledHabits:   "У тебе немає активних звичок. Створи одну через /add_habit!",
		SelectHabitDetail: "📋 Обери звичку, щоб переглянути деталі:",
		SelectHabitToLog:  "Обери звичку для запису:",
		HabitNotFound:     "Звичку не знайдено.",
		NamedHabitMissing: "Звичку %q не знайдено.",
		UserNotFound:      "Користувача не знайдено.",

		WhenToLog:          "📊 <b>%s</b>\n\nЗа який день записати цю звичку?",
		AlreadyLoggedToday: "⚠️ %q вже записано сьогодні.\n\nВикористай /log_habit, щоб записати іншу звичку.",
		LoggedToday:        "✅ Записано %q за сьогодні!\n\nТак тримати! 💪\n\nВикористай /log_habit для іншої звички або /stats для прогресу.",
		EnterCustomDate:    "📅 Введи дату для <b>%s</b>\n\nФормат: ДД.ММ.РРРР (напр., 01.02.2026)\n\nАбо надішли \"cancel\", щоб повернутись.",
		InvalidDate:        "Некоректна дата. Формат: ДД.ММ.РРРР (напр., 01.02.2026)\n\nАбо надішли \"cancel\", щоб повернутись.",
		FutureDate:         "Не можна записувати на майбутню дату. Введи сьогоднішню або ранішу дату.\n\nАбо надішли \"cancel\", щоб повернутись.",
		AlreadyLoggedFor:   "⚠️ %q вже записано за %s.\n\nВикористай /log_habit, щоб записати іншу звичку.",
		LoggedFor:          "✅ Записано %q за %s!\n\nТак тримати! 💪\n\nВикористай /log_habit для іншої звички або /stats для прогресу.",
		LogCancelled:       "Скасовано. Спробуй ще раз через /log_habit.",
		LoggedToast:        "Записано! 🎉",
		AlreadyToast:       "Вже записано сьогодні.",

		ButtonToday:      "📅 Сьогодні",
		ButtonCustomDate: "📆 Інша дата",

		SetMonthlyAsk:        "Встанови місячну ціль для <b>%s</b>\n\nСкільки разів на місяць?\n\nНадішли число або \"0\", щоб прибрати ціль.",
		SetYearlyAsk:         "Встанови річну ціль для <b>%s</b>\n\nСкільки разів на рік?\n\nНадішли число або \"0\", щоб прибрати ціль.",
		InvalidTargetEdit:    "Введи число (0 або більше).",
		MonthlyTargetSet:     "✅ Місячну ціль для %q встановлено: %d!\n\nДеталі у /view_habits.",
		MonthlyTargetRemoved: "✅ Місячну ціль для %q прибрано!\n\nДеталі у /view_habits.",
		YearlyTargetSet:      "✅ Річну ціль для %q встановлено: %d!\n\nДеталі у /view_habits.",
		YearlyTargetRemoved:  "✅ Річну ціль для %q прибрано!\n\nДеталі у /view_habits.",

		DetailCreated:    "Створено",
		DetailLastLogged: "Останній запис",
		DetailTargets:    "Цілі",
		DetailPerMonth:   "На місяць",
		DetailPerYear:    "На рік",
		DetailNotSet:     "Не задано",
		DetailNever:      "Ніколи",

		ButtonViewStats:   "📊 Статистика",
		ButtonSetMonthly:  "📊 Місячна ціль",
		ButtonSetYearly:   "📈 Річна ціль",
		ButtonRemoveHabit: "🗑 Видалити звичку",
		HabitRemoved:      "🗑 Звичку %q видалено.\n\nРешта звичок у /view_habits.",

		StatsHeader:      "📊 Твоя статистика:\n\n",
		SelectHabitStats: "📊 Обери звичку для статистики:",
		ButtonAllHabits:  "📊 Всі звички",
		NoLogsForHabit:   "Ще немає записів для цієї звички.\nПочни відстежувати через /log_habit!\n",
		TotalThisMonth:   "<b>Разом за місяць: %d</b>\n",
		TotalThisYear:    "<b>Разом за рік: %d</b>\n",
		ButtonPrev:       "◀️ Назад",
		ButtonNavToday:   "Сьогодні",
		ButtonNext:       "Вперед ▶️",
		AlreadyOnView:    "Вже на поточному перегляді",

		ReminderHeader:     "⏰ Щоденне нагадування!\n\nНе забудь записати свої звички сьогодні:\n\n",
		TestReminderHeader: "⏰ Тестове нагадування!\n\nЦе тестове сповіщення. Твої звички:\n\n",
		ReminderFooter:     "\nЗаписуй прогрес через /log_habit! 💪",
		TestReminderSent:   "✅ Тестове нагадування надіслано!",
	},
}

// tr returns the string table for a locale, falling back to English.
func tr(loc models.Locale) texts {
	if s, ok := localeStrings[loc]; ok {
		return s
	}
	return localeStrings[models.LocaleEN]
}

// habitCreatedMessage assembles the creation confirmation with the optional
// target lines.
func habitCreatedMessage(s texts, name string, perMonth, perYear *int) string {
	msg := fmt.Sprintf(s.HabitCreated, name)
	if perMonth != nil {
		msg += fmt.Sprintf(s.MonthlyTargetLine, *perMonth)
	}
	if perYear != nil {
		msg += fmt.Sprintf(s.YearlyTargetLine, *perYear)
	}
	return msg + s.CreatedFooter
}
