package formatting

// pluralize выбирает форму слова для числа: 1 минута, 2 минуты, 5 минут
func pluralize(count int, one, few, many string) string {
	if count < 0 {
		count = -count
	}
	if count%10 == 1 && count%100 != 11 {
		return one
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return few
	}
	return many
}

// PluralizeMinutes возвращает правильное склонение слова "минута"
func PluralizeMinutes(count int) string {
	return pluralize(count, "минута", "минуты", "минут")
}

// PluralizeTasks возвращает правильное склонение слова "задача"
func PluralizeTasks(count int) string {
	return pluralize(count, "задача", "задачи", "задач")
}

// PluralizeEntries возвращает правильное склонение слова "запись"
func PluralizeEntries(count int) string {
	return pluralize(count, "запись", "записи", "записей")
}
