package model

import "time"

// TimetableEntry одно занятие недельного расписания.
// Время хранится так, как его ввёл пользователь ("8:00 AM"), разбирается при оценке.
type TimetableEntry struct {
	ID        int64        `json:"id"`
	UserID    int64        `json:"user_id"`
	Weekday   time.Weekday `json:"-"`
	Subject   string       `json:"subject"`
	StartTime string       `json:"start_time"`
	EndTime   string       `json:"end_time"`
	Room      string       `json:"room"`
	Professor string       `json:"professor"`
	Type      string       `json:"type"` // Lecture | Laboratory
	CreatedAt time.Time    `json:"created_at"`
}

// TimeRange строка в формате клиента: "8:00 AM - 9:30 AM"
func (e *TimetableEntry) TimeRange() string {
	return e.StartTime + " - " + e.EndTime
}

// SchoolDays дни, для которых хранится расписание
var SchoolDays = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
}

// ParseSchoolDay переводит "Monday".."Friday" в time.Weekday
func ParseSchoolDay(name string) (time.Weekday, bool) {
	for _, d := range SchoolDays {
		if d.String() == name {
			return d, true
		}
	}
	return 0, false
}

// Week расписание, сгруппированное по дням ("Monday" -> занятия)
type Week map[string][]*TimetableEntry

// NewWeek создаёт неделю с пустыми списками на каждый учебный день
func NewWeek() Week {
	w := make(Week, len(SchoolDays))
	for _, d := range SchoolDays {
		w[d.String()] = []*TimetableEntry{}
	}
	return w
}
