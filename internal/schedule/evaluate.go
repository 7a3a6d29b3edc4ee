package schedule

// Status временное состояние блока относительно текущей минуты
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusOngoing  Status = "ongoing"
	StatusEnded    Status = "ended"
)

// Classify: Ongoing при start <= now <= end (обе границы включительно),
// Upcoming при now < start, иначе Ended
func Classify(b Block, now int) Status {
	switch {
	case now < b.StartMinute:
		return StatusUpcoming
	case now <= b.EndMinute:
		return StatusOngoing
	default:
		return StatusEnded
	}
}

// RemainingMinutes сколько минут осталось до конца блока, не меньше нуля
func RemainingMinutes(b Block, now int) int {
	if left := b.EndMinute - now; left > 0 {
		return left
	}
	return 0
}

// EvaluatedBlock блок вместе с его статусом
type EvaluatedBlock struct {
	Block
	Status Status `json:"status"`
}

// Result результат оценки одного дня. Пересчитывается при каждом вызове Select.
type Result struct {
	Weekday          string           `json:"weekday"`
	Blocks           []EvaluatedBlock `json:"blocks"`
	Current          *Block           `json:"current"`
	Next             *Block           `json:"next"`
	Remaining        []Block          `json:"remaining"`
	RemainingMinutes int              `json:"remaining_minutes"`
}

// Select классифицирует блоки дня и выбирает текущий и следующий.
// Входной Day не изменяется.
func Select(day Day, now int) Result {
	res := Result{
		Weekday:   day.Weekday.String(),
		Blocks:    make([]EvaluatedBlock, 0, len(day.Blocks)),
		Remaining: make([]Block, 0, len(day.Blocks)),
	}

	for _, b := range day.Blocks {
		res.Blocks = append(res.Blocks, EvaluatedBlock{Block: b, Status: Classify(b, now)})
	}

	// Сортировка стабильная: при одинаковом начале сохраняется порядок ввода
	for _, b := range sortedByStart(day.Blocks) {
		switch Classify(b, now) {
		case StatusOngoing:
			if res.Current == nil {
				current := b
				res.Current = &current
			}
			res.Remaining = append(res.Remaining, b)
		case StatusUpcoming:
			if res.Next == nil {
				next := b
				res.Next = &next
			}
			res.Remaining = append(res.Remaining, b)
		}
	}

	if res.Current != nil {
		res.RemainingMinutes = RemainingMinutes(*res.Current, now)
	}

	return res
}

// AllEnded true если ни один блок дня не остался впереди (для пустого дня тоже true)
func AllEnded(day Day, now int) bool {
	for _, b := range day.Blocks {
		if Classify(b, now) != StatusEnded {
			return false
		}
	}
	return true
}

// ResolveDisplayDay показывает завтрашний день, когда все сегодняшние блоки закончились
func ResolveDisplayDay(today, tomorrow Day, now int) (Day, bool) {
	if AllEnded(today, now) {
		return tomorrow, true
	}
	return today, false
}

// beforeDayStart минута "до начала дня": все блоки дня для неё Upcoming
const beforeDayStart = -1

// EvaluateDisplay применяет правило перехода на завтра и оценивает показываемый день.
// Завтрашний день ещё не начался, поэтому его блоки оцениваются как предстоящие.
func EvaluateDisplay(today, tomorrow Day, now int) (Result, bool) {
	day, isTomorrow := ResolveDisplayDay(today, tomorrow, now)
	if isTomorrow {
		return Select(day, beforeDayStart), true
	}
	return Select(day, now), false
}
