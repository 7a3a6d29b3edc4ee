package schedule

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Kind влияет только на отображение блока, не на его оценку
type Kind string

const (
	KindLecture    Kind = "Lecture"
	KindLaboratory Kind = "Laboratory"
	KindTask       Kind = "Task"
)

// ParseKind возвращает Lecture для пустых и неизвестных значений
func ParseKind(s string) Kind {
	switch Kind(s) {
	case KindLaboratory:
		return KindLaboratory
	case KindTask:
		return KindTask
	default:
		return KindLecture
	}
}

// Block одно занятие или окно задачи внутри дня
type Block struct {
	ID          int64  `json:"id,omitempty"`
	Label       string `json:"label"`
	StartMinute int    `json:"start_minute"`
	EndMinute   int    `json:"end_minute"`
	Location    string `json:"location,omitempty"`
	Owner       string `json:"owner,omitempty"`
	Kind        Kind   `json:"kind"`
}

var (
	ErrInvalidBlock      = errors.New("invalid block")
	ErrOverlappingBlocks = errors.New("overlapping blocks")
)

// NewBlock собирает блок из строк начала и конца
func NewBlock(label, start, end string, kind Kind) (Block, error) {
	s, err := ParseTime(start)
	if err != nil {
		return Block{}, err
	}
	e, err := ParseTime(end)
	if err != nil {
		return Block{}, err
	}
	b := Block{Label: label, StartMinute: s, EndMinute: e, Kind: kind}
	if err := b.Validate(); err != nil {
		return Block{}, err
	}
	return b, nil
}

// Validate проверяет границы: 0 <= start < end <= 1439
func (b Block) Validate() error {
	if b.StartMinute < 0 || b.EndMinute > LastMinute {
		return fmt.Errorf("%w: %q minutes out of range", ErrInvalidBlock, b.Label)
	}
	if b.EndMinute <= b.StartMinute {
		return fmt.Errorf("%w: %q ends before it starts", ErrInvalidBlock, b.Label)
	}
	return nil
}

// TimeRange возвращает "8:00 AM - 9:30 AM"
func (b Block) TimeRange() string {
	return FormatRange(b.StartMinute, b.EndMinute)
}

// Overlaps true если блоки пересекаются хотя бы на одну минуту.
// Конец включительный, поэтому 8:00-9:30 и 9:30-10:00 пересекаются.
func (b Block) Overlaps(other Block) bool {
	return b.StartMinute <= other.EndMinute && other.StartMinute <= b.EndMinute
}

// Day расписание одного дня недели
type Day struct {
	Weekday time.Weekday `json:"weekday"`
	Blocks  []Block      `json:"blocks"`
}

// ValidateDay отклоняет некорректные и пересекающиеся блоки
func ValidateDay(day Day) error {
	for _, b := range day.Blocks {
		if err := b.Validate(); err != nil {
			return err
		}
	}

	sorted := sortedByStart(day.Blocks)
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Overlaps(sorted[i]) {
			return fmt.Errorf("%w: %q (%s) and %q (%s) on %s",
				ErrOverlappingBlocks,
				sorted[i-1].Label, sorted[i-1].TimeRange(),
				sorted[i].Label, sorted[i].TimeRange(),
				day.Weekday)
		}
	}
	return nil
}

// sortedByStart возвращает копию, отсортированную по началу; равные сохраняют исходный порядок
func sortedByStart(blocks []Block) []Block {
	out := make([]Block, len(blocks))
	copy(out, blocks)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartMinute < out[j].StartMinute
	})
	return out
}

// MinuteOfDay переводит момент времени в минуту дня в его собственной временной зоне
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
