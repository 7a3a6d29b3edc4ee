package render

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/Freeeeeet/study_planner/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekStart(t *testing.T) {
	tests := []struct {
		day  time.Time
		want string
	}{
		{time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC), "2024-05-06"},  // понедельник
		{time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC), "2024-05-06"}, // пятница
		{time.Date(2024, 5, 11, 9, 0, 0, 0, time.UTC), "2024-05-13"}, // суббота
		{time.Date(2024, 5, 12, 9, 0, 0, 0, time.UTC), "2024-05-13"}, // воскресенье
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, weekStart(tt.day).Format("2006-01-02"), tt.day.Weekday().String())
	}
}

func TestCalculateHourRange(t *testing.T) {
	empty := calculateHourRange(nil)
	assert.Equal(t, defaultMinHour-hourPaddingTop, empty.start)
	assert.Equal(t, defaultMaxHour+hourPaddingBot, empty.end)

	days := map[time.Weekday]schedule.Day{
		time.Monday:  {Weekday: time.Monday, Blocks: []schedule.Block{{Label: "A", StartMinute: 0, EndMinute: 90}}},
		time.Tuesday: {Weekday: time.Tuesday, Blocks: []schedule.Block{{Label: "B", StartMinute: 1380, EndMinute: schedule.LastMinute}}},
	}
	hours := calculateHourRange(days)
	assert.Equal(t, 0, hours.start)
	assert.Equal(t, 24, hours.end)
	assert.Equal(t, 24, hours.total)
}

func TestWeekImage_ProducesPNG(t *testing.T) {
	days := map[time.Weekday]schedule.Day{
		time.Monday: {Weekday: time.Monday, Blocks: []schedule.Block{
			{Label: "Calculus", StartMinute: 480, EndMinute: 570, Location: "Room 101", Kind: schedule.KindLecture},
			{Label: "PROG1", StartMinute: 900, EndMinute: 990, Location: "Lab 1", Kind: schedule.KindLaboratory},
		}},
		time.Wednesday: {Weekday: time.Wednesday, Blocks: []schedule.Block{
			{Label: "A very long subject name for the block", StartMinute: 600, EndMinute: 605},
		}},
	}

	data, err := WeekImage(days, time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, imageWidth, img.Bounds().Dx())
	assert.Equal(t, imageHeight, img.Bounds().Dy())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Матем...", truncate("Математика", 8))
}
