package service

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/study_planner/internal/model"
	"github.com/Freeeeeet/study_planner/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(subject, start, end string) *model.TimetableEntry {
	return &model.TimetableEntry{Subject: subject, StartTime: start, EndTime: end, Type: "Lecture"}
}

func TestTimetableService_ReplaceWeek(t *testing.T) {
	ctx := context.Background()
	store := &memTimetable{}
	svc := NewTimetableService(store, testLogger)

	var changed []int64
	svc.OnChange(func(userID int64) { changed = append(changed, userID) })

	week, err := svc.ReplaceWeek(ctx, 1, model.Week{
		"Monday": {
			entry("PROG1", "3:00 PM", "4:30 PM"),
			entry("MATH", "8:00 am", "9:30 AM"),
		},
		"Wednesday": {entry("PHYS", "13:00", "14:00")},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, changed)

	require.Len(t, week, 5)
	assert.Len(t, week["Monday"], 2)
	assert.Empty(t, week["Friday"])
	assert.Equal(t, "1:00 PM", week["Wednesday"][0].StartTime)
	assert.Equal(t, "8:00 AM", week["Monday"][1].StartTime)
}

func TestTimetableService_ReplaceWeekRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	store := &memTimetable{}
	svc := NewTimetableService(store, testLogger)

	_, err := svc.ReplaceWeek(ctx, 1, model.Week{"Monday": {entry("A", "8:00 AM", "9:30 AM")}})
	require.NoError(t, err)

	tests := []struct {
		name string
		week model.Week
		want error
	}{
		{
			name: "overlap",
			week: model.Week{"Monday": {entry("A", "8:00 AM", "9:30 AM"), entry("B", "9:00 AM", "10:00 AM")}},
			want: schedule.ErrOverlappingBlocks,
		},
		{
			name: "touching end is an overlap",
			week: model.Week{"Tuesday": {entry("A", "8:00 AM", "9:30 AM"), entry("B", "9:30 AM", "10:00 AM")}},
			want: schedule.ErrOverlappingBlocks,
		},
		{
			name: "malformed time",
			week: model.Week{"Monday": {entry("A", "25:00", "26:00")}},
			want: schedule.ErrMalformedTime,
		},
		{
			name: "ends before start",
			week: model.Week{"Monday": {entry("A", "10:00 AM", "9:00 AM")}},
			want: schedule.ErrInvalidBlock,
		},
		{
			name: "weekend",
			week: model.Week{"Saturday": {entry("A", "10:00 AM", "11:00 AM")}},
			want: ErrValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ReplaceWeek(ctx, 1, tt.week)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsScheduleError(err) || tt.want == ErrValidation)
		})
	}

	// Отклонённые запросы не трогают сохранённое расписание
	week, err := svc.GetWeek(ctx, 1)
	require.NoError(t, err)
	require.Len(t, week["Monday"], 1)
	assert.Equal(t, "A", week["Monday"][0].Subject)
}

func TestTimetableService_AddAndDeleteEntry(t *testing.T) {
	ctx := context.Background()
	store := &memTimetable{}
	svc := NewTimetableService(store, testLogger)

	notified := 0
	svc.OnChange(func(int64) { notified++ })

	first, err := svc.AddEntry(ctx, 1, "Monday", entry("A", "8:00 AM", "9:30 AM"))
	require.NoError(t, err)

	_, err = svc.AddEntry(ctx, 1, "Monday", entry("B", "9:00 AM", "9:45 AM"))
	assert.ErrorIs(t, err, schedule.ErrOverlappingBlocks)

	_, err = svc.AddEntry(ctx, 1, "Monday", entry("C", "10:00 AM", "11:00 AM"))
	require.NoError(t, err)

	// Другой пользователь не пересекается
	_, err = svc.AddEntry(ctx, 2, "Monday", entry("X", "8:00 AM", "9:30 AM"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEntry(ctx, 1, first.ID))
	assert.ErrorIs(t, svc.DeleteEntry(ctx, 1, first.ID), ErrNotFound)
	assert.Equal(t, 4, notified)
}

func TestTimetableService_DaysSkipsMalformedEntries(t *testing.T) {
	ctx := context.Background()
	store := &memTimetable{entries: []*model.TimetableEntry{
		{ID: 1, UserID: 1, Weekday: time.Monday, Subject: "OK", StartTime: "8:00 AM", EndTime: "9:00 AM", Type: "Laboratory", Room: "Lab 1"},
		{ID: 2, UserID: 1, Weekday: time.Monday, Subject: "Broken", StartTime: "8:xx", EndTime: "9:00 AM"},
		{ID: 3, UserID: 1, Weekday: time.Tuesday, Subject: "Other", StartTime: "1:00 PM", EndTime: "2:00 PM"},
	}}
	svc := NewTimetableService(store, testLogger)

	days, skipped, err := svc.Days(ctx, 1)
	require.NoError(t, err)

	require.Len(t, days[time.Monday].Blocks, 1)
	monday := days[time.Monday].Blocks[0]
	assert.Equal(t, "OK", monday.Label)
	assert.Equal(t, 480, monday.StartMinute)
	assert.Equal(t, schedule.KindLaboratory, monday.Kind)
	assert.Equal(t, "Lab 1", monday.Location)

	assert.Len(t, days[time.Tuesday].Blocks, 1)
	assert.Empty(t, days[time.Friday].Blocks)

	require.Len(t, skipped, 1)
	assert.EqualValues(t, 2, skipped[0].EntryID)
	assert.Equal(t, "Monday", skipped[0].Weekday)
}
