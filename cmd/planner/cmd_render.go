package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Freeeeeet/study_planner/internal/render"
	"github.com/Freeeeeet/study_planner/internal/schedule"
	"github.com/spf13/cobra"
)

var renderOut string

var renderWeekCmd = &cobra.Command{
	Use:   "render-week",
	Short: "Render a week image with sample data",
	Long:  "Render the Monday-Friday week image with a sample timetable. Useful for checking fonts and layout without a database.",
	RunE:  runRenderWeek,
}

func init() {
	renderWeekCmd.Flags().StringVarP(&renderOut, "out", "o", "test_week.png", "Output PNG file")
	rootCmd.AddCommand(renderWeekCmd)
}

func runRenderWeek(cmd *cobra.Command, args []string) error {
	days, err := sampleWeek()
	if err != nil {
		return err
	}

	img, err := render.WeekImage(days, time.Now())
	if err != nil {
		return fmt.Errorf("render week: %w", err)
	}

	if err := os.WriteFile(renderOut, img, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}

	fmt.Printf("✅ Изображение сохранено: %s (%d байт)\n", renderOut, len(img))
	return nil
}

type sampleEntry struct {
	weekday         time.Weekday
	label           string
	start, end      string
	room, professor string
	kind            schedule.Kind
}

func sampleWeek() (map[time.Weekday]schedule.Day, error) {
	entries := []sampleEntry{
		{time.Monday, "Mathematics", "9:00 AM", "10:30 AM", "Room 101", "Dr. Smith", schedule.KindLecture},
		{time.Monday, "Physics Lab", "2:00 PM", "4:00 PM", "Lab 3", "Dr. Brown", schedule.KindLaboratory},
		{time.Tuesday, "Chemistry", "10:00 AM", "11:30 AM", "Room 204", "Dr. Lee", schedule.KindLecture},
		{time.Wednesday, "Mathematics", "9:00 AM", "10:30 AM", "Room 101", "Dr. Smith", schedule.KindLecture},
		{time.Wednesday, "Programming", "1:00 PM", "2:30 PM", "Room 12", "Ms. Ivanova", schedule.KindLaboratory},
		{time.Thursday, "History", "11:00 AM", "12:30 PM", "Room 7", "Mr. Green", schedule.KindLecture},
		{time.Friday, "English", "8:30 AM", "10:00 AM", "Room 3", "Ms. White", schedule.KindLecture},
		{time.Friday, "Chemistry Lab", "3:00 PM", "5:00 PM", "Lab 1", "Dr. Lee", schedule.KindLaboratory},
	}

	days := make(map[time.Weekday]schedule.Day)
	for i, e := range entries {
		b, err := schedule.NewBlock(e.label, e.start, e.end, e.kind)
		if err != nil {
			return nil, fmt.Errorf("sample entry %q: %w", e.label, err)
		}
		b.ID = int64(i + 1)
		b.Location = e.room
		b.Owner = e.professor

		day := days[e.weekday]
		day.Weekday = e.weekday
		day.Blocks = append(day.Blocks, b)
		days[e.weekday] = day
	}
	return days, nil
}
