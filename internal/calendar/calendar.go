// Package calendar lays out the weekly lesson schedule and implements the
// ISO-week arithmetic the reschedule rules depend on.
package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mentra-app/mentra-cli/internal/model"
)

// The visible schedule runs from 08:00 through the 22:00 row, fifteen hour
// rows across seven weekday columns (Monday first).
const (
	GridStartHour = 8
	GridEndHour   = 22
	GridRows      = GridEndHour - GridStartHour + 1
	GridCols      = 7
)

// DayNames are the column headers, index 0 = Monday to match Lesson.DayOfWeek.
var DayNames = [GridCols]string{
	"Pazartesi", "Salı", "Çarşamba", "Perşembe", "Cuma", "Cumartesi", "Pazar",
}

// Grid is the weekly layout: Grid[row][col] holds the lesson starting in that
// hour slot, or nil. A lesson appears once, at its start hour.
type Grid [GridRows][GridCols]*model.Lesson

// BuildGrid places each lesson into its slot. Lessons outside the visible
// hours or with malformed times are skipped; the backend's conflict check
// means at most one lesson starts per slot.
func BuildGrid(lessons []model.Lesson) Grid {
	var g Grid
	for i := range lessons {
		l := &lessons[i]
		if l.DayOfWeek < 0 || l.DayOfWeek >= GridCols {
			continue
		}
		hour, ok := startHour(l.StartTime)
		if !ok || hour < GridStartHour || hour > GridEndHour {
			continue
		}
		g[hour-GridStartHour][l.DayOfWeek] = l
	}
	return g
}

// Override is a one-time move of a lesson occurrence inside one ISO week,
// as created by the reschedule flow.
type Override struct {
	LessonID     string
	OriginalDate string // YYYY-MM-DD, the slot the lesson left
	NewDate      string // YYYY-MM-DD, same ISO week
	NewStartTime string // "HH:MM"
}

// BuildWeekGrid lays out one concrete week: recurring lessons fill their usual
// slots, then each override for that week vacates the lesson's original slot
// and re-places it at the new date and hour. weekDays are the week's seven
// dates, Monday first (see WeekDays). Overrides pointing outside the week or
// outside visible hours are ignored.
func BuildWeekGrid(lessons []model.Lesson, overrides []Override, weekDays []string) Grid {
	g := BuildGrid(lessons)
	if len(weekDays) != GridCols {
		return g
	}
	dayIndex := make(map[string]int, GridCols)
	for i, d := range weekDays {
		dayIndex[d] = i
	}

	byID := make(map[string]*model.Lesson, len(lessons))
	for i := range lessons {
		byID[lessons[i].ID] = &lessons[i]
	}

	for _, ov := range overrides {
		lesson, ok := byID[ov.LessonID]
		if !ok {
			continue
		}
		if origDay, ok := dayIndex[ov.OriginalDate]; ok && origDay == lesson.DayOfWeek {
			if hour, ok := startHour(lesson.StartTime); ok && hour >= GridStartHour && hour <= GridEndHour {
				g[hour-GridStartHour][origDay] = nil
			}
		}
		newDay, ok := dayIndex[ov.NewDate]
		if !ok {
			continue
		}
		hour, ok := startHour(ov.NewStartTime)
		if !ok || hour < GridStartHour || hour > GridEndHour {
			continue
		}
		g[hour-GridStartHour][newDay] = lesson
	}
	return g
}

// OverridesFromToday reconstructs the one-time moves that touch today from
// the dashboard's today list. The backend never exposes overrides as a
// resource; it folds them into that list instead: a scheduled lesson whose
// weekday is today but that is missing from the list was moved away, and an
// entry with status "rescheduled" was moved in, carrying the override's
// times. todayDate must be one of weekDays.
func OverridesFromToday(lessons []model.Lesson, today []model.TodayLesson, weekDays []string, todayDate string) []Override {
	if len(weekDays) != GridCols {
		return nil
	}
	todayIdx := -1
	for i, d := range weekDays {
		if d == todayDate {
			todayIdx = i
		}
	}
	if todayIdx < 0 {
		return nil
	}

	byID := make(map[string]*model.Lesson, len(lessons))
	for i := range lessons {
		byID[lessons[i].ID] = &lessons[i]
	}
	present := make(map[string]bool, len(today))
	for _, e := range today {
		present[e.LessonID] = true
	}

	var overrides []Override
	for _, e := range today {
		if e.Status != model.LessonRescheduled {
			continue
		}
		lesson, ok := byID[e.LessonID]
		if !ok || lesson.DayOfWeek < 0 || lesson.DayOfWeek >= GridCols {
			continue
		}
		// Reschedules stay inside one ISO week, so the vacated occurrence is
		// the lesson's regular weekday of this same week.
		overrides = append(overrides, Override{
			LessonID:     e.LessonID,
			OriginalDate: weekDays[lesson.DayOfWeek],
			NewDate:      todayDate,
			NewStartTime: e.StartTime,
		})
	}
	for i := range lessons {
		l := &lessons[i]
		if l.DayOfWeek != todayIdx || present[l.ID] {
			continue
		}
		if l.Status != model.LessonScheduled && l.Status != model.LessonCompleted {
			continue
		}
		// Moved away from today. The destination is not in this payload, so
		// only the vacated slot is recorded; an empty NewDate places nothing.
		overrides = append(overrides, Override{LessonID: l.ID, OriginalDate: todayDate})
	}
	return overrides
}

// At returns the lesson starting at the given weekday (0=Monday) and clock
// hour, or nil.
func (g *Grid) At(day, hour int) *model.Lesson {
	if day < 0 || day >= GridCols || hour < GridStartHour || hour > GridEndHour {
		return nil
	}
	return g[hour-GridStartHour][day]
}

// HourLabel renders a row header, e.g. "08:00".
func HourLabel(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

func startHour(hhmm string) (int, bool) {
	h, _, ok := strings.Cut(hhmm, ":")
	if !ok {
		return 0, false
	}
	hour, err := strconv.Atoi(h)
	if err != nil {
		return 0, false
	}
	return hour, true
}

// ParseDate parses a backend-format YYYY-MM-DD date.
func ParseDate(date string) (time.Time, error) {
	return time.Parse("2006-01-02", date)
}

// ISOWeekKey returns the ISO week of a YYYY-MM-DD date as "2026-W35", the key
// the backend uses to dedupe one-time reschedules.
func ISOWeekKey(date string) (string, error) {
	d, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	year, week := d.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week), nil
}

// SameISOWeek reports whether two YYYY-MM-DD dates fall in the same ISO week.
// A one-time reschedule is only valid inside the missed occurrence's week.
func SameISOWeek(a, b string) (bool, error) {
	ka, err := ISOWeekKey(a)
	if err != nil {
		return false, err
	}
	kb, err := ISOWeekKey(b)
	if err != nil {
		return false, err
	}
	return ka == kb, nil
}

// WeekDays returns the Monday..Sunday dates of the ISO week containing date,
// formatted YYYY-MM-DD. Mirrors the backend's /weeks/days computation so the
// datepicker can work offline from the occurrence date alone.
func WeekDays(date string) ([]string, error) {
	d, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	weekday := int(d.Weekday())
	if weekday == 0 { // Go counts Sunday as 0; ISO puts it last
		weekday = 7
	}
	monday := d.AddDate(0, 0, -(weekday - 1))
	days := make([]string, 7)
	for i := 0; i < 7; i++ {
		days[i] = monday.AddDate(0, 0, i).Format("2006-01-02")
	}
	return days, nil
}

// TimeRangeValid reports whether start and end are well-formed "HH:MM" values
// with start strictly before end.
func TimeRangeValid(start, end string) bool {
	s, okS := minutes(start)
	e, okE := minutes(end)
	return okS && okE && s < e
}

func minutes(hhmm string) (int, bool) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}
