package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/mentra-app/mentra-cli/internal/api"
	"github.com/mentra-app/mentra-cli/internal/calendar"
	"github.com/mentra-app/mentra-cli/internal/guard"
	"github.com/mentra-app/mentra-cli/internal/model"
	"github.com/mentra-app/mentra-cli/internal/wizard"
)

func (a *App) cmdDashboard(ctx context.Context) error {
	if err := a.gate(guard.RouteDashboard); err != nil {
		return report(a.out, err)
	}
	stats, err := a.client.Dashboard(ctx)
	if err != nil {
		return report(a.out, err)
	}
	fmt.Fprintf(a.out, "öğrenci sayısı:     %d\n", stats.StudentsCount)
	fmt.Fprintf(a.out, "haftalık ders:      %d\n", stats.WeeklyLessons)
	fmt.Fprintf(a.out, "bekleyen ödeme:     %.2f TL\n", stats.PendingPayments)
	fmt.Fprintf(a.out, "bugünkü ders:       %d\n", len(stats.TodayLessons))
	return nil
}

func (a *App) cmdStudents(ctx context.Context, args []string) error {
	if err := a.gate(guard.RouteStudents); err != nil {
		return report(a.out, err)
	}

	sub := "list"
	if len(args) > 0 {
		sub = args[0]
	}
	switch sub {
	case "list":
		students, err := a.client.Students(ctx)
		if err != nil {
			return report(a.out, err)
		}
		if len(students) == 0 {
			fmt.Fprintln(a.out, "kayıtlı öğrenci yok")
			return nil
		}
		w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		for _, s := range students {
			grade := "-"
			if s.Grade != nil {
				grade = *s.Grade
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", s.ID, s.FullName, grade)
		}
		return w.Flush()
	case "show":
		if len(args) < 2 {
			return fmt.Errorf("usage: mentra students show <id>")
		}
		return a.showStudent(ctx, args[1])
	default:
		return fmt.Errorf("unknown students subcommand %q", sub)
	}
}

func (a *App) showStudent(ctx context.Context, id string) error {
	student, err := a.client.Student(ctx, id)
	if err != nil {
		return report(a.out, err)
	}
	fmt.Fprintf(a.out, "%s\n", student.FullName)
	if student.Grade != nil {
		fmt.Fprintf(a.out, "  sınıf:        %s\n", *student.Grade)
	}
	if student.HourlyRate != nil {
		fmt.Fprintf(a.out, "  saat ücreti:  %.2f TL\n", *student.HourlyRate)
	}
	if student.LastTopic != nil {
		fmt.Fprintf(a.out, "  son konu:     %s\n", *student.LastTopic)
	}
	if student.GuardianName != nil {
		fmt.Fprintf(a.out, "  veli:         %s\n", *student.GuardianName)
	}

	sessions, err := a.client.Sessions(ctx, id)
	if err != nil {
		return report(a.out, err)
	}
	if len(sessions) > 0 {
		fmt.Fprintf(a.out, "  işlenen ders: %d\n", len(sessions))
	}
	return nil
}

func (a *App) cmdCalendar(ctx context.Context) error {
	if err := a.gate(guard.RouteCalendar); err != nil {
		return report(a.out, err)
	}
	lessons, err := a.client.Lessons(ctx, "")
	if err != nil {
		return report(a.out, err)
	}
	students, err := a.client.Students(ctx)
	if err != nil {
		return report(a.out, err)
	}
	names := make(map[string]string, len(students))
	for _, s := range students {
		names[s.ID] = s.FullName
	}

	// This week's one-time reschedules only surface through the dashboard's
	// today list, so the grid is corrected from there.
	stats, err := a.client.Dashboard(ctx)
	if err != nil {
		return report(a.out, err)
	}
	today := time.Now().Format("2006-01-02")
	week, err := calendar.WeekDays(today)
	if err != nil {
		return err
	}
	overrides := calendar.OverridesFromToday(lessons, stats.TodayLessons, week, today)

	grid := calendar.BuildWeekGrid(lessons, overrides, week)
	fmt.Fprintf(a.out, "hafta %s – %s\n", week[0], week[6])
	w := tabwriter.NewWriter(a.out, 0, 4, 1, ' ', 0)
	fmt.Fprint(w, "saat")
	for _, day := range calendar.DayNames {
		fmt.Fprintf(w, "\t%s", day)
	}
	fmt.Fprintln(w)
	for hour := calendar.GridStartHour; hour <= calendar.GridEndHour; hour++ {
		fmt.Fprint(w, calendar.HourLabel(hour))
		for day := 0; day < calendar.GridCols; day++ {
			cell := ""
			if l := grid.At(day, hour); l != nil {
				cell = names[l.StudentID]
				if cell == "" {
					cell = l.StudentID
				}
			}
			fmt.Fprintf(w, "\t%s", cell)
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func (a *App) cmdPayments(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("payments", flag.ContinueOnError)
	fs.SetOutput(a.out)
	studentID := fs.String("student", "", "filter by student id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.gate(guard.RoutePayments); err != nil {
		return report(a.out, err)
	}

	payments, err := a.client.Payments(ctx, *studentID)
	if err != nil {
		return report(a.out, err)
	}
	if len(payments) == 0 {
		fmt.Fprintln(a.out, "ödeme kaydı yok")
		return nil
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	var pending float64
	for _, p := range payments {
		fmt.Fprintf(w, "%s\t%s\t%.2f TL\t%s\n", p.Date, p.StudentID, p.Amount, p.Status)
		if p.Status != model.PaymentPaid {
			pending += p.Amount
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "bekleyen toplam: %.2f TL\n", pending)
	return nil
}

// cmdNotAttended runs the missed-lesson flow non-interactively: the flags
// carry the answers the dialog steps would collect, and the wizard enforces
// the same ordering and validation.
func (a *App) cmdNotAttended(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("not-attended", flag.ContinueOnError)
	fs.SetOutput(a.out)
	lessonID := fs.String("lesson", "", "lesson id")
	date := fs.String("date", "", "missed occurrence date (YYYY-MM-DD)")
	reason := fs.String("reason", "", "why the lesson was not held")
	reschedule := fs.Bool("reschedule", false, "make up the lesson this week")
	newDate := fs.String("new-date", "", "replacement date (same ISO week)")
	start := fs.String("start", "", "replacement start (HH:MM)")
	end := fs.String("end", "", "replacement end (HH:MM)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.gate(guard.RouteDashboard); err != nil {
		return report(a.out, err)
	}
	if *lessonID == "" || *date == "" {
		return fmt.Errorf("-lesson and -date are required")
	}

	w, err := wizard.Start(*lessonID, *date)
	if err != nil {
		return report(a.out, err)
	}
	if err := w.SubmitReason(*reason); err != nil {
		return report(a.out, err)
	}
	if *reschedule {
		if err := w.AcceptReschedule(); err != nil {
			return report(a.out, err)
		}
		if err := w.PickSlot(*newDate, *start, *end); err != nil {
			return report(a.out, err)
		}
	} else {
		if err := w.Decline(); err != nil {
			return report(a.out, err)
		}
	}

	req, err := w.Request()
	if err != nil {
		return err
	}
	result, err := a.submitNotAttended(ctx, *lessonID, req)
	if err != nil {
		return report(a.out, err)
	}
	if result.Rescheduled {
		fmt.Fprintf(a.out, "ders yapılmadı olarak işaretlendi ve ertelendi (%s %s-%s)\n",
			req.NewDate, req.NewStartTime, req.NewEndTime)
	} else {
		fmt.Fprintln(a.out, "ders yapılmadı olarak işaretlendi")
	}
	return nil
}

func (a *App) submitNotAttended(ctx context.Context, lessonID string, req api.NotAttendedRequest) (*api.RescheduleResult, error) {
	return a.client.ReportNotAttended(ctx, lessonID, req)
}
