package api

import (
	"context"
	"io"

	"github.com/mentra-app/mentra-cli/internal/model"
	"github.com/mentra-app/mentra-cli/internal/validate"
)

// Dashboard returns the teacher dashboard summary.
func (c *Client) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	var out model.DashboardStats
	if err := c.get(ctx, "/teacher/dashboard", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StudentRequest is the payload for creating or replacing a student record.
type StudentRequest struct {
	FullName      string   `json:"full_name"      validate:"required"`
	Grade         *string  `json:"grade"`
	HourlyRate    *float64 `json:"hourly_rate"    validate:"omitempty,gte=0"`
	LastTopic     *string  `json:"last_topic"`
	GuardianName  *string  `json:"guardian_name"`
	GuardianEmail *string  `json:"guardian_email" validate:"omitempty,email"`
	GuardianPhone *string  `json:"guardian_phone"`
}

// CreateStudent adds a student to the teacher's roster.
func (c *Client) CreateStudent(ctx context.Context, req StudentRequest) (*model.Student, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	var out model.Student
	if err := c.postJSON(ctx, "/students", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Students lists the teacher's students.
func (c *Client) Students(ctx context.Context) ([]model.Student, error) {
	var out []model.Student
	if err := c.get(ctx, "/students", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Student fetches one student by id.
func (c *Client) Student(ctx context.Context, id string) (*model.Student, error) {
	var out model.Student
	if err := c.get(ctx, "/students/"+id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStudent replaces a student record.
func (c *Client) UpdateStudent(ctx context.Context, id string, req StudentRequest) (*model.Student, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	var out model.Student
	if err := c.putJSON(ctx, "/students/"+id, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteStudent removes a student; the backend cascades to their lessons,
// sessions and payments.
func (c *Client) DeleteStudent(ctx context.Context, id string) error {
	return c.delete(ctx, "/students/"+id, nil)
}

// WeekDays holds the seven dates of one ISO week, Monday first.
type WeekDays struct {
	WeekKey string   `json:"week_key"` // e.g. "2026-W35"
	Days    []string `json:"days"`     // seven YYYY-MM-DD strings
}

// ISOWeekDays resolves the ISO week containing date (YYYY-MM-DD) into its
// Monday..Sunday dates. Used by the reschedule datepicker to bound selection.
func (c *Client) ISOWeekDays(ctx context.Context, date string) (*WeekDays, error) {
	var out WeekDays
	if err := c.get(ctx, "/weeks/days"+query("original_date", date), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LessonRequest is the payload for creating or replacing a weekly lesson slot.
// DayOfWeek is 0=Monday..6=Sunday; times are "HH:MM". The backend rejects
// slots that overlap an existing lesson on the same day.
type LessonRequest struct {
	StudentID string  `json:"student_id"  validate:"required"`
	DayOfWeek int     `json:"day_of_week" validate:"gte=0,lte=6"`
	StartTime string  `json:"start_time"  validate:"required,datetime=15:04"`
	EndTime   string  `json:"end_time"    validate:"required,datetime=15:04"`
	Topic     *string `json:"topic"`
	Status    string  `json:"status"`
	Note      *string `json:"note"`
}

// CreateLesson adds a recurring weekly slot.
func (c *Client) CreateLesson(ctx context.Context, req LessonRequest) (*model.Lesson, error) {
	if req.Status == "" {
		req.Status = model.LessonScheduled
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	var out model.Lesson
	if err := c.postJSON(ctx, "/lessons", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Lessons lists the teacher's lessons, optionally for one student.
func (c *Client) Lessons(ctx context.Context, studentID string) ([]model.Lesson, error) {
	var out []model.Lesson
	if err := c.get(ctx, "/lessons"+query("student_id", studentID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateLesson replaces a lesson slot.
func (c *Client) UpdateLesson(ctx context.Context, id string, req LessonRequest) (*model.Lesson, error) {
	if req.Status == "" {
		req.Status = model.LessonScheduled
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	var out model.Lesson
	if err := c.putJSON(ctx, "/lessons/"+id, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteLesson removes a lesson slot.
func (c *Client) DeleteLesson(ctx context.Context, id string) error {
	return c.delete(ctx, "/lessons/"+id, nil)
}

// CompleteLesson marks a lesson held and records what was covered. The backend
// also writes a session record and, when the student has an hourly rate, a
// pending payment for the computed amount. The details travel as query
// parameters.
func (c *Client) CompleteLesson(ctx context.Context, lessonID, topic, weaknesses, homework, note string) error {
	q := query("topic", topic, "weaknesses", weaknesses, "homework", homework, "note", note)
	return c.postJSON(ctx, "/lessons/"+lessonID+"/complete-with-details"+q, nil, nil)
}

// MarkLessonNotAttended flags a lesson as missed with an optional note, with
// no reschedule.
func (c *Client) MarkLessonNotAttended(ctx context.Context, lessonID, note string) error {
	return c.postJSON(ctx, "/lessons/"+lessonID+"/mark-not-attended"+query("note", note), nil, nil)
}

// NotAttendedRequest reports a missed occurrence and optionally asks for a
// one-time reschedule inside the same ISO week.
type NotAttendedRequest struct {
	OriginalDate string `json:"original_date" validate:"required,datetime=2006-01-02"`
	Reason       string `json:"reason"        validate:"required,min=1,max=500"`
	Reschedule   bool   `json:"reschedule"`
	NewDate      string `json:"new_date,omitempty"       validate:"omitempty,datetime=2006-01-02"`
	NewStartTime string `json:"new_start_time,omitempty" validate:"omitempty,datetime=15:04"`
	NewEndTime   string `json:"new_end_time,omitempty"   validate:"omitempty,datetime=15:04"`
}

// RescheduleResult reports whether a one-time override was created.
type RescheduleResult struct {
	Message     string `json:"message"`
	Rescheduled bool   `json:"rescheduled"`
	OverrideID  string `json:"override_id,omitempty"`
}

// ReportNotAttended marks an occurrence missed and, when req.Reschedule is
// set, books a one-time override. The backend enforces the same-ISO-week rule,
// one override per lesson-week, and slot conflicts (409 on both).
func (c *Client) ReportNotAttended(ctx context.Context, lessonID string, req NotAttendedRequest) (*RescheduleResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	var out RescheduleResult
	if err := c.postJSON(ctx, "/lessons/"+lessonID+"/not-attended-and-reschedule", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RescheduleOnceRequest moves one occurrence without marking it missed.
type RescheduleOnceRequest struct {
	OriginalDate string `json:"original_date"  validate:"required,datetime=2006-01-02"`
	NewDate      string `json:"new_date"       validate:"required,datetime=2006-01-02"`
	NewStartTime string `json:"new_start_time" validate:"required,datetime=15:04"`
	NewEndTime   string `json:"new_end_time"   validate:"required,datetime=15:04"`
	Reason       string `json:"reason"         validate:"required,min=1,max=500"`
}

// RescheduleOnce books a one-time override for a lesson occurrence, same ISO
// week only.
func (c *Client) RescheduleOnce(ctx context.Context, lessonID string, req RescheduleOnceRequest) (*RescheduleResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	var out RescheduleResult
	if err := c.postJSON(ctx, "/lessons/"+lessonID+"/reschedule-once", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SessionRequest records a held lesson occurrence manually.
type SessionRequest struct {
	LessonID   string  `json:"lesson_id"  validate:"required"`
	StudentID  string  `json:"student_id" validate:"required"`
	Date       string  `json:"date"       validate:"required,datetime=2006-01-02"`
	StartTime  string  `json:"start_time" validate:"required,datetime=15:04"`
	EndTime    string  `json:"end_time"   validate:"required,datetime=15:04"`
	Topic      *string `json:"topic"`
	Note       *string `json:"note"`
	Evaluation *string `json:"evaluation"`
	Status     string  `json:"status"`
	Material   *string `json:"material_path"`
}

// CreateSession records a session.
func (c *Client) CreateSession(ctx context.Context, req SessionRequest) (*model.Session, error) {
	if req.Status == "" {
		req.Status = model.LessonCompleted
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	var out model.Session
	if err := c.postJSON(ctx, "/sessions", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Sessions lists session records, optionally for one student.
func (c *Client) Sessions(ctx context.Context, studentID string) ([]model.Session, error) {
	var out []model.Session
	if err := c.get(ctx, "/sessions"+query("student_id", studentID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UploadMaterial uploads a lesson material file and returns the stored path to
// reference from a session record.
func (c *Client) UploadMaterial(ctx context.Context, filename string, content io.Reader) (string, error) {
	var out struct {
		MaterialPath string `json:"material_path"`
	}
	if err := c.upload(ctx, "/sessions/upload-material", "file", filename, content, &out); err != nil {
		return "", err
	}
	return out.MaterialPath, nil
}

// PaymentRequest is the payload for creating or replacing a payment entry.
type PaymentRequest struct {
	StudentID string  `json:"student_id" validate:"required"`
	Amount    float64 `json:"amount"     validate:"required,gte=0"`
	Date      string  `json:"date"       validate:"required,datetime=2006-01-02"`
	Status    string  `json:"status"`
}

// CreatePayment records a payment entry.
func (c *Client) CreatePayment(ctx context.Context, req PaymentRequest) (*model.Payment, error) {
	if req.Status == "" {
		req.Status = model.PaymentPending
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	var out model.Payment
	if err := c.postJSON(ctx, "/payments", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Payments lists payments, optionally for one student.
func (c *Client) Payments(ctx context.Context, studentID string) ([]model.Payment, error) {
	var out []model.Payment
	if err := c.get(ctx, "/payments"+query("student_id", studentID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdatePayment replaces a payment entry.
func (c *Client) UpdatePayment(ctx context.Context, id string, req PaymentRequest) (*model.Payment, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	var out model.Payment
	if err := c.putJSON(ctx, "/payments/"+id, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetPaymentStatus flips a payment between paid and pending. The status
// travels as a query parameter.
func (c *Client) SetPaymentStatus(ctx context.Context, id, status string) (*model.Payment, error) {
	var out model.Payment
	if err := c.patchJSON(ctx, "/payments/"+id+"/status"+query("status", status), struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePayment removes a payment entry.
func (c *Client) DeletePayment(ctx context.Context, id string) error {
	return c.delete(ctx, "/payments/"+id, nil)
}

// StudentReportPDF downloads the progress report PDF for a student over a date
// range (YYYY-MM-DD bounds, inclusive).
func (c *Client) StudentReportPDF(ctx context.Context, studentID, startDate, endDate string) ([]byte, error) {
	q := query("start_date", startDate, "end_date", endDate)
	return c.download(ctx, "/reports/pdf/"+studentID+q)
}

// EmailStudentReport sends the progress report to the student's guardian. The
// backend rejects students without a guardian email.
func (c *Client) EmailStudentReport(ctx context.Context, studentID, startDate, endDate string) error {
	q := query("start_date", startDate, "end_date", endDate)
	return c.postJSON(ctx, "/reports/email/"+studentID+q, nil, nil)
}
