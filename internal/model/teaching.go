package model

// Lesson status values used by the weekly schedule. LessonRescheduled only
// appears on dashboard today entries that a one-time override moved into the
// day.
const (
	LessonScheduled   = "scheduled"
	LessonCompleted   = "completed"
	LessonCancelled   = "cancelled"
	LessonNotAttended = "not_attended"
	LessonRescheduled = "rescheduled"
)

// Payment status values. The backend stores the Turkish display strings.
const (
	PaymentPaid    = "Ödendi"
	PaymentPending = "Beklemede"
)

// Student is a pupil managed by the authenticated teacher.
type Student struct {
	ID            string   `json:"id"`
	TeacherID     string   `json:"teacher_id"`
	FullName      string   `json:"full_name"`
	Grade         *string  `json:"grade"`
	HourlyRate    *float64 `json:"hourly_rate"`
	LastTopic     *string  `json:"last_topic"`
	GuardianName  *string  `json:"guardian_name"`
	GuardianEmail *string  `json:"guardian_email"`
	GuardianPhone *string  `json:"guardian_phone"`
	Created       string   `json:"created_at"`
}

// Lesson is a recurring weekly slot. DayOfWeek is 0=Monday..6=Sunday and the
// times are "HH:MM" strings, both exactly as the backend stores them.
type Lesson struct {
	ID        string  `json:"id"`
	TeacherID string  `json:"teacher_id"`
	StudentID string  `json:"student_id"`
	DayOfWeek int     `json:"day_of_week"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Topic     *string `json:"topic"`
	Status    string  `json:"status"`
	Note      *string `json:"note"`
	Created   string  `json:"created_at"`
}

// Session is the record of a single held (or missed) lesson occurrence,
// distinct from the recurring Lesson slot it belongs to.
type Session struct {
	ID           string  `json:"id"`
	TeacherID    string  `json:"teacher_id"`
	LessonID     string  `json:"lesson_id"`
	StudentID    string  `json:"student_id"`
	Date         string  `json:"date"` // YYYY-MM-DD
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	Topic        *string `json:"topic"`
	Note         *string `json:"note"`
	Evaluation   *string `json:"evaluation"`
	Status       string  `json:"status"`
	MaterialPath *string `json:"material_path"`
	Created      string  `json:"created_at"`
}

// Payment is a tuition payment entry for a student.
type Payment struct {
	ID        string  `json:"id"`
	TeacherID string  `json:"teacher_id"`
	StudentID string  `json:"student_id"`
	Amount    float64 `json:"amount"`
	Date      string  `json:"date"` // YYYY-MM-DD
	Status    string  `json:"status"`
	Created   string  `json:"created_at"`
}

// TodayLesson is one entry of the dashboard's today list. The backend already
// folds this week's one-time reschedules in: a lesson moved off today is
// absent, a lesson moved onto today appears with the override's times and
// status "rescheduled".
type TodayLesson struct {
	LessonID    string  `json:"lesson_id"`
	StudentName string  `json:"student_name"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	Topic       *string `json:"topic"`
	Status      string  `json:"status"`
}

// DashboardStats is the teacher dashboard summary from GET /teacher/dashboard.
type DashboardStats struct {
	StudentsCount   int           `json:"students_count"`
	WeeklyLessons   int           `json:"weekly_lessons"`
	PendingPayments float64       `json:"pending_payments"`
	TodayLessons    []TodayLesson `json:"today_lessons"`
}
