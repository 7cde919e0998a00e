package entities

import "encoding/json"

// Totals are ledger-wide counters, optionally scoped to an owner.
type Totals struct {
	Events        int
	Registrations int
	Attendance    int
	Attendees     int
}

type DepartmentCount struct {
	Department string
	Count      int
}

type EventCount struct {
	EventID       uint
	Title         string
	Date          string
	Registrations int
	Attendance    int
}

type CategoryCount struct {
	Category string
	Count    int
}

// Report is the aggregator output. Every field is recomputed per request.
type Report struct {
	Totals         Totals
	AttendanceRate float64
	Departments    []DepartmentCount
	Events         []EventCount
	Categories     []CategoryCount
}

// AttendanceRate returns attendance/registrations, 0 when nothing is registered.
func AttendanceRate(attendance, registrations int) float64 {
	if registrations <= 0 {
		return 0
	}
	return float64(attendance) / float64(registrations)
}

// InsightKind names an AI annotation feature and its response schema.
type InsightKind string

const (
	InsightForecast   InsightKind = "forecast"
	InsightTrends     InsightKind = "trends"
	InsightPrediction InsightKind = "prediction"
)

// InsightRequest is the structured context sent to the text service.
type InsightRequest struct {
	Kind    InsightKind
	Prompt  string
	Context any
}

// Insight is a best-effort annotation. When Available is false, Data is nil
// and Error says why.
type Insight struct {
	Available bool
	Kind      InsightKind
	Data      json.RawMessage
	Error     string
}

// Forecast answers InsightForecast.
type Forecast struct {
	PredictedCount float64 `json:"predictedCount"`
	Reasoning      string  `json:"reasoning"`
}

// Trends answers InsightTrends.
type Trends struct {
	ActiveDepartments []string `json:"activeDepartments"`
	Trends            string   `json:"trends"`
	Recommendations   []string `json:"recommendations"`
}

// Prediction answers InsightPrediction.
type Prediction struct {
	PredictedAttendanceCount float64  `json:"predicted_attendance_count"`
	ConfidenceScore          float64  `json:"confidence_score"`
	Reasoning                string   `json:"reasoning"`
	Suggestions              []string `json:"suggestions"`
}
