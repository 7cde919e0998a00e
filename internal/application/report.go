package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"eventledger/internal/domain/entities"
	"eventledger/internal/ports/output"
)

// DefaultInsightTimeout bounds a text-service call when none is configured.
const DefaultInsightTimeout = 15 * time.Second

type ReportService struct {
	reportRepo output.ReportRepository
	eventRepo  output.EventRepository
	insights   output.InsightProvider
	timeout    time.Duration
	policy     Policy
	log        *zap.Logger
}

func NewReportService(
	reportRepo output.ReportRepository,
	eventRepo output.EventRepository,
	insights output.InsightProvider,
	timeout time.Duration,
	policy Policy,
	log *zap.Logger,
) *ReportService {
	if timeout <= 0 {
		timeout = DefaultInsightTimeout
	}
	return &ReportService{
		reportRepo: reportRepo,
		eventRepo:  eventRepo,
		insights:   insights,
		timeout:    timeout,
		policy:     policy,
		log:        log,
	}
}

// Stats aggregates the ledger of the requester's events.
func (s *ReportService) Stats(ctx context.Context, requester *entities.Identity) (*entities.Report, error) {
	if err := s.policy.Require(requester, CapViewStats, nil); err != nil {
		return nil, err
	}
	return s.build(ctx, requester.UserID)
}

// build reads every figure of the report from one snapshot of the ledger.
func (s *ReportService) build(ctx context.Context, ownerID uint) (*entities.Report, error) {
	report := &entities.Report{}
	err := s.reportRepo.Snapshot(ctx, func(repo output.ReportRepository) error {
		totals, err := repo.Totals(ctx, ownerID)
		if err != nil {
			return fmt.Errorf("totals: %w", err)
		}
		departments, err := repo.Departments(ctx, ownerID)
		if err != nil {
			return fmt.Errorf("departments: %w", err)
		}
		events, err := repo.EventBreakdown(ctx, ownerID)
		if err != nil {
			return fmt.Errorf("event breakdown: %w", err)
		}
		categories, err := repo.Categories(ctx, ownerID)
		if err != nil {
			return fmt.Errorf("categories: %w", err)
		}
		report.Totals = totals
		report.AttendanceRate = entities.AttendanceRate(totals.Attendance, totals.Registrations)
		report.Departments = departments
		report.Events = events
		report.Categories = categories
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// Insights returns the requester's report annotated with a trend analysis.
// The report is returned even when the annotation is unavailable.
func (s *ReportService) Insights(ctx context.Context, requester *entities.Identity) (*entities.Report, entities.Insight, error) {
	report, err := s.Stats(ctx, requester)
	if err != nil {
		return nil, entities.Insight{}, err
	}
	req := entities.InsightRequest{
		Kind: entities.InsightTrends,
		Prompt: "Analyze the following event and participant statistics. Identify the most active departments, " +
			"trends in attendance over time, and provide 3 actionable recommendations for future events.",
		Context: reportContext(report),
	}
	var out entities.Trends
	return report, s.annotate(ctx, req, &out), nil
}

// PredictAttendance annotates an existing event with an attendance prediction.
func (s *ReportService) PredictAttendance(ctx context.Context, requester *entities.Identity, eventID uint) (*entities.Event, entities.Insight, error) {
	if err := s.policy.Require(requester, CapRequestInsight, nil); err != nil {
		return nil, entities.Insight{}, err
	}
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, entities.Insight{}, err
	}
	departments, err := s.reportRepo.EventDepartments(ctx, eventID)
	if err != nil {
		return nil, entities.Insight{}, fmt.Errorf("event departments: %w", err)
	}
	req := entities.InsightRequest{
		Kind:   entities.InsightPrediction,
		Prompt: "Predict the attendance for an event with the following details and suggest how to improve it.",
		Context: map[string]any{
			"title":                   event.Title,
			"category":                event.Category,
			"capacity":                event.Capacity,
			"current_registrations":   event.RegistrationCount,
			"date":                    event.Date,
			"location":                event.Location,
			"department_distribution": departmentContext(departments),
		},
	}
	var out entities.Prediction
	return event, s.annotate(ctx, req, &out), nil
}

// Forecast predicts attendance for an event that has not been created yet,
// from the requester's past events.
func (s *ReportService) Forecast(ctx context.Context, requester *entities.Identity, in EventInput) (entities.Insight, error) {
	if err := s.policy.Require(requester, CapCreateEvent, nil); err != nil {
		return entities.Insight{}, err
	}
	draft, err := buildEvent(in)
	if err != nil {
		return entities.Insight{}, err
	}
	past, err := s.reportRepo.EventBreakdown(ctx, requester.UserID)
	if err != nil {
		return entities.Insight{}, fmt.Errorf("event breakdown: %w", err)
	}
	req := entities.InsightRequest{
		Kind:   entities.InsightForecast,
		Prompt: "Based on the past event data, predict the attendance for the new event. Provide a predicted number and a brief reasoning.",
		Context: map[string]any{
			"new_event": map[string]any{
				"title":    draft.Title,
				"date":     draft.Date,
				"location": draft.Location,
				"capacity": draft.Capacity,
				"category": draft.Category,
			},
			"past_events": eventContext(past),
		},
	}
	var out entities.Forecast
	return s.annotate(ctx, req, &out), nil
}

// Messages exposed in Insight.Error. Provider errors can carry request
// details, so they are only logged.
const (
	insightTimedOut    = "insight service timed out"
	insightUnavailable = "insight service unavailable"
	insightMalformed   = "malformed insight response"
)

// annotate calls the text service under its own timeout and decodes the reply
// into target. Every failure yields an unavailable insight, never an error.
func (s *ReportService) annotate(ctx context.Context, req entities.InsightRequest, target any) entities.Insight {
	result := entities.Insight{Kind: req.Kind}
	if s.insights == nil {
		result.Error = insightUnavailable
		return result
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.insights.Generate(ctx, req)
	if err != nil {
		s.log.Warn("insight request failed", zap.String("kind", string(req.Kind)), zap.Error(err))
		if errors.Is(err, context.DeadlineExceeded) {
			result.Error = insightTimedOut
		} else {
			result.Error = insightUnavailable
		}
		return result
	}
	if err := json.Unmarshal(raw, target); err != nil {
		s.log.Warn("malformed insight response", zap.String("kind", string(req.Kind)), zap.Error(err))
		result.Error = insightMalformed
		return result
	}
	result.Available = true
	result.Data = raw
	return result
}

func reportContext(r *entities.Report) map[string]any {
	return map[string]any{
		"total_events":        r.Totals.Events,
		"total_registrations": r.Totals.Registrations,
		"total_attendance":    r.Totals.Attendance,
		"attendance_rate":     r.AttendanceRate,
		"department_stats":    departmentContext(r.Departments),
		"event_stats":         eventContext(r.Events),
	}
}

func departmentContext(in []entities.DepartmentCount) []map[string]any {
	out := make([]map[string]any, len(in))
	for i, d := range in {
		out[i] = map[string]any{"department": d.Department, "count": d.Count}
	}
	return out
}

func eventContext(in []entities.EventCount) []map[string]any {
	out := make([]map[string]any, len(in))
	for i, e := range in {
		out[i] = map[string]any{
			"title":         e.Title,
			"date":          e.Date,
			"registrations": e.Registrations,
			"attendance":    e.Attendance,
		}
	}
	return out
}
