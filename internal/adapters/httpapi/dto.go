package httpapi

import (
	"encoding/json"
	"time"

	"eventledger/internal/application"
	"eventledger/internal/domain/entities"
	"eventledger/internal/infrastructure/sanitize"
)

type userDTO struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Department string    `json:"department,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func toUserDTO(u *entities.User) userDTO {
	return userDTO{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
		CreatedAt:  u.CreatedAt,
	}
}

type sessionDTO struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}

type eventDTO struct {
	ID                uint              `json:"id"`
	OwnerID           *uint             `json:"owner_id"`
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	Date              string            `json:"date"`
	Location          string            `json:"location"`
	Capacity          int               `json:"capacity"`
	Category          string            `json:"category"`
	RegistrationCount int               `json:"registration_count"`
	IsFull            bool              `json:"is_full"`
	CreatedAt         time.Time         `json:"created_at"`
}

// eventDetailDTO is the single-event view. participants is always present,
// empty when nobody registered.
type eventDetailDTO struct {
	eventDTO
	Participants []registrationDTO `json:"participants"`
}

func toEventDetailDTO(e *entities.Event) eventDetailDTO {
	return eventDetailDTO{
		eventDTO:     toEventDTO(e),
		Participants: toRegistrationDTOs(e.Participants),
	}
}

func toEventDTO(e *entities.Event) eventDTO {
	out := eventDTO{
		ID:                e.ID,
		Title:             e.Title,
		Description:       e.Description,
		Date:              e.Date,
		Location:          e.Location,
		Capacity:          e.Capacity,
		Category:          e.Category,
		RegistrationCount: e.RegistrationCount,
		IsFull:            e.IsFull(),
		CreatedAt:         e.CreatedAt,
	}
	if e.HasOwner() {
		owner := e.OwnerID
		out.OwnerID = &owner
	}
	return out
}

func toEventDTOs(in []entities.Event) []eventDTO {
	out := make([]eventDTO, len(in))
	for i := range in {
		out[i] = toEventDTO(&in[i])
	}
	return out
}

type registrationDTO struct {
	ID            uint       `json:"id"`
	EventID       uint       `json:"event_id"`
	UserID        *uint      `json:"user_id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Department    string     `json:"department"`
	Status        string     `json:"status"`
	RegisteredAt  time.Time  `json:"registered_at"`
	AttendedAt    *time.Time `json:"attended_at"`
	EventTitle    string     `json:"event_title,omitempty"`
	EventDate     string     `json:"event_date,omitempty"`
	EventLocation string     `json:"event_location,omitempty"`
}

func toRegistrationDTO(r *entities.Registration) registrationDTO {
	out := registrationDTO{
		ID:            r.ID,
		EventID:       r.EventID,
		Name:          r.Name,
		Email:         r.Email,
		Department:    r.Department,
		Status:        r.Status,
		RegisteredAt:  r.RegisteredAt,
		EventTitle:    r.EventTitle,
		EventDate:     r.EventDate,
		EventLocation: r.EventLocation,
	}
	if r.UserID != 0 {
		uid := r.UserID
		out.UserID = &uid
	}
	if r.Attended() {
		at := r.AttendedAt
		out.AttendedAt = &at
	}
	return out
}

func toRegistrationDTOs(in []entities.Registration) []registrationDTO {
	out := make([]registrationDTO, len(in))
	for i := range in {
		out[i] = toRegistrationDTO(&in[i])
	}
	return out
}

type attendanceDTO struct {
	ID             uint      `json:"id"`
	RegistrationID uint      `json:"registration_id"`
	EventID        uint      `json:"event_id"`
	AttendedAt     time.Time `json:"attended_at"`
	Message        string    `json:"message,omitempty"`
}

type attendanceEntryDTO struct {
	RegistrationID uint      `json:"registration_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Department     string    `json:"department"`
	AttendedAt     time.Time `json:"attended_at"`
}

func toAttendanceEntryDTOs(in []entities.AttendanceEntry) []attendanceEntryDTO {
	out := make([]attendanceEntryDTO, len(in))
	for i, e := range in {
		out[i] = attendanceEntryDTO(e)
	}
	return out
}

type totalsDTO struct {
	Events        int `json:"events"`
	Registrations int `json:"registrations"`
	Attendance    int `json:"attendance"`
	Attendees     int `json:"attendees"`
}

type departmentDTO struct {
	Department string `json:"department"`
	Count      int    `json:"count"`
}

type eventCountDTO struct {
	EventID       uint   `json:"event_id"`
	Title         string `json:"title"`
	Date          string `json:"date"`
	Registrations int    `json:"registrations"`
	Attendance    int    `json:"attendance"`
}

type categoryDTO struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type reportDTO struct {
	Totals         totalsDTO       `json:"totals"`
	AttendanceRate float64         `json:"attendance_rate"`
	Departments    []departmentDTO `json:"departments"`
	Events         []eventCountDTO `json:"events"`
	Categories     []categoryDTO   `json:"categories"`
}

func toReportDTO(r *entities.Report) reportDTO {
	out := reportDTO{
		Totals:         totalsDTO(r.Totals),
		AttendanceRate: r.AttendanceRate,
		Departments:    make([]departmentDTO, len(r.Departments)),
		Events:         make([]eventCountDTO, len(r.Events)),
		Categories:     make([]categoryDTO, len(r.Categories)),
	}
	for i, d := range r.Departments {
		out.Departments[i] = departmentDTO(d)
	}
	for i, e := range r.Events {
		out.Events[i] = eventCountDTO(e)
	}
	for i, c := range r.Categories {
		out.Categories[i] = categoryDTO(c)
	}
	return out
}

type insightDTO struct {
	Available bool            `json:"available"`
	Kind      string          `json:"kind"`
	Data      json.RawMessage `json:"data,omitempty"`
	Error     string          `json:"error,omitempty"`
}

func toInsightDTO(in entities.Insight) insightDTO {
	return insightDTO{
		Available: in.Available,
		Kind:      string(in.Kind),
		Data:      in.Data,
		Error:     in.Error,
	}
}

type signupRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Department string `json:"department"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type eventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	Capacity    int    `json:"capacity"`
	Category    string `json:"category"`
}

func (e eventRequest) input() application.EventInput {
	return application.EventInput{
		Title:       sanitize.Text(e.Title),
		Description: sanitize.Text(e.Description),
		Date:        e.Date,
		Location:    sanitize.Text(e.Location),
		Capacity:    e.Capacity,
		Category:    sanitize.Text(e.Category),
	}
}

type registerRequest struct {
	EventID    uint   `json:"event_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

type attendanceRequest struct {
	EventID       uint   `json:"event_id"`
	ParticipantID uint   `json:"participant_id"`
	Email         string `json:"email"`
}

type toggleAttendanceRequest struct {
	ParticipantID uint `json:"participant_id"`
	Attended      bool `json:"attended"`
}
