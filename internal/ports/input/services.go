package input

import "eventledger/internal/application"

var (
	_ IdentityUseCase     = (*application.IdentityService)(nil)
	_ EventUseCase        = (*application.EventService)(nil)
	_ RegistrationUseCase = (*application.RegistrationService)(nil)
	_ AttendanceUseCase   = (*application.AttendanceService)(nil)
	_ ReportUseCase       = (*application.ReportService)(nil)
	_ ReminderUseCase     = (*application.ReminderService)(nil)
)
