package service

// Service holds all business logic services.
type Service struct {
	Recurring *RecurringService
}

// NewService creates a new Service.
func NewService(recurringService *RecurringService) *Service {
	return &Service{
		Recurring: recurringService,
	}
}
