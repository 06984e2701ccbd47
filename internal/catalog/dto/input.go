package dto

type PushInput struct {
	ProductID   string
	PerformedBy string
}

type LogFilters struct {
	ProductID string
	Query     string // Full-text over details and error message
	Limit     int
}
