package models

// ConsultationType is one bookable package (duration + price).
type ConsultationType struct {
	ID              string `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string `gorm:"size:100;not null" json:"name"`
	Description     string `gorm:"type:text" json:"description,omitempty"`
	DurationMinutes int    `gorm:"not null" json:"duration_minutes"`
	Price           int64  `json:"price,omitempty"`
	Color           string `gorm:"size:10" json:"color,omitempty"`
	IsActive        bool   `gorm:"default:true" json:"is_active"`
}

// DefaultConsultationTypes is served when no types are configured in
// the database yet.
var DefaultConsultationTypes = []ConsultationType{
	{
		ID:              "basic-30",
		Name:            "Basic (30 min)",
		Description:     "Business discovery, 1:1 call, Q&A, next-step suggestions",
		DurationMinutes: 30,
		Price:           299000,
		Color:           "#22d3ee",
		IsActive:        true,
	},
	{
		ID:              "standard-60",
		Name:            "Standard (60 min)",
		Description:     "Basic plus process analysis, detailed proposal, cost estimate, PDF summary",
		DurationMinutes: 60,
		Price:           499000,
		Color:           "#3b82f6",
		IsActive:        true,
	},
	{
		ID:              "premium-120",
		Name:            "Premium (120 min)",
		Description:     "Standard plus live demo, 3-6 month roadmap, detailed report, free 30 min follow-up",
		DurationMinutes: 120,
		Price:           999000,
		Color:           "#a855f7",
		IsActive:        true,
	},
}
