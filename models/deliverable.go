package models

import "time"

// Deliverable is a file or link artifact produced for one consultation.
// The client surface only ever reads these.
type Deliverable struct {
	ID             string    `gorm:"type:uuid;primaryKey" json:"id"`
	ConsultationID string    `gorm:"type:uuid;not null;index" json:"consultation_id"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	Description    string    `gorm:"type:text" json:"description,omitempty"`
	FileURL        string    `gorm:"size:500" json:"file_url,omitempty"`
	FileType       string    `gorm:"size:20" json:"file_type,omitempty"` // pdf, doc, spreadsheet, presentation, video, link
	Category       string    `gorm:"size:50" json:"category,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
