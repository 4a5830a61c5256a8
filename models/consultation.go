package models

import "time"

type ConsultationStatus string

const (
	StatusPending   ConsultationStatus = "pending"
	StatusConfirmed ConsultationStatus = "confirmed"
	StatusCancelled ConsultationStatus = "cancelled"
	StatusCompleted ConsultationStatus = "completed"
	StatusNoShow    ConsultationStatus = "no_show"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentConfirmed PaymentStatus = "confirmed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Consultation is one booked advisory engagement. It is never physically
// deleted: cancellation is a status update that keeps the row.
type Consultation struct {
	ID                 string             `gorm:"type:uuid;primaryKey" json:"id"`
	ClientName         string             `gorm:"size:100;not null" json:"client_name"`
	ClientEmail        string             `gorm:"size:100;not null;index" json:"client_email"`
	ClientPhone        string             `gorm:"size:20" json:"client_phone,omitempty"`
	ConsultationDate   string             `gorm:"size:10;not null;index" json:"consultation_date"` // YYYY-MM-DD
	StartTime          string             `gorm:"size:5;not null" json:"start_time"`               // HH:MM
	EndTime            string             `gorm:"size:5;not null" json:"end_time"`
	DurationMinutes    int                `gorm:"not null" json:"duration_minutes"`
	Status             ConsultationStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	ConsultationType   string             `gorm:"size:100" json:"consultation_type,omitempty"`
	Notes              string             `gorm:"type:text" json:"notes,omitempty"`
	MeetingLink        string             `gorm:"size:255" json:"meeting_link,omitempty"`
	PaymentStatus      PaymentStatus      `gorm:"size:20" json:"payment_status,omitempty"`
	PaymentAmount      int64              `json:"payment_amount,omitempty"`
	CancelledAt        *time.Time         `json:"cancelled_at,omitempty"`
	CancellationReason string             `gorm:"type:text" json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}
