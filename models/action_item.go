package models

import "time"

type ActionItemStatus string

const (
	ActionPending    ActionItemStatus = "pending"
	ActionInProgress ActionItemStatus = "in_progress"
	ActionCompleted  ActionItemStatus = "completed"
	ActionCancelled  ActionItemStatus = "cancelled"
)

type ActionItemPriority string

const (
	PriorityLow    ActionItemPriority = "low"
	PriorityMedium ActionItemPriority = "medium"
	PriorityHigh   ActionItemPriority = "high"
	PriorityUrgent ActionItemPriority = "urgent"
)

type ActionItemAssignee string

const (
	AssigneeClient     ActionItemAssignee = "client"
	AssigneeConsultant ActionItemAssignee = "consultant"
	AssigneeBoth       ActionItemAssignee = "both"
)

// ActionItem is a follow-up task attached to one consultation.
// CompletedAt is set iff Status is completed.
type ActionItem struct {
	ID             string             `gorm:"type:uuid;primaryKey" json:"id"`
	ConsultationID string             `gorm:"type:uuid;not null;index" json:"consultation_id"`
	Title          string             `gorm:"size:255;not null" json:"title"`
	Description    string             `gorm:"type:text" json:"description,omitempty"`
	DueDate        *time.Time         `json:"due_date,omitempty"`
	Priority       ActionItemPriority `gorm:"size:10;not null;default:'medium'" json:"priority"`
	Status         ActionItemStatus   `gorm:"size:20;not null;default:'pending'" json:"status"`
	AssignedTo     ActionItemAssignee `gorm:"size:10;not null;default:'client'" json:"assigned_to"`
	CompletedAt    *time.Time         `json:"completed_at,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}
