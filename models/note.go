package models

import "time"

type NoteAuthor string

const (
	AuthorClient     NoteAuthor = "client"
	AuthorConsultant NoteAuthor = "consultant"
	AuthorSystem     NoteAuthor = "system"
)

// Note is one message in a consultation's discussion thread.
// Notes are append-only and displayed oldest first.
type Note struct {
	ID             string     `gorm:"type:uuid;primaryKey" json:"id"`
	ConsultationID string     `gorm:"type:uuid;not null;index" json:"consultation_id"`
	Content        string     `gorm:"type:text;not null" json:"content"`
	AuthorType     NoteAuthor `gorm:"size:10;not null" json:"author_type"`
	CreatedAt      time.Time  `json:"created_at"`
}
