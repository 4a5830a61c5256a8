package models

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"consulthub/monitoring"
)

var ErrNotFound = errors.New("record not found")

// Repository is the record store boundary. Consultations are never
// deleted through it; cancellation goes through UpdateConsultation.
type Repository interface {
	ListConsultationsByClientEmail(email string) ([]Consultation, error)
	GetConsultationByID(id string) (*Consultation, error)
	ListConsultationsByDate(date string, statuses []ConsultationStatus) ([]Consultation, error)
	CreateConsultation(c *Consultation) error
	UpdateConsultation(id string, fields map[string]any) error

	ListDeliverables(consultationID string) ([]Deliverable, error)

	ListActionItems(consultationID string) ([]ActionItem, error)
	GetActionItemByID(id string) (*ActionItem, error)
	UpdateActionItem(id string, fields map[string]any) error

	ListNotes(consultationID string) ([]Note, error)
	CreateNote(n *Note) error

	ListConsultationTypes() ([]ConsultationType, error)

	Close() error
}

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgresRepository() (*PostgresRepository, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&Consultation{}, &Deliverable{}, &ActionItem{}, &Note{}, &ConsultationType{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// NewRepositoryWithDB wraps an already opened connection. Tests use it
// with an in-memory sqlite database.
func NewRepositoryWithDB(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListConsultationsByClientEmail(email string) ([]Consultation, error) {
	monitoring.RecordStoreQueries.Inc()
	var consultations []Consultation
	err := r.db.
		Where("client_email = ?", email).
		Order("consultation_date DESC").
		Order("start_time DESC").
		Find(&consultations).Error
	if err != nil {
		return nil, err
	}
	return consultations, nil
}

func (r *PostgresRepository) GetConsultationByID(id string) (*Consultation, error) {
	monitoring.RecordStoreQueries.Inc()
	var c Consultation
	if err := r.db.First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *PostgresRepository) ListConsultationsByDate(date string, statuses []ConsultationStatus) ([]Consultation, error) {
	monitoring.RecordStoreQueries.Inc()
	var consultations []Consultation
	q := r.db.Where("consultation_date = ?", date)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	if err := q.Order("start_time").Find(&consultations).Error; err != nil {
		return nil, err
	}
	return consultations, nil
}

func (r *PostgresRepository) CreateConsultation(c *Consultation) error {
	monitoring.RecordStoreQueries.Inc()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return r.db.Create(c).Error
}

func (r *PostgresRepository) UpdateConsultation(id string, fields map[string]any) error {
	monitoring.RecordStoreQueries.Inc()
	res := r.db.Model(&Consultation{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) ListDeliverables(consultationID string) ([]Deliverable, error) {
	monitoring.RecordStoreQueries.Inc()
	var deliverables []Deliverable
	err := r.db.
		Where("consultation_id = ?", consultationID).
		Order("created_at DESC").
		Find(&deliverables).Error
	if err != nil {
		return nil, err
	}
	return deliverables, nil
}

// ListActionItems orders by due date ascending with undated items last.
func (r *PostgresRepository) ListActionItems(consultationID string) ([]ActionItem, error) {
	monitoring.RecordStoreQueries.Inc()
	var items []ActionItem
	err := r.db.
		Where("consultation_id = ?", consultationID).
		Order("due_date IS NULL").
		Order("due_date ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) GetActionItemByID(id string) (*ActionItem, error) {
	monitoring.RecordStoreQueries.Inc()
	var item ActionItem
	if err := r.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) UpdateActionItem(id string, fields map[string]any) error {
	monitoring.RecordStoreQueries.Inc()
	res := r.db.Model(&ActionItem{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) ListNotes(consultationID string) ([]Note, error) {
	monitoring.RecordStoreQueries.Inc()
	var notes []Note
	err := r.db.
		Where("consultation_id = ?", consultationID).
		Order("created_at ASC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *PostgresRepository) CreateNote(n *Note) error {
	monitoring.RecordStoreQueries.Inc()
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return r.db.Create(n).Error
}

func (r *PostgresRepository) ListConsultationTypes() ([]ConsultationType, error) {
	monitoring.RecordStoreQueries.Inc()
	var types []ConsultationType
	err := r.db.
		Where("is_active = ?", true).
		Order("duration_minutes").
		Find(&types).Error
	if err != nil {
		return nil, err
	}
	return types, nil
}

func (r *PostgresRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
