package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/timeclock/backend/internal/domain/shared"
	"github.com/timeclock/backend/internal/domain/timetracking"
	"github.com/timeclock/backend/internal/infrastructure/persistence/models"
)

// GormTimeEntryRepository implements TimeEntryRepository using GORM
type GormTimeEntryRepository struct {
	db *gorm.DB
}

// NewGormTimeEntryRepository creates a new GormTimeEntryRepository
func NewGormTimeEntryRepository(db *gorm.DB) *GormTimeEntryRepository {
	return &GormTimeEntryRepository{db: db}
}

// FindByID finds a time entry by its ID
func (r *GormTimeEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*timetracking.TimeEntry, error) {
	var model models.TimeEntryModel
	if err := r.withBreaks(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveByUser returns the user's open entry, newest first when a
// duplicate slipped in, so callers adopting an entry get the winning one
func (r *GormTimeEntryRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*timetracking.TimeEntry, error) {
	var model models.TimeEntryModel
	err := r.withBreaks(ctx).
		Where("user_id = ? AND status = ?", userID, timetracking.EntryStatusActive).
		Order("created_at DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllActiveByUser returns every open entry for the user, newest first
func (r *GormTimeEntryRepository) FindAllActiveByUser(ctx context.Context, userID uuid.UUID) ([]*timetracking.TimeEntry, error) {
	var modelList []models.TimeEntryModel
	err := r.withBreaks(ctx).
		Where("user_id = ? AND status = ?", userID, timetracking.EntryStatusActive).
		Order("created_at DESC").
		Find(&modelList).Error
	if err != nil {
		return nil, err
	}
	return toDomainList(modelList), nil
}

// FindByUserAndRange returns the user's entries with clock-in in [from, to)
func (r *GormTimeEntryRepository) FindByUserAndRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*timetracking.TimeEntry, error) {
	var modelList []models.TimeEntryModel
	err := r.withBreaks(ctx).
		Where("user_id = ? AND clock_in >= ? AND clock_in < ?", userID, from, to).
		Order("clock_in ASC").
		Find(&modelList).Error
	if err != nil {
		return nil, err
	}
	return toDomainList(modelList), nil
}

// CreateActive persists a new active entry unless the user already has one.
// Check and insert share a transaction so the one-active-entry invariant is
// as close to an atomic conditional write as the store allows.
func (r *GormTimeEntryRepository) CreateActive(ctx context.Context, entry *timetracking.TimeEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.TimeEntryModel{}).
			Where("user_id = ? AND status = ?", entry.UserID, timetracking.EntryStatusActive).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return shared.ErrAlreadyExists
		}
		return tx.Create(models.TimeEntryModelFromDomain(entry)).Error
	})
}

// Save persists the current state of an entry, upserting its breaks
func (r *GormTimeEntryRepository) Save(ctx context.Context, entry *timetracking.TimeEntry) error {
	model := models.TimeEntryModelFromDomain(entry)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Breaks").Save(model).Error; err != nil {
			return err
		}
		for i := range model.Breaks {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).Create(&model.Breaks[i]).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// FindStaleActive returns open entries across all users whose clock-in is
// before the cutoff
func (r *GormTimeEntryRepository) FindStaleActive(ctx context.Context, before time.Time) ([]*timetracking.TimeEntry, error) {
	var modelList []models.TimeEntryModel
	err := r.withBreaks(ctx).
		Where("status = ? AND clock_in < ?", timetracking.EntryStatusActive, before).
		Order("clock_in ASC").
		Find(&modelList).Error
	if err != nil {
		return nil, err
	}
	return toDomainList(modelList), nil
}

// withBreaks preloads breaks in start order so break sequence survives the
// round-trip
func (r *GormTimeEntryRepository) withBreaks(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Breaks", func(db *gorm.DB) *gorm.DB {
		return db.Order("break_periods.start_time ASC")
	})
}

func toDomainList(modelList []models.TimeEntryModel) []*timetracking.TimeEntry {
	entries := make([]*timetracking.TimeEntry, len(modelList))
	for i := range modelList {
		entries[i] = modelList[i].ToDomain()
	}
	return entries
}

var _ timetracking.TimeEntryRepository = (*GormTimeEntryRepository)(nil)
