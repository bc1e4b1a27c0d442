package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/darekanikki/diary-backend/internal/pkg/logger"
	"github.com/darekanikki/diary-backend/internal/types"
)

type EntryRepo interface {
	// Get returns the entry for a date key, or nil when absent.
	Get(ctx context.Context, tx *gorm.DB, date string) (*types.Entry, error)
	// ListRecent returns entries ordered by date descending, capped at
	// limit. A non-empty before excludes that date and everything after
	// it (used to keep today's in-progress entry out of feeds and
	// archives).
	ListRecent(ctx context.Context, tx *gorm.DB, before string, limit int) ([]types.Entry, error)
	// Upsert inserts or replaces the entry for a date in one atomic
	// statement: first write sets created_at = updated_at = now, later
	// writes preserve created_at and replace content/updated_at.
	Upsert(ctx context.Context, tx *gorm.DB, date, content, now string) error
}

type entryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEntryRepo(db *gorm.DB, baseLog *logger.Logger) EntryRepo {
	repoLog := baseLog.With("repo", "EntryRepo")
	return &entryRepo{db: db, log: repoLog}
}

func (er *entryRepo) Get(ctx context.Context, tx *gorm.DB, date string) (*types.Entry, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var entry types.Entry
	err := transaction.WithContext(ctx).
		Where("date = ?", date).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (er *entryRepo) ListRecent(ctx context.Context, tx *gorm.DB, before string, limit int) ([]types.Entry, error) {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	var results []types.Entry
	query := transaction.WithContext(ctx).Model(&types.Entry{})
	if before != "" {
		query = query.Where("date < ?", before)
	}
	if err := query.
		Order("date DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (er *entryRepo) Upsert(ctx context.Context, tx *gorm.DB, date, content, now string) error {
	transaction := tx
	if transaction == nil {
		transaction = er.db
	}

	entry := types.Entry{
		Date:      date,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at"}),
		}).
		Create(&entry).Error
}
