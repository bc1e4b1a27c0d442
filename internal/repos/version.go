package repos

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/darekanikki/diary-backend/internal/pkg/logger"
	"github.com/darekanikki/diary-backend/internal/types"
)

type VersionRepo interface {
	// NextNumber is 1 + max(version_number) for the date, or 1 when the
	// date has no versions.
	NextNumber(ctx context.Context, tx *gorm.DB, date string) (int, error)
	// Append writes an immutable archive record numbered NextNumber.
	// The (entry_date, version_number) unique index makes the number
	// assignment atomic with the insert; a lost race surfaces as
	// ErrVersionConflict.
	Append(ctx context.Context, tx *gorm.DB, date, content, now string) (*types.Version, error)
	// ListByDate returns all versions for a date, newest number first.
	ListByDate(ctx context.Context, tx *gorm.DB, date string) ([]types.Version, error)
	// Get returns an exact version, or nil when absent.
	Get(ctx context.Context, tx *gorm.DB, date string, number int) (*types.Version, error)
}

type versionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVersionRepo(db *gorm.DB, baseLog *logger.Logger) VersionRepo {
	repoLog := baseLog.With("repo", "VersionRepo")
	return &versionRepo{db: db, log: repoLog}
}

func (vr *versionRepo) NextNumber(ctx context.Context, tx *gorm.DB, date string) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}

	var current int
	if err := transaction.WithContext(ctx).
		Model(&types.Version{}).
		Where("entry_date = ?", date).
		Select("COALESCE(MAX(version_number), 0)").
		Scan(&current).Error; err != nil {
		return 0, err
	}
	return current + 1, nil
}

func (vr *versionRepo) Append(ctx context.Context, tx *gorm.DB, date, content, now string) (*types.Version, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}

	next, err := vr.NextNumber(ctx, transaction, date)
	if err != nil {
		return nil, err
	}

	version := &types.Version{
		EntryDate:     date,
		Content:       content,
		VersionNumber: next,
		CreatedAt:     now,
	}
	if err := transaction.WithContext(ctx).Create(version).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, fmt.Errorf("%w: %s version %d", ErrVersionConflict, date, next)
		}
		return nil, err
	}
	return version, nil
}

func (vr *versionRepo) ListByDate(ctx context.Context, tx *gorm.DB, date string) ([]types.Version, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}

	var results []types.Version
	if err := transaction.WithContext(ctx).
		Where("entry_date = ?", date).
		Order("version_number DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (vr *versionRepo) Get(ctx context.Context, tx *gorm.DB, date string, number int) (*types.Version, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}

	var version types.Version
	err := transaction.WithContext(ctx).
		Where("entry_date = ? AND version_number = ?", date, number).
		First(&version).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &version, nil
}
