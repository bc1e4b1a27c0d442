package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/darekanikki/diary-backend/internal/clock"
	"github.com/darekanikki/diary-backend/internal/pkg/logger"
	"github.com/darekanikki/diary-backend/internal/platform/apierr"
	"github.com/darekanikki/diary-backend/internal/repos"
	"github.com/darekanikki/diary-backend/internal/types"
)

type VersionService interface {
	// ListForDate returns the live entry (nil when none) and every
	// archived version for a date, newest number first.
	ListForDate(ctx context.Context, date string) (*types.Entry, []types.Version, error)
	// GetVersion returns one archived version, or nil when the date
	// has no version with that number.
	GetVersion(ctx context.Context, date string, number int) (*types.Version, error)
}

type versionService struct {
	db          *gorm.DB
	log         *logger.Logger
	entryRepo   repos.EntryRepo
	versionRepo repos.VersionRepo
}

func NewVersionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	entryRepo repos.EntryRepo,
	versionRepo repos.VersionRepo,
) VersionService {
	return &versionService{
		db:          db,
		log:         baseLog.With("service", "VersionService"),
		entryRepo:   entryRepo,
		versionRepo: versionRepo,
	}
}

func (s *versionService) ListForDate(ctx context.Context, date string) (*types.Entry, []types.Version, error) {
	if !clock.IsValidDateKey(date) {
		return nil, nil, apierr.BadRequest("Invalid date format. Use YYYY-MM-DD.")
	}

	current, err := s.entryRepo.Get(ctx, nil, date)
	if err != nil {
		s.log.Error("ListForDate: load entry failed", "error", err, "date", date)
		return nil, nil, err
	}
	versions, err := s.versionRepo.ListByDate(ctx, nil, date)
	if err != nil {
		s.log.Error("ListForDate: load versions failed", "error", err, "date", date)
		return nil, nil, err
	}
	return current, versions, nil
}

func (s *versionService) GetVersion(ctx context.Context, date string, number int) (*types.Version, error) {
	if !clock.IsValidDateKey(date) {
		return nil, apierr.BadRequest("Invalid date format. Use YYYY-MM-DD.")
	}
	return s.versionRepo.Get(ctx, nil, date, number)
}
