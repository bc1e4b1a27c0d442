package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/darekanikki/diary-backend/internal/clock"
	"github.com/darekanikki/diary-backend/internal/observability"
	"github.com/darekanikki/diary-backend/internal/pkg/logger"
	"github.com/darekanikki/diary-backend/internal/platform/apierr"
	"github.com/darekanikki/diary-backend/internal/repos"
	"github.com/darekanikki/diary-backend/internal/types"
)

// MaxContentRunes bounds entry content, counted in code points so
// multi-byte text is not penalized.
const MaxContentRunes = 10000

type EntryService interface {
	// SaveToday normalizes and persists content under today's date,
	// archiving the previous content first when it differs.
	SaveToday(ctx context.Context, content string) (*types.Entry, error)
	// GetToday returns today's entry, or nil when nothing has been
	// written yet.
	GetToday(ctx context.Context) (*types.Entry, error)
	// GetByDate returns the entry for an exact date key, or nil when
	// absent.
	GetByDate(ctx context.Context, date string) (*types.Entry, error)
	// ListPast returns finalized entries (date before today), newest
	// first.
	ListPast(ctx context.Context, limit int) ([]types.Entry, error)
}

type entryService struct {
	db          *gorm.DB
	log         *logger.Logger
	calendar    *clock.Calendar
	entryRepo   repos.EntryRepo
	versionRepo repos.VersionRepo
}

func NewEntryService(
	db *gorm.DB,
	baseLog *logger.Logger,
	calendar *clock.Calendar,
	entryRepo repos.EntryRepo,
	versionRepo repos.VersionRepo,
) EntryService {
	return &entryService{
		db:          db,
		log:         baseLog.With("service", "EntryService"),
		calendar:    calendar,
		entryRepo:   entryRepo,
		versionRepo: versionRepo,
	}
}

func (s *entryService) SaveToday(ctx context.Context, content string) (*types.Entry, error) {
	normalized := strings.ReplaceAll(content, "\r", "")
	if utf8.RuneCountInString(normalized) > MaxContentRunes {
		observability.Current().ObserveSave("rejected")
		return nil, apierr.BadRequest(fmt.Sprintf("Content too long. Maximum %d characters allowed.", MaxContentRunes))
	}

	today := s.calendar.CurrentDateKey()
	now := s.calendar.NowRFC3339()

	existing, err := s.entryRepo.Get(ctx, nil, today)
	if err != nil {
		s.log.Error("SaveToday: load existing failed", "error", err, "date", today)
		observability.Current().ObserveSave("error")
		return nil, err
	}

	// Snapshot the old content before it is overwritten. Unchanged
	// content archives nothing, so re-saves never grow the history.
	if existing != nil && existing.Content != normalized {
		if err := s.archiveExisting(ctx, today, existing.Content, now); err != nil {
			observability.Current().ObserveSave("error")
			return nil, err
		}
	}

	if err := s.entryRepo.Upsert(ctx, nil, today, normalized, now); err != nil {
		s.log.Error("SaveToday: upsert failed", "error", err, "date", today)
		observability.Current().ObserveSave("error")
		return nil, err
	}

	entry := &types.Entry{
		Date:      today,
		Content:   normalized,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing != nil {
		entry.CreatedAt = existing.CreatedAt
	}
	observability.Current().ObserveSave("saved")
	return entry, nil
}

// archiveExisting appends the outgoing content to the version archive.
// A concurrent save can claim the same version number first; the append
// is retried once with a recomputed number, a second collision
// propagates as a storage fault.
func (s *entryService) archiveExisting(ctx context.Context, date, content, now string) error {
	_, err := s.versionRepo.Append(ctx, nil, date, content, now)
	if errors.Is(err, repos.ErrVersionConflict) {
		s.log.Warn("SaveToday: version number collision, retrying append", "date", date)
		observability.Current().VersionConflict()
		_, err = s.versionRepo.Append(ctx, nil, date, content, now)
	}
	if err != nil {
		s.log.Error("SaveToday: archive previous content failed", "error", err, "date", date)
		return err
	}
	observability.Current().VersionArchived()
	return nil
}

func (s *entryService) GetToday(ctx context.Context) (*types.Entry, error) {
	return s.entryRepo.Get(ctx, nil, s.calendar.CurrentDateKey())
}

func (s *entryService) GetByDate(ctx context.Context, date string) (*types.Entry, error) {
	if !clock.IsValidDateKey(date) {
		return nil, apierr.BadRequest("Invalid date format. Use YYYY-MM-DD.")
	}
	return s.entryRepo.Get(ctx, nil, date)
}

func (s *entryService) ListPast(ctx context.Context, limit int) ([]types.Entry, error) {
	return s.entryRepo.ListRecent(ctx, nil, s.calendar.CurrentDateKey(), limit)
}
