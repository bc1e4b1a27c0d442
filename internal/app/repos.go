package app

import (
	"gorm.io/gorm"

	"github.com/darekanikki/diary-backend/internal/pkg/logger"
	"github.com/darekanikki/diary-backend/internal/repos"
)

type Repos struct {
	Entry   repos.EntryRepo
	Version repos.VersionRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Entry:   repos.NewEntryRepo(db, log),
		Version: repos.NewVersionRepo(db, log),
	}
}
