package db

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/darekanikki/diary-backend/internal/pkg/logger"
	"github.com/darekanikki/diary-backend/internal/types"
	"github.com/darekanikki/diary-backend/internal/utils"
)

// DatabaseService owns the gorm handle. The diary runs on sqlite by
// default (single small table pair, one process) and on postgres when
// DB_DRIVER=postgres.
type DatabaseService struct {
	db  *gorm.DB
	log *logger.Logger
}

func New(logg *logger.Logger) (*DatabaseService, error) {
	serviceLog := logg.With("service", "DatabaseService")

	driver := utils.GetEnv("DB_DRIVER", "sqlite", logg)

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	cfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	}

	var (
		db  *gorm.DB
		err error
	)
	switch driver {
	case "postgres":
		dsn := utils.GetEnv("DATABASE_URL", "", logg)
		if dsn == "" {
			postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", logg)
			postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", logg)
			postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", logg)
			postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", logg)
			postgresName := utils.GetEnv("POSTGRES_NAME", "diary", logg)
			dsn = fmt.Sprintf(
				"postgres://%s:%s@%s:%s/%s?sslmode=disable",
				postgresUser,
				postgresPassword,
				postgresHost,
				postgresPort,
				postgresName,
			)
		}
		serviceLog.Info("Connecting to Postgres...")
		db, err = gorm.Open(postgres.Open(dsn), cfg)
	case "sqlite":
		path := utils.GetEnv("SQLITE_PATH", "diary.db", logg)
		serviceLog.Info("Opening sqlite database...", "path", path)
		db, err = gorm.Open(sqlite.Open(path), cfg)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	return &DatabaseService{db: db, log: serviceLog}, nil
}

// AutoMigrateAll creates the entries table and the versions table with
// the (entry_date, version_number) unique index. No foreign key from
// versions to entries: an archive record may outlive, or briefly
// precede, its entry row.
func (s *DatabaseService) AutoMigrateAll() error {
	s.log.Info("Auto migrating diary tables...")
	err := s.db.AutoMigrate(
		&types.Entry{},
		&types.Version{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for diary tables", "error", err)
		return err
	}
	return nil
}

func (s *DatabaseService) DB() *gorm.DB { return s.db }

func (s *DatabaseService) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *DatabaseService) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
