package repos

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrVersionConflict reports that an archive insert lost the race for a
// version number: another writer committed the same (entry_date,
// version_number) first. Callers may retry once with a recomputed
// number.
var ErrVersionConflict = errors.New("version number conflict")

// isDuplicateKey reports whether err is a unique constraint violation.
// Postgres surfaces pgconn.PgError 23505, sqlite a "UNIQUE constraint
// failed" message.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.TrimSpace(pgErr.Code) == "23505" {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
