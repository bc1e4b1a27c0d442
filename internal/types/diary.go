package types

// PreviewLength is the code-point budget for list previews.
const PreviewLength = 100

// Entry is one diary day. Date is the canonical YYYY-MM-DD key in JST;
// at most one row exists per key. CreatedAt/UpdatedAt are RFC3339 UTC
// strings so lexicographic order matches time order.
type Entry struct {
	Date      string `gorm:"column:date;primaryKey" json:"date"`
	Content   string `gorm:"column:content;not null" json:"content"`
	CreatedAt string `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt string `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (Entry) TableName() string {
	return "diary_entries"
}

// Preview returns the content cut to PreviewLength code points with a
// marker when truncated.
func (e Entry) Preview() string {
	return truncateRunes(e.Content, PreviewLength)
}

// Version is an immutable snapshot of entry content taken right before
// an overwrite. VersionNumber is 1-based and strictly increasing per
// EntryDate; the composite unique index makes the number assignment
// atomic with the insert. CreatedAt is the archival write instant.
type Version struct {
	ID            int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	EntryDate     string `gorm:"column:entry_date;not null;uniqueIndex:idx_diary_versions_date_number" json:"entry_date"`
	Content       string `gorm:"column:content;not null" json:"content"`
	VersionNumber int    `gorm:"column:version_number;not null;uniqueIndex:idx_diary_versions_date_number" json:"version_number"`
	CreatedAt     string `gorm:"column:created_at;not null" json:"created_at"`
}

func (Version) TableName() string {
	return "diary_versions"
}

func (v Version) Preview() string {
	return truncateRunes(v.Content, PreviewLength)
}

// truncateRunes counts code points, not bytes, so multi-byte characters
// are counted once.
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
