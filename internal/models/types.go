package models

import (
	"database/sql/driver"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// StringList is a text array column. It maps to text[] on PostgreSQL and to
// the array literal encoding in a text column elsewhere.
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "{}", nil
	}
	return pq.StringArray(l).Value()
}

// Scan implements sql.Scanner
func (l *StringList) Scan(src interface{}) error {
	return (*pq.StringArray)(l).Scan(src)
}

// GormDBDataType picks the column type per dialect
func (StringList) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

// Lower returns a lower-cased, trimmed copy
func (l StringList) Lower() []string {
	out := make([]string, 0, len(l))
	for _, s := range l {
		out = append(out, strings.ToLower(strings.TrimSpace(s)))
	}
	return out
}
