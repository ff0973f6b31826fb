package db

import (
	"fmt"

	"gorm.io/gorm"
)

const maxSlugAttempts = 1000

// uniqueSlug appends -2, -3, ... to base until no row of model uses it.
func uniqueSlug(tx *gorm.DB, model interface{}, base string) (string, error) {
	candidate := base
	for attempt := 2; attempt <= maxSlugAttempts; attempt++ {
		var count int64
		if err := tx.Session(&gorm.Session{NewDB: true}).
			Model(model).
			Where("slug = ?", candidate).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, attempt)
	}
	return "", fmt.Errorf("no free slug for %q", base)
}
