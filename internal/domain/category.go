package domain

import (
	"fmt"
	"strings"
	"time"
)

const MaxLabelLen = 50

// Category groups plans. Deleting a category is a soft delete.
type Category struct {
	ID        string
	Name      string
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Category) IsDeleted() bool {
	return c.DeletedAt != nil
}

// Tag is a free-form label shared between plans.
type Tag struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// ValidateLabel checks a category or tag name.
func ValidateLabel(kind, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: %s name cannot be empty", ErrInvalidName, kind)
	}
	if len(name) > MaxLabelLen {
		return fmt.Errorf("%w: %s name cannot exceed %d characters", ErrInvalidName, kind, MaxLabelLen)
	}
	return nil
}
