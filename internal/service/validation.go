package service

import (
	"fmt"
	"strings"
)

// Input limits for user-entered task fields.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 5000
	MaxLabels            = 20
	MaxLabelLength       = 50
)

// validateTaskInput collects every problem with in and reports them as one
// ErrInvalidInput.
func validateTaskInput(in TaskInput) error {
	var errs []string

	title := strings.TrimSpace(in.Title)
	if title == "" {
		errs = append(errs, "title is required")
	} else if len(title) > MaxTitleLength {
		errs = append(errs, fmt.Sprintf("title too long (max %d characters)", MaxTitleLength))
	}

	if len(in.Description) > MaxDescriptionLength {
		errs = append(errs, fmt.Sprintf("description too long (max %d characters)", MaxDescriptionLength))
	}

	if in.EstimatedEffort < 0 {
		errs = append(errs, "estimated effort cannot be negative")
	}

	if len(in.Labels) > MaxLabels {
		errs = append(errs, fmt.Sprintf("too many labels (max %d)", MaxLabels))
	}
	for _, l := range in.Labels {
		if len(l) > MaxLabelLength {
			errs = append(errs, fmt.Sprintf("label too long (max %d characters)", MaxLabelLength))
			break
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(errs, "; "))
	}
	return nil
}

func validateLabel(label string) error {
	if label == "" {
		return fmt.Errorf("%w: label is required", ErrInvalidInput)
	}
	if len(label) > MaxLabelLength {
		return fmt.Errorf("%w: label too long (max %d characters)", ErrInvalidInput, MaxLabelLength)
	}
	return nil
}
