package validation

import (
	"strings"
	"time"

	"github.com/palpal-apps/work-tracker/internal/domain"
)

// EntryValidator provides validation for entry-related operations. These are
// the only hard-stop errors in the core: a failed validation rejects the
// mutation before any state change.
type EntryValidator struct{}

// NewEntryValidator creates a new entry validator
func NewEntryValidator() *EntryValidator {
	return &EntryValidator{}
}

// CleanTags splits a comma-separated tag input into trimmed, non-empty tags.
func CleanTags(input string) []string {
	var tags []string
	for _, t := range strings.Split(input, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// ValidateManualSubEntry validates a manually-added sub-interval against its
// parent entry. An open parent is bounded by now on the right.
func (ev *EntryValidator) ValidateManualSubEntry(parent domain.TimeEntry, tag string, clockIn, clockOut time.Time, now time.Time) error {
	validationError := NewValidationError()

	if strings.TrimSpace(tag) == "" {
		validationError.AddRequiredError("tag")
	}
	if clockIn.IsZero() {
		validationError.AddRequiredError("clock_in")
	}
	if clockOut.IsZero() {
		validationError.AddRequiredError("clock_out")
	}
	if validationError.HasErrors() {
		return validationError
	}

	parentEnd := now
	if parent.ClockOut != nil {
		parentEnd = *parent.ClockOut
	}

	if clockIn.Before(parent.ClockIn) {
		validationError.AddInvalidRangeError("clock_in", clockIn, "is before the parent session start")
	}
	if clockOut.After(parentEnd) {
		validationError.AddInvalidRangeError("clock_out", clockOut, "is after the parent session end")
	}

	if validationError.HasErrors() {
		return validationError
	}
	return nil
}

// ValidateCustomRange validates a custom report period.
func (ev *EntryValidator) ValidateCustomRange(start, end time.Time) error {
	validationError := NewValidationError()

	if start.IsZero() {
		validationError.AddRequiredError("start_date")
	}
	if end.IsZero() {
		validationError.AddRequiredError("end_date")
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		validationError.AddInvalidRangeError("date_range", map[string]time.Time{
			"start": start,
			"end":   end,
		}, "end date must not be before start date")
	}

	if validationError.HasErrors() {
		return validationError
	}
	return nil
}

// ValidateTags validates a tag list for session start or tag updates.
func (ev *EntryValidator) ValidateTags(tags []string) error {
	validationError := NewValidationError()

	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			validationError.AddInvalidValueError("tags", tag, "tags must not be blank")
			break
		}
	}

	if validationError.HasErrors() {
		return validationError
	}
	return nil
}
