package domain

import (
	"regexp"
	"strings"

	apperrors "orderdesk/internal/errors"
)

var (
	phoneCleaner   = regexp.MustCompile(`[^\d+]`)
	phoneFull      = regexp.MustCompile(`^\+380\d{9}$`)
	phoneNoPlus    = regexp.MustCompile(`^380\d{9}$`)
	phoneLocal     = regexp.MustCompile(`^0\d{9}$`)
	trackingNumber = regexp.MustCompile(`^\d{14}$`)
)

// NormalizePhone accepts +380XXXXXXXXX, 380XXXXXXXXX and 0XXXXXXXXX, ignoring
// spaces, dashes and brackets, and returns the +380XXXXXXXXX form.
func NormalizePhone(raw string) (string, error) {
	cleaned := phoneCleaner.ReplaceAllString(raw, "")

	switch {
	case phoneFull.MatchString(cleaned):
		return cleaned, nil
	case phoneNoPlus.MatchString(cleaned):
		return "+" + cleaned, nil
	case phoneLocal.MatchString(cleaned):
		return "+38" + cleaned, nil
	}

	return "", apperrors.NewValidationError(apperrors.CodeInvalidPhone, "invalid phone number", apperrors.ValidationDetail{
		Field:   "phone",
		Message: "phone must look like +380XXXXXXXXX, 380XXXXXXXXX or 0XXXXXXXXX",
	})
}

// ValidateTrackingID checks a carrier waybill number: exactly 14 digits.
func ValidateTrackingID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if !trackingNumber.MatchString(id) {
		return "", apperrors.NewValidationError(apperrors.CodeInvalidTrackingID, "invalid tracking id", apperrors.ValidationDetail{
			Field:   "tracking_id",
			Message: "tracking id must be exactly 14 digits",
		})
	}
	return id, nil
}
