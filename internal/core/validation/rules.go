package validation

import (
	"regexp"
	"strings"

	"github.com/kirillkom/document-extractor/internal/core/domain"
)

var (
	// 5 letters + 4 digits + 1 letter.
	panPattern = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	nonDigits  = regexp.MustCompile(`\D`)
)

func validatePANCard(res *domain.ExtractionResult) []domain.ValidationError {
	var errs []domain.ValidationError
	if pan := strings.TrimSpace(res.Fields["pan_number"].Value); pan != "" && !panPattern.MatchString(pan) {
		errs = append(errs, domain.ValidationError{
			Field:   "pan_number",
			Message: "PAN number must be in the format: 5 letters + 4 digits + 1 letter",
		})
	}
	return errs
}

func validateAadhaarCard(res *domain.ExtractionResult) []domain.ValidationError {
	var errs []domain.ValidationError
	if raw := strings.TrimSpace(res.Fields["aadhaar_number"].Value); raw != "" {
		if digits := nonDigits.ReplaceAllString(raw, ""); len(digits) != 12 {
			errs = append(errs, domain.ValidationError{
				Field:   "aadhaar_number",
				Message: "Aadhaar number must contain exactly 12 digits",
			})
		}
	}
	return errs
}

func validateDrivingLicense(res *domain.ExtractionResult) []domain.ValidationError {
	var errs []domain.ValidationError
	issue, issueErr := ParseDate(res.Fields["issue_date"].Value)
	expiry, expiryErr := ParseDate(res.Fields["expiry_date"].Value)
	if issueErr == nil && expiryErr == nil && !expiry.After(issue) {
		errs = append(errs, domain.ValidationError{
			Field:   "expiry_date",
			Message: "Expiry date must be after issue date",
		})
	}
	return errs
}

func validateRentalAgreement(res *domain.ExtractionResult) []domain.ValidationError {
	var errs []domain.ValidationError
	start, startErr := ParseDate(res.Fields["lease_start_date"].Value)
	end, endErr := ParseDate(res.Fields["lease_end_date"].Value)
	if startErr == nil && endErr == nil && !end.After(start) {
		errs = append(errs, domain.ValidationError{
			Field:   "lease_end_date",
			Message: "Lease end date must be after start date",
		})
	}
	return errs
}
