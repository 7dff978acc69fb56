package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrEmptyCode indicates the code is empty
	ErrEmptyCode = errors.New("code cannot be empty")

	// ErrInvalidLength indicates the code has the wrong number of characters
	ErrInvalidLength = errors.New("code has an invalid length")

	// ErrInvalidFormat indicates the code contains invalid characters
	ErrInvalidFormat = errors.New("code contains invalid characters")
)

// airportRegex matches IATA airport codes (three letters)
var airportRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// airlineRegex matches IATA (two characters) or ICAO (three letters) airline codes
var airlineRegex = regexp.MustCompile(`^[A-Z0-9]{2,3}$`)

// CodeValidator handles validation of airport and airline codes
type CodeValidator struct{}

// NewCodeValidator creates a new code validator instance
func NewCodeValidator() *CodeValidator {
	return &CodeValidator{}
}

// ValidateAirport validates an IATA airport code.
// Accepts " lim ", "Lim" or "LIM"; returns the sanitized upper-case code.
func (v *CodeValidator) ValidateAirport(code string) (string, error) {
	sanitized := v.Sanitize(code)
	if sanitized == "" {
		return "", ErrEmptyCode
	}

	if len(sanitized) != 3 {
		return "", ErrInvalidLength
	}

	if !airportRegex.MatchString(sanitized) {
		return "", ErrInvalidFormat
	}

	return sanitized, nil
}

// ValidateAirline validates an airline code (IATA or ICAO)
func (v *CodeValidator) ValidateAirline(code string) (string, error) {
	sanitized := v.Sanitize(code)
	if sanitized == "" {
		return "", ErrEmptyCode
	}

	if len(sanitized) < 2 || len(sanitized) > 3 {
		return "", ErrInvalidLength
	}

	if !airlineRegex.MatchString(sanitized) {
		return "", ErrInvalidFormat
	}

	return sanitized, nil
}

// IsValidAirport checks if the code is a valid airport code without returning error details
func (v *CodeValidator) IsValidAirport(code string) bool {
	_, err := v.ValidateAirport(code)
	return err == nil
}

// Sanitize trims surrounding whitespace and upper-cases the code
func (v *CodeValidator) Sanitize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
