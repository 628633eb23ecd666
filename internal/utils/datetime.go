package utils

import (
	"fmt"
	"strings"
	"time"

	apperrors "carnet-api/internal/errors"
	"carnet-api/internal/models"
)

// French month names, indexed by time.Month - 1.
var monthsFR = [12]string{
	"janvier",
	"février",
	"mars",
	"avril",
	"mai",
	"juin",
	"juillet",
	"août",
	"septembre",
	"octobre",
	"novembre",
	"décembre",
}

// FormatDatetimeFR renders a timestamp in the journal's display
// convention, e.g. "Le 2 Mai 2024 à 10h05".
func FormatDatetimeFR(t time.Time) string {
	month := capitalizeFR(monthsFR[t.Month()-1])
	return fmt.Sprintf("Le %d %s %d à %dh%02d", t.Day(), month, t.Year(), t.Hour(), t.Minute())
}

// Upper-cases the first rune only; month names are stored lower-case
// and several of them start with a non-ASCII letter.
func capitalizeFR(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}

// CombineDateTime merges separate date ("2006-01-02") and time ("15:04")
// form inputs into one timestamp. Missing or unparseable input is an
// ErrInvalidInput.
func CombineDateTime(date, timeOfDay string) (models.LocalTime, error) {
	date = strings.TrimSpace(date)
	timeOfDay = strings.TrimSpace(timeOfDay)

	if date == "" || timeOfDay == "" {
		return models.LocalTime{}, fmt.Errorf("date and time are required: %w", apperrors.ErrInvalidInput)
	}

	combined, err := time.Parse("2006-01-02 15:04", date+" "+timeOfDay)
	if err != nil {
		return models.LocalTime{}, fmt.Errorf("invalid date/time %q %q: %w", date, timeOfDay, apperrors.ErrInvalidInput)
	}

	return models.NewLocalTime(combined), nil
}
