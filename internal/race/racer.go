package race

import (
	"fmt"
	"strings"

	apperrors "github.com/agbru/threadrace/internal/errors"
)

// Racer identifies one worker of a fan-out.
type Racer struct {
	Name string
	ID   int
}

// DefaultRoster is the line-up of the main race.
func DefaultRoster() []Racer {
	return []Racer{
		{Name: "Lightning Thread", ID: 1},
		{Name: "Speed Daemon", ID: 2},
		{Name: "Turbo Process", ID: 3},
		{Name: "Flash Runner", ID: 4},
		{Name: "Quick Silver", ID: 5},
	}
}

// SprintRoster is the line-up of the bonus sprint race.
func SprintRoster() []Racer {
	return []Racer{
		{Name: "Alpha Sprint", ID: 101},
		{Name: "Beta Dash", ID: 102},
		{Name: "Gamma Flash", ID: 103},
	}
}

// ValidateRoster rejects an empty roster, blank names and duplicate names.
func ValidateRoster(racers []Racer) error {
	if len(racers) == 0 {
		return apperrors.ValidationError{Field: "racers", Message: "at least one racer is required"}
	}
	seen := make(map[string]struct{}, len(racers))
	for i, r := range racers {
		if strings.TrimSpace(r.Name) == "" {
			return apperrors.ValidationError{Field: "racers", Message: fmt.Sprintf("racer #%d has no name", i+1)}
		}
		if _, dup := seen[r.Name]; dup {
			return apperrors.ValidationError{Field: "racers", Message: fmt.Sprintf("duplicate racer %q", r.Name)}
		}
		seen[r.Name] = struct{}{}
	}
	return nil
}
