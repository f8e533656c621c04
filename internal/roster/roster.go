// Package roster contains the participant roster: who is enrolled in which quizzes and the scores they achieved.
package roster

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"strings"
)

// Participant is the enrollment and score record of a single participant.
// A nil score means the quiz has not been scored yet.
type Participant struct {
	Quizzes []string            `json:"quizzes"`
	Scores  map[string]*float64 `json:"scores"`
}

// Roster maps participant names to their record.
type Roster map[string]Participant

// Store represents a roster store.
// This can be implemented for different backends.
type Store interface {
	// Ping returns the status of the backend.
	Ping(ctx context.Context) error
	// Enroll creates a participant for every name that is not in the roster yet. Existing participants are left
	// untouched. It returns the roster after enrollment.
	Enroll(ctx context.Context, names []string, quizIDs []string) (Roster, error)
	// RecordScore sets the score of a participant for a quiz. Unknown participants are ignored. It returns the roster
	// after the update.
	RecordScore(ctx context.Context, name, quizID string, score float64) (Roster, error)
	// List returns the whole roster.
	List(ctx context.Context) (Roster, error)
}

// ParseNames splits a comma-separated list of names and trims the whitespace around each of them.
// Empty entries are kept, so "" yields a single empty name.
func ParseNames(s string) []string {
	names := strings.Split(s, ",")
	for i, n := range names {
		names[i] = strings.TrimSpace(n)
	}

	return names
}

// NewParticipant returns a participant enrolled in quizIDs with an unset score for each of them.
func NewParticipant(quizIDs []string) Participant {
	p := Participant{
		Quizzes: make([]string, len(quizIDs)),
		Scores:  make(map[string]*float64, len(quizIDs)),
	}
	copy(p.Quizzes, quizIDs)
	for _, id := range quizIDs {
		p.Scores[id] = nil
	}

	return p
}

// Clone returns a deep copy of the participant.
func (p Participant) Clone() Participant {
	c := Participant{
		Quizzes: slices.Clone(p.Quizzes),
		Scores:  make(map[string]*float64, len(p.Scores)),
	}
	if c.Quizzes == nil {
		c.Quizzes = []string{}
	}
	for id, score := range p.Scores {
		if score == nil {
			c.Scores[id] = nil

			continue
		}
		v := *score
		c.Scores[id] = &v
	}

	return c
}

// Clone returns a deep copy of the roster.
func (r Roster) Clone() Roster {
	c := make(Roster, len(r))
	for name, p := range r {
		c[name] = p.Clone()
	}

	return c
}

// Names returns the participant names in sorted order.
func (r Roster) Names() []string {
	return slices.Sorted(maps.Keys(r))
}

// Standing summarizes the recorded scores of a participant.
type Standing struct {
	Name      string  `json:"name"`
	Completed int     `json:"completed"`
	Average   float64 `json:"average"`
}

// Standings returns the standing of every participant, best average first. Ties are ordered by name.
// Quizzes without a score do not count towards the average; a participant without any score averages 0.
func Standings(r Roster) []Standing {
	standings := make([]Standing, 0, len(r))
	for name, p := range r {
		s := Standing{Name: name}
		var sum float64
		for _, score := range p.Scores {
			if score == nil {
				continue
			}
			sum += *score
			s.Completed++
		}
		if s.Completed > 0 {
			s.Average = sum / float64(s.Completed)
		}
		standings = append(standings, s)
	}

	slices.SortFunc(standings, func(a, b Standing) int {
		if c := cmp.Compare(b.Average, a.Average); c != 0 {
			return c
		}

		return strings.Compare(a.Name, b.Name)
	})

	return standings
}
