// Package rostertest provides a behavior suite every roster.Store implementation must pass.
package rostertest

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starquake/quizroster/internal/roster"
)

// Score returns a pointer to v, for building expected rosters.
func Score(v float64) *float64 {
	return &v
}

// RunStoreTests runs the roster behavior suite against stores created by newStore.
// newStore must return an empty store that is independent of any other store it returned.
func RunStoreTests(t *testing.T, newStore func(t *testing.T) roster.Store) {
	t.Helper()

	t.Run("fresh enrollment initializes unset scores", func(t *testing.T) {
		t.Parallel()

		s := newStore(t)
		got, err := s.Enroll(t.Context(), []string{"bob"}, []string{"q1", "q2"})
		if err != nil {
			t.Fatalf("error enrolling: %v", err)
		}

		want := roster.Roster{
			"bob": {Quizzes: []string{"q1", "q2"}, Scores: map[string]*float64{"q1": nil, "q2": nil}},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("roster mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("enrollment without quizzes", func(t *testing.T) {
		t.Parallel()

		s := newStore(t)
		got, err := s.Enroll(t.Context(), []string{"zoe"}, nil)
		if err != nil {
			t.Fatalf("error enrolling: %v", err)
		}

		want := roster.Roster{"zoe": {Quizzes: []string{}, Scores: map[string]*float64{}}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("roster mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty name is enrolled as is", func(t *testing.T) {
		t.Parallel()

		s := newStore(t)
		got, err := s.Enroll(t.Context(), roster.ParseNames(""), []string{"q1"})
		if err != nil {
			t.Fatalf("error enrolling: %v", err)
		}

		if _, ok := got[""]; !ok || len(got) != 1 {
			t.Errorf("got %v, want a single participant with an empty name", got)
		}
	})

	t.Run("re-enrollment keeps recorded scores", func(t *testing.T) {
		t.Parallel()

		ctx := t.Context()
		s := newStore(t)
		mustEnroll(t, s, []string{"alice"}, []string{"q1"})
		mustRecord(t, s, "alice", "q1", 90)

		got, err := s.Enroll(ctx, []string{"alice"}, []string{"q1"})
		if err != nil {
			t.Fatalf("error enrolling: %v", err)
		}

		if got, want := got["alice"].Scores["q1"], 90.0; got == nil || *got != want {
			t.Errorf("got score %v, want %v", got, want)
		}
	})

	t.Run("re-enrollment with other quizzes changes nothing", func(t *testing.T) {
		t.Parallel()

		s := newStore(t)
		mustEnroll(t, s, []string{"alice"}, []string{"q1"})

		got, err := s.Enroll(t.Context(), []string{"alice"}, []string{"q2", "q3"})
		if err != nil {
			t.Fatalf("error enrolling: %v", err)
		}

		want := roster.Roster{"alice": {Quizzes: []string{"q1"}, Scores: map[string]*float64{"q1": nil}}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("roster mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("duplicate quiz ids keep order and one score slot", func(t *testing.T) {
		t.Parallel()

		s := newStore(t)
		got, err := s.Enroll(t.Context(), []string{"ann"}, []string{"q2", "q1", "q2"})
		if err != nil {
			t.Fatalf("error enrolling: %v", err)
		}

		want := roster.Roster{
			"ann": {Quizzes: []string{"q2", "q1", "q2"}, Scores: map[string]*float64{"q1": nil, "q2": nil}},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("roster mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unknown participant score is a no-op", func(t *testing.T) {
		t.Parallel()

		s := newStore(t)
		mustEnroll(t, s, []string{"alice"}, []string{"q1"})

		got, err := s.RecordScore(t.Context(), "carol", "q1", 50)
		if err != nil {
			t.Fatalf("error recording score: %v", err)
		}

		if _, ok := got["carol"]; ok {
			t.Error("unknown participant was created")
		}
		want := roster.Roster{"alice": {Quizzes: []string{"q1"}, Scores: map[string]*float64{"q1": nil}}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("roster mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("last score wins", func(t *testing.T) {
		t.Parallel()

		s := newStore(t)
		mustEnroll(t, s, []string{"alice"}, []string{"q1"})
		mustRecord(t, s, "alice", "q1", 70)
		got := mustRecord(t, s, "alice", "q1", 95)

		if got, want := got["alice"].Scores["q1"], 95.0; got == nil || *got != want {
			t.Errorf("got score %v, want %v", got, want)
		}
	})

	t.Run("score for a quiz outside the enrollment is stored", func(t *testing.T) {
		t.Parallel()

		s := newStore(t)
		mustEnroll(t, s, []string{"alice"}, []string{"q1"})
		got := mustRecord(t, s, "alice", "bonus", -2.5)

		want := roster.Roster{
			"alice": {Quizzes: []string{"q1"}, Scores: map[string]*float64{"q1": nil, "bonus": Score(-2.5)}},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("roster mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("names are trimmed", func(t *testing.T) {
		t.Parallel()

		s := newStore(t)
		got := mustEnroll(t, s, roster.ParseNames(" dave , eve "), []string{"q1"})

		want := roster.Roster{
			"dave": {Quizzes: []string{"q1"}, Scores: map[string]*float64{"q1": nil}},
			"eve":  {Quizzes: []string{"q1"}, Scores: map[string]*float64{"q1": nil}},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("roster mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("list reflects all mutations", func(t *testing.T) {
		t.Parallel()

		ctx := t.Context()
		s := newStore(t)

		empty, err := s.List(ctx)
		if err != nil {
			t.Fatalf("error listing: %v", err)
		}
		if len(empty) != 0 {
			t.Errorf("got %v, want empty roster", empty)
		}

		mustEnroll(t, s, []string{"alice", "bob"}, []string{"q1", "q2"})
		mustRecord(t, s, "alice", "q1", 80)
		mustRecord(t, s, "bob", "q2", 60)
		mustEnroll(t, s, []string{"carol"}, []string{"q3"})
		mustRecord(t, s, "nobody", "q1", 10)

		got, err := s.List(ctx)
		if err != nil {
			t.Fatalf("error listing: %v", err)
		}

		want := roster.Roster{
			"alice": {Quizzes: []string{"q1", "q2"}, Scores: map[string]*float64{"q1": Score(80), "q2": nil}},
			"bob":   {Quizzes: []string{"q1", "q2"}, Scores: map[string]*float64{"q1": nil, "q2": Score(60)}},
			"carol": {Quizzes: []string{"q3"}, Scores: map[string]*float64{"q3": nil}},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("roster mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("snapshots are detached", func(t *testing.T) {
		t.Parallel()

		ctx := t.Context()
		s := newStore(t)
		snap := mustEnroll(t, s, []string{"alice"}, []string{"q1"})
		snap["alice"].Scores["q1"] = Score(1)
		snap["mallory"] = roster.Participant{}

		got, err := s.List(ctx)
		if err != nil {
			t.Fatalf("error listing: %v", err)
		}
		want := roster.Roster{"alice": {Quizzes: []string{"q1"}, Scores: map[string]*float64{"q1": nil}}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("roster mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("concurrent writers", func(t *testing.T) {
		t.Parallel()

		ctx := t.Context()
		s := newStore(t)

		const workers = 8
		var wg sync.WaitGroup
		for i := range workers {
			wg.Go(func() {
				name := fmt.Sprintf("p%d", i)
				if _, err := s.Enroll(ctx, []string{name, "shared"}, []string{"q1"}); err != nil {
					t.Errorf("error enrolling %s: %v", name, err)

					return
				}
				if _, err := s.RecordScore(ctx, name, "q1", float64(i)); err != nil {
					t.Errorf("error recording score for %s: %v", name, err)
				}
				if _, err := s.RecordScore(ctx, "shared", "q1", float64(i)); err != nil {
					t.Errorf("error recording shared score: %v", err)
				}
			})
		}
		wg.Wait()

		got, err := s.List(ctx)
		if err != nil {
			t.Fatalf("error listing: %v", err)
		}
		if got, want := len(got), workers+1; got != want {
			t.Fatalf("got %d participants, want %d", got, want)
		}
		for i := range workers {
			name := fmt.Sprintf("p%d", i)
			if score := got[name].Scores["q1"]; score == nil || *score != float64(i) {
				t.Errorf("got score %v for %s, want %d", score, name, i)
			}
		}
		if got["shared"].Scores["q1"] == nil {
			t.Error("shared score not recorded")
		}
	})
}

func mustEnroll(t *testing.T, s roster.Store, names, quizIDs []string) roster.Roster {
	t.Helper()

	r, err := s.Enroll(t.Context(), names, quizIDs)
	if err != nil {
		t.Fatalf("error enrolling %v: %v", names, err)
	}

	return r
}

func mustRecord(t *testing.T, s roster.Store, name, quizID string, score float64) roster.Roster {
	t.Helper()

	r, err := s.RecordScore(t.Context(), name, quizID, score)
	if err != nil {
		t.Fatalf("error recording score for %s: %v", name, err)
	}

	return r
}
