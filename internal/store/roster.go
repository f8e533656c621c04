package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/starquake/quizroster/internal/database"
	"github.com/starquake/quizroster/internal/logging"
	"github.com/starquake/quizroster/internal/roster"
)

// RosterStore is a roster.Store backed by SQLite.
type RosterStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewRosterStore initializes a new RosterStore with the provided database connection and returns it.
// The schema must already be migrated.
func NewRosterStore(conn *sql.DB, logger *slog.Logger) *RosterStore {
	return &RosterStore{db: conn, logger: logger}
}

// Ping checks the connection to the database, ensuring it's reachable and responsive.
func (s *RosterStore) Ping(ctx context.Context) error {
	err := s.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

// Enroll creates the participants that do not exist yet, using a transaction.
func (s *RosterStore) Enroll(ctx context.Context, names []string, quizIDs []string) (roster.Roster, error) {
	var r roster.Roster
	err := database.ExecTx(ctx, s.db, func(tx *sql.Tx) error {
		enrolledAt := time.Now().UTC().UnixMilli()
		created := 0
		for _, name := range names {
			ok, err := s.insertParticipant(ctx, tx, name, enrolledAt, quizIDs)
			if err != nil {
				return err
			}
			if ok {
				created++
			}
		}

		s.logger.DebugContext(ctx, "enrolled participants",
			slog.Int("requested", len(names)),
			slog.Int("created", created),
		)

		var err error
		r, err = listRoster(ctx, tx)

		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to enroll participants: %w", err)
	}

	return r, nil
}

// RecordScore upserts the score of an existing participant. Unknown participants are ignored.
func (s *RosterStore) RecordScore(ctx context.Context, name, quizID string, score float64) (roster.Roster, error) {
	var r roster.Roster
	err := database.ExecTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO scores (participant_name, quiz_id, score)
			 SELECT name, ?, ? FROM participants WHERE name = ?
			 ON CONFLICT (participant_name, quiz_id) DO UPDATE SET score = excluded.score`,
			quizID, score, name,
		)
		if err != nil {
			return fmt.Errorf("error upserting score: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			s.logger.DebugContext(ctx, "ignoring score for unknown participant",
				logging.Participant(name),
				logging.Quiz(quizID),
			)
		}

		r, err = listRoster(ctx, tx)

		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record score: %w", err)
	}

	return r, nil
}

// List returns the whole roster.
func (s *RosterStore) List(ctx context.Context) (roster.Roster, error) {
	r, err := listRoster(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster: %w", err)
	}

	return r, nil
}

// insertParticipant inserts name with its quizzes and unset scores. It reports false if name already existed.
func (s *RosterStore) insertParticipant(
	ctx context.Context,
	tx *sql.Tx,
	name string,
	enrolledAt int64,
	quizIDs []string,
) (bool, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO participants (name, enrolled_at) VALUES (?, ?) ON CONFLICT (name) DO NOTHING`,
		name, enrolledAt,
	)
	if err != nil {
		return false, fmt.Errorf("error inserting participant %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error getting rows affected: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	for pos, id := range quizIDs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO participant_quizzes (participant_name, position, quiz_id) VALUES (?, ?, ?)`,
			name, pos, id,
		)
		if err != nil {
			return false, fmt.Errorf("error enrolling %q in quiz %q: %w", name, id, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO scores (participant_name, quiz_id, score) VALUES (?, ?, NULL)
			 ON CONFLICT (participant_name, quiz_id) DO NOTHING`,
			name, id,
		)
		if err != nil {
			return false, fmt.Errorf("error creating score slot for %q in quiz %q: %w", name, id, err)
		}
	}

	return true, nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listRoster(ctx context.Context, q querier) (roster.Roster, error) {
	r := make(roster.Roster)

	err := scanRows(ctx, q, `SELECT name FROM participants`, func(rows *sql.Rows) error {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("error scanning participant: %w", err)
		}
		r[name] = roster.Participant{Quizzes: []string{}, Scores: map[string]*float64{}}

		return nil
	})
	if err != nil {
		return nil, err
	}

	err = scanRows(ctx, q,
		`SELECT participant_name, quiz_id FROM participant_quizzes ORDER BY participant_name, position`,
		func(rows *sql.Rows) error {
			var name, quizID string
			if err := rows.Scan(&name, &quizID); err != nil {
				return fmt.Errorf("error scanning participant quiz: %w", err)
			}
			p := r[name]
			p.Quizzes = append(p.Quizzes, quizID)
			r[name] = p

			return nil
		})
	if err != nil {
		return nil, err
	}

	err = scanRows(ctx, q, `SELECT participant_name, quiz_id, score FROM scores`, func(rows *sql.Rows) error {
		var name, quizID string
		var score sql.NullFloat64
		if err := rows.Scan(&name, &quizID, &score); err != nil {
			return fmt.Errorf("error scanning score: %w", err)
		}
		var v *float64
		if score.Valid {
			v = &score.Float64
		}
		r[name].Scores[quizID] = v

		return nil
	})
	if err != nil {
		return nil, err
	}

	return r, nil
}

func scanRows(ctx context.Context, q querier, query string, fn func(*sql.Rows) error) (err error) {
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("error querying %q: %w", query, err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("error closing rows: %w", closeErr)
		}
	}()

	for rows.Next() {
		if err = fn(rows); err != nil {
			return err
		}
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating rows: %w", err)
	}

	return nil
}
