// Package store provides the application's data stores.
package store

import (
	"database/sql"
	"log/slog"

	"github.com/starquake/quizroster/internal/roster"
)

// Stores is a collection of stores for the application.
type Stores struct {
	Roster roster.Store
}

// New initializes a new Stores instance backed by the provided database connection.
func New(conn *sql.DB, logger *slog.Logger) *Stores {
	return &Stores{
		Roster: NewRosterStore(conn, logger),
	}
}

// NewMemory initializes a new Stores instance that keeps everything in process memory.
func NewMemory(logger *slog.Logger) *Stores {
	return &Stores{
		Roster: roster.NewMemoryStore(logger),
	}
}
