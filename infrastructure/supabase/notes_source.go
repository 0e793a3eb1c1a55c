// Package supabase fetches notes from a Supabase table.
package supabase

import (
	"context"
	"fmt"

	supa "github.com/supabase-community/supabase-go"
	"go.uber.org/zap"

	"thoughtgraph/infrastructure/config"
	"thoughtgraph/infrastructure/resilience"
	pkgerrors "thoughtgraph/pkg/errors"
)

const noteColumns = "id,title,tags,messages"

// Query runs the select and returns the rows as a JSON array
type Query func(table, columns string) ([]byte, error)

// NotesSource reads the notes table through a circuit breaker
type NotesSource struct {
	table   string
	query   Query
	breaker *resilience.Breaker
	logger  *zap.Logger
}

// NewNotesSource creates a Supabase client for the configured project
func NewNotesSource(cfg config.Supabase, breaker config.CircuitBreaker, logger *zap.Logger) (*NotesSource, error) {
	client, err := supa.NewClient(cfg.URL, cfg.Key, nil)
	if err != nil {
		return nil, pkgerrors.NewExternalError("supabase", fmt.Errorf("create client: %w", err))
	}

	query := func(table, columns string) ([]byte, error) {
		data, _, err := client.From(table).Select(columns, "", false).Execute()
		return data, err
	}
	return NewNotesSourceWithQuery(cfg.Table, query, breaker, logger), nil
}

// NewNotesSourceWithQuery creates a source around an arbitrary query function
func NewNotesSourceWithQuery(table string, query Query, breaker config.CircuitBreaker, logger *zap.Logger) *NotesSource {
	return &NotesSource{
		table:   table,
		query:   query,
		breaker: resilience.NewBreaker("supabase-notes", breaker, logger),
		logger:  logger,
	}
}

// FetchNotes selects every note row
func (s *NotesSource) FetchNotes(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := s.breaker.Do(func() ([]byte, error) {
		data, err := s.query(s.table, noteColumns)
		if err != nil {
			return nil, pkgerrors.NewExternalError("supabase", err)
		}
		return data, nil
	})
	if err != nil {
		s.logger.Error("failed to fetch notes", zap.String("table", s.table), zap.Error(err))
		return nil, err
	}

	s.logger.Debug("fetched notes", zap.String("table", s.table), zap.Int("bytes", len(data)))
	return data, nil
}
