// Package sqlite is a statement store kept in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"sync"

	_ "github.com/glebarez/go-sqlite"

	"github.com/always-cache/graphcache/graph"
)

// Memory is the filename selecting a private in-memory database.
const Memory = "memory"

// Store implements graph.Store and graph.Replacer.
// Writes are serialized, reads run concurrently.
type Store struct {
	db         *sql.DB
	writeMutex *sync.Mutex
}

// Open opens (creating if needed) the database at filename.
// An empty filename or Memory opens a new in-memory database.
func Open(filename string) (*Store, error) {
	memory := filename == "" || filename == Memory
	if memory {
		filename = ":memory:"
	}
	db, err := sql.Open("sqlite", filename)
	if err != nil {
		return nil, err
	}
	if memory {
		// every connection would get its own empty database
		db.SetMaxOpenConns(1)
	}
	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS statements (
			context TEXT NOT NULL,
			subject TEXT NOT NULL,
			predicate TEXT NOT NULL,
			object TEXT NOT NULL,
			PRIMARY KEY (context, subject, predicate, object)
		)`,
		"CREATE INDEX IF NOT EXISTS subject_idx ON statements (subject, predicate)",
		"CREATE INDEX IF NOT EXISTS object_idx ON statements (object)",
		"PRAGMA journal_mode=WAL",
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, err
		}
	}
	return &Store{
		db:         db,
		writeMutex: &sync.Mutex{},
	}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Insert(ctx context.Context, statements ...graph.Statement) error {
	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := insert(ctx, tx, statements); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func insert(ctx context.Context, tx *sql.Tx, statements []graph.Statement) error {
	if len(statements) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO statements
		(context, subject, predicate, object) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, st := range statements {
		if _, err := stmt.ExecContext(ctx, st.Context, string(st.Subject), string(st.Predicate), string(st.Object)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, p graph.Pattern) (int, error) {
	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()
	where, args := whereClause(p)
	result, err := s.db.ExecContext(ctx, "DELETE FROM statements"+where, args...)
	if err != nil {
		return 0, err
	}
	deleted, err := result.RowsAffected()
	return int(deleted), err
}

func (s *Store) Match(ctx context.Context, p graph.Pattern) ([]graph.Statement, error) {
	where, args := whereClause(p)
	rows, err := s.db.QueryContext(ctx,
		"SELECT context, subject, predicate, object FROM statements"+where+" ORDER BY rowid", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	statements := make([]graph.Statement, 0)
	for rows.Next() {
		var st graph.Statement
		var subject, predicate, object string
		if err := rows.Scan(&st.Context, &subject, &predicate, &object); err != nil {
			return nil, err
		}
		st.Subject, st.Predicate, st.Object = graph.Term(subject), graph.Term(predicate), graph.Term(object)
		statements = append(statements, st)
	}
	return statements, rows.Err()
}

// Replace swaps the contents of a graph in a single transaction.
func (s *Store) Replace(ctx context.Context, g graph.GraphRef, statements []graph.Statement) error {
	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	where, args := whereClause(graph.Pattern{Graph: g})
	if _, err := tx.ExecContext(ctx, "DELETE FROM statements"+where, args...); err != nil {
		tx.Rollback()
		return err
	}
	if err := insert(ctx, tx, statements); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Count returns the number of statements matching the pattern.
func (s *Store) Count(ctx context.Context, p graph.Pattern) (int, error) {
	where, args := whereClause(p)
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM statements"+where, args...).Scan(&count)
	return count, err
}

func whereClause(p graph.Pattern) (string, []any) {
	var conditions []string
	var args []any
	add := func(column, value string) {
		conditions = append(conditions, column+" = ?")
		args = append(args, value)
	}
	if !p.Graph.Any {
		add("context", p.Graph.IRI)
	}
	if p.Subject != "" {
		add("subject", string(p.Subject))
	}
	if p.Predicate != "" {
		add("predicate", string(p.Predicate))
	}
	if p.Object != "" {
		add("object", string(p.Object))
	}
	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}
