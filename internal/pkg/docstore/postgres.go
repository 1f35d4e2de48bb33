package docstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/eduportal/internal/db"
	"github.com/yigit/eduportal/internal/pkg/dberrors"
	"github.com/yigit/eduportal/internal/pkg/logger"
)

const (
	documentsTable = "documents"
	documentsPkey  = "documents_pkey"
	// writeAttempts bounds the retries of a write that lost a race
	writeAttempts = 3
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresStore keeps one row per leaf in the documents table, keyed by the
// leaf's absolute path. Subtrees are read with a prefix scan.
type PostgresStore struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewPostgresStore creates a store on an open pool. The documents table is
// created by the migrations.
func NewPostgresStore(database *db.PostgresDB) *PostgresStore {
	return &PostgresStore{
		db: database,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (s *PostgresStore) Get(ctx context.Context, path string) (any, error) {
	segs, err := SplitPath(path)
	if err != nil {
		return nil, err
	}
	leaves, err := s.readLeaves(ctx, s.db.Pool, segs)
	if err != nil {
		return nil, err
	}
	return assemble(canonical(segs), leaves), nil
}

func (s *PostgresStore) Set(ctx context.Context, path string, value any) error {
	segs, err := SplitPath(path)
	if err != nil {
		return err
	}
	nv, err := Normalize(value)
	if err != nil {
		return err
	}
	return s.write(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return s.writeLeaves(ctx, tx, segs, nv)
	})
}

func (s *PostgresStore) Update(ctx context.Context, path string, fields map[string]any) error {
	base, err := SplitPath(path)
	if err != nil {
		return err
	}
	writes, err := expandUpdate(base, fields)
	if err != nil {
		return err
	}
	return s.write(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for p, v := range writes {
			segs, _ := SplitPath(p)
			if err := s.writeLeaves(ctx, tx, segs, v); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *PostgresStore) Push(_ context.Context, path string) (string, error) {
	if _, err := SplitPath(path); err != nil {
		return "", err
	}
	return NewPushKey()
}

func (s *PostgresStore) Remove(ctx context.Context, path string) error {
	return s.Set(ctx, path, nil)
}

// Transaction serializes concurrent transactions on the same path with a
// transaction scoped advisory lock.
func (s *PostgresStore) Transaction(ctx context.Context, path string, fn TransactionFn) (any, error) {
	segs, err := SplitPath(path)
	if err != nil {
		return nil, err
	}
	base := canonical(segs)
	var result any
	err = s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", base); err != nil {
			return fmt.Errorf("failed to lock %s: %w", base, err)
		}
		leaves, err := s.readLeaves(ctx, tx, segs)
		if err != nil {
			return err
		}
		next, err := fn(assemble(base, leaves))
		if err != nil {
			return err
		}
		nv, err := Normalize(next)
		if err != nil {
			return err
		}
		result = nv
		return s.writeLeaves(ctx, tx, segs, nv)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// write runs fn in a transaction, retrying when two writers inserted the
// same leaf or deadlocked on overlapping subtrees.
func (s *PostgresStore) write(ctx context.Context, fn db.TransactionFn) error {
	var err error
	for attempt := 1; attempt <= writeAttempts; attempt++ {
		err = s.db.WithTransaction(ctx, fn)
		if err == nil || !dberrors.IsRetryable(err, documentsPkey) {
			return err
		}
		logger.Warn().Err(err).Int("attempt", attempt).Msg("Retrying document write after a conflict")
	}
	return err
}

// Close is a no-op; the pool is owned by the server.
func (s *PostgresStore) Close() error {
	return nil
}

func subtreeCond(base string) squirrel.Sqlizer {
	if base == "" {
		return squirrel.Expr("TRUE")
	}
	return squirrel.Or{
		squirrel.Eq{"path": base},
		squirrel.Expr("starts_with(path, ?)", base+"/"),
	}
}

func (s *PostgresStore) readLeaves(ctx context.Context, q querier, segs []string) (map[string]any, error) {
	sql, args, err := s.sb.Select("path", "value").
		From(documentsTable).
		Where(subtreeCond(canonical(segs))).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building read documents SQL")
		return nil, fmt.Errorf("failed to build read query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("path", canonical(segs)).Msg("Error executing read documents query")
		return nil, fmt.Errorf("error reading documents: %w", err)
	}
	defer rows.Close()

	leaves := map[string]any{}
	for rows.Next() {
		var p string
		var raw []byte
		if err := rows.Scan(&p, &raw); err != nil {
			return nil, fmt.Errorf("error scanning document row: %w", err)
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("corrupt leaf at %s: %w", p, err)
		}
		leaves[p] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating document rows: %w", err)
	}
	return leaves, nil
}

func (s *PostgresStore) writeLeaves(ctx context.Context, q querier, segs []string, v any) error {
	base := canonical(segs)

	sql, args, err := s.sb.Delete(documentsTable).Where(subtreeCond(base)).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("path", base).Msg("Error deleting document subtree")
		return fmt.Errorf("error deleting documents: %w", err)
	}
	if v == nil {
		return nil
	}

	if anc := ancestors(segs); len(anc) > 0 {
		sql, args, err = s.sb.Delete(documentsTable).Where(squirrel.Eq{"path": anc}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete query: %w", err)
		}
		if _, err := q.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error deleting ancestor leaves: %w", err)
		}
	}

	leaves := map[string]any{}
	if err := flatten(base, v, leaves); err != nil {
		return err
	}
	if len(leaves) == 0 {
		return nil
	}
	if _, ok := leaves[""]; ok {
		return fmt.Errorf("%w: the root must be an object", ErrInvalidValue)
	}

	insert := s.sb.Insert(documentsTable).Columns("path", "value")
	for p, leaf := range leaves {
		raw, err := json.Marshal(leaf)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		insert = insert.Values(p, raw)
	}
	sql, args, err = insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("path", base).Int("leaves", len(leaves)).Msg("Error inserting document leaves")
		return fmt.Errorf("error writing documents: %w", err)
	}
	return nil
}
