package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// updateRetries — число попыток применить оптимистичное обновление,
// прежде чем вернуть ErrConflict.
const updateRetries = 5

// PostgresStore хранит документы в одной таблице documents (jsonb)
// с оптимистичной блокировкой по колонке version.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore создаёт хранилище поверх готового подключения.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Add(ctx context.Context, collection, id string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("postgres store: marshal %s/%s: %w", collection, id, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, doc) VALUES ($1, $2, $3)`,
		collection, id, raw)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrExists
		}
		return fmt.Errorf("postgres store: insert %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, collection, id string, out any) error {
	var raw []byte
	err := s.db.GetContext(ctx, &raw,
		`SELECT doc FROM documents WHERE collection = $1 AND id = $2`,
		collection, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("postgres store: get %s/%s: %w", collection, id, err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("postgres store: unmarshal %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *PostgresStore) Set(ctx context.Context, collection, id string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("postgres store: marshal %s/%s: %w", collection, id, err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET doc = $3, version = version + 1, updated_at = NOW()
		 WHERE collection = $1 AND id = $2`,
		collection, id, raw)
	if err != nil {
		return fmt.Errorf("postgres store: set %s/%s: %w", collection, id, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Update читает документ, применяет fn и записывает результат, проверяя,
// что версия не изменилась. При конкурентной записи повторяет попытку.
func (s *PostgresStore) Update(ctx context.Context, collection, id string, fn UpdateFunc) error {
	for attempt := 0; attempt < updateRetries; attempt++ {
		var row struct {
			Doc     []byte `db:"doc"`
			Version int64  `db:"version"`
		}
		err := s.db.GetContext(ctx, &row,
			`SELECT doc, version FROM documents WHERE collection = $1 AND id = $2`,
			collection, id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("postgres store: update read %s/%s: %w", collection, id, err)
		}

		updated, err := fn(row.Doc)
		if err != nil {
			return err
		}

		res, err := s.db.ExecContext(ctx,
			`UPDATE documents SET doc = $3, version = version + 1, updated_at = NOW()
			 WHERE collection = $1 AND id = $2 AND version = $4`,
			collection, id, updated, row.Version)
		if err != nil {
			return fmt.Errorf("postgres store: update write %s/%s: %w", collection, id, err)
		}
		if affected, _ := res.RowsAffected(); affected > 0 {
			return nil
		}
		// Версия ушла вперёд, пробуем ещё раз.
	}
	return ErrConflict
}

func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`,
		collection, id)
	if err != nil {
		return fmt.Errorf("postgres store: delete %s/%s: %w", collection, id, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Query(ctx context.Context, collection string, filters []Filter, out any) error {
	query := strings.Builder{}
	query.WriteString(`SELECT doc FROM documents WHERE collection = $1`)

	args := []any{collection}
	for _, f := range filters {
		args = append(args, f.Field, f.Value)
		query.WriteString(fmt.Sprintf(` AND doc ->> $%d = $%d`, len(args)-1, len(args)))
	}
	query.WriteString(` ORDER BY id`)

	var raws [][]byte
	if err := s.db.SelectContext(ctx, &raws, query.String(), args...); err != nil {
		return fmt.Errorf("postgres store: query %s: %w", collection, err)
	}
	return decodeList(raws, out)
}

func (s *PostgresStore) All(ctx context.Context, collection string, out any) error {
	return s.Query(ctx, collection, nil, out)
}

func (s *PostgresStore) Count(ctx context.Context, collection string) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM documents WHERE collection = $1`, collection)
	if err != nil {
		return 0, fmt.Errorf("postgres store: count %s: %w", collection, err)
	}
	return count, nil
}
