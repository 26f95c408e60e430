package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/quizdeck/internal/quiz"
)

// KVRepo is a persistent string map, the terminal counterpart of browser
// local storage. It satisfies quiz.KVStore.
type KVRepo struct {
	db *sql.DB
}

var _ quiz.KVStore = (*KVRepo)(nil)

// Get returns the value stored under key.
func (r *KVRepo) Get(ctx context.Context, key string) (string, bool, error) {
	query, args := builder().
		Select("value").
		From(entsql.Table("kv_entries")).
		Where(entsql.EQ("key", key)).
		Query()

	var value string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (r *KVRepo) Set(ctx context.Context, key, value string) error {
	query, args := builder().
		Insert("kv_entries").
		Columns("key", "value", "updated_at").
		Values(key, value, time.Now().UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("key"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (r *KVRepo) Remove(ctx context.Context, key string) error {
	query, args := builder().
		Delete("kv_entries").
		Where(entsql.EQ("key", key)).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}

// Keys lists stored keys starting with prefix, in key order.
func (r *KVRepo) Keys(ctx context.Context, prefix string) ([]string, error) {
	query, args := builder().
		Select("key").
		From(entsql.Table("kv_entries")).
		Where(keyHasPrefix(prefix)).
		OrderBy("key").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// RemovePrefix deletes every key starting with prefix and reports how many
// were removed.
func (r *KVRepo) RemovePrefix(ctx context.Context, prefix string) (int64, error) {
	query, args := builder().
		Delete("kv_entries").
		Where(keyHasPrefix(prefix)).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("remove prefix %q: %w", prefix, err)
	}
	return res.RowsAffected()
}

// keyHasPrefix matches keys by literal prefix; LIKE would treat "_" in quiz
// IDs as a wildcard.
func keyHasPrefix(prefix string) *entsql.Predicate {
	return entsql.ExprP("substr(key, 1, ?) = ?", utf8.RuneCountInString(prefix), prefix)
}
