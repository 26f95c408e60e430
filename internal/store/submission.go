package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// submissionRepo implements SubmissionRepo over the submissions table.
type submissionRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *submissionRepo) Append(ctx context.Context, s *Submission) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	s.ID = uuid.NewString()
	s.Sequence = seqNum
	s.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	query, args := builder().
		Insert("submissions").
		Columns("id", "sequence", "quiz_id", "storage_key", "questions",
			"correct", "percent", "answers", "created_at").
		Values(s.ID, s.Sequence, s.QuizID, s.StorageKey, s.Questions,
			s.Correct, s.Percent, s.Answers, s.CreatedAt.UnixMilli()).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save submission: %w", err)
	}
	return nil
}

func (r *submissionRepo) List(ctx context.Context, opts QueryOpts) ([]Submission, error) {
	sel := builder().
		Select("id", "sequence", "quiz_id", "storage_key", "questions",
			"correct", "percent", "answers", "created_at").
		From(entsql.Table("submissions")).
		OrderBy(entsql.Desc("sequence"))

	var preds []*entsql.Predicate
	if opts.QuizID != "" {
		preds = append(preds, entsql.EQ("quiz_id", opts.QuizID))
	}
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("created_at", opts.From.UnixMilli()))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		var (
			s       Submission
			created int64
		)
		err := rows.Scan(&s.ID, &s.Sequence, &s.QuizID, &s.StorageKey, &s.Questions,
			&s.Correct, &s.Percent, &s.Answers, &created)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		s.CreatedAt = time.UnixMilli(created).UTC()
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *submissionRepo) Stats(ctx context.Context) ([]SubmissionStats, error) {
	query, args := builder().
		Select(
			"quiz_id",
			entsql.Count("*"),
			entsql.Max("percent"),
			entsql.Avg("percent"),
			entsql.Max("created_at"),
		).
		From(entsql.Table("submissions")).
		GroupBy("quiz_id").
		OrderBy("quiz_id").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query submission stats: %w", err)
	}
	defer rows.Close()

	var out []SubmissionStats
	for rows.Next() {
		var (
			st   SubmissionStats
			last int64
		)
		if err := rows.Scan(&st.QuizID, &st.Attempts, &st.Best, &st.Average, &last); err != nil {
			return nil, fmt.Errorf("scan submission stats: %w", err)
		}
		st.Last = time.UnixMilli(last).UTC()
		out = append(out, st)
	}
	return out, rows.Err()
}
