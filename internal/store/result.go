package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

type resultRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *resultRepo) AppendResult(ctx context.Context, res QuizResult) error {
	if res.AttemptID == "" {
		res.AttemptID = uuid.NewString()
	}
	if res.Timestamp.IsZero() {
		res.Timestamp = time.Now()
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(QuizResultsTable.Name).
		Columns("sequence", "attempt_id", "timestamp", "topic", "score", "total").
		Values(seqNum, res.AttemptID, res.Timestamp.UnixMilli(), res.Topic, res.Score, res.Total).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save quiz result: %w", err)
	}
	return nil
}

func (r *resultRepo) RecentResults(ctx context.Context, limit int) ([]QuizResult, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select("attempt_id", "sequence", "timestamp", "topic", "score", "total").
		From(entsql.Table(QuizResultsTable.Name)).
		OrderBy(entsql.Desc("sequence"))
	if limit > 0 {
		sel.Limit(limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query quiz results: %w", err)
	}
	defer rows.Close()

	var out []QuizResult
	for rows.Next() {
		var res QuizResult
		var ts int64
		if err := rows.Scan(&res.AttemptID, &res.Sequence, &ts, &res.Topic, &res.Score, &res.Total); err != nil {
			return nil, fmt.Errorf("scan quiz result: %w", err)
		}
		res.Timestamp = time.UnixMilli(ts).UTC()
		out = append(out, res)
	}
	return out, rows.Err()
}
