package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo on the event tables and the global
// sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

// appendEvent stamps the event with the next sequence and current time and
// inserts it.
func (r *eventRepo) appendEvent(ctx context.Context, table string, columns []string, values []any) error {
	seq, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(table).
		Columns(append([]string{"sequence", "timestamp"}, columns...)...).
		Values(append([]any{seq, time.Now().UTC()}, values...)...).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	return r.appendEvent(ctx, llmRequestEventsTable.Name,
		[]string{
			"provider", "model", "purpose", "input_tokens", "output_tokens",
			"latency_ms", "success", "error_message", "request_body", "response_body",
		},
		[]any{
			data.Provider, data.Model, data.Purpose, data.InputTokens, data.OutputTokens,
			data.LatencyMs, data.Success, data.ErrorMessage, data.RequestBody, data.ResponseBody,
		},
	)
}

func (r *eventRepo) AppendAttempt(ctx context.Context, data AttemptEventData) error {
	return r.appendEvent(ctx, attemptEventsTable.Name,
		[]string{
			"username", "attempt_id", "subject", "topic", "lesson_id",
			"questions", "correct", "base_xp", "final_xp", "stars", "fallback",
		},
		[]any{
			data.Username, data.AttemptID, data.Subject, data.Topic, data.LessonID,
			data.Questions, data.Correct, data.BaseXP, data.FinalXP, data.Stars, data.Fallback,
		},
	)
}

func (r *eventRepo) AppendReward(ctx context.Context, data RewardEventData) error {
	return r.appendEvent(ctx, rewardEventsTable.Name,
		[]string{"username", "kind", "detail", "amount"},
		[]any{data.Username, data.Kind, data.Detail, data.Amount},
	)
}

// selectEvents builds a newest-first query over an event table.
func selectEvents(table string, opts QueryOpts, columns ...string) *entsql.Selector {
	s := entsql.Dialect(dialect.SQLite).
		Select(append([]string{"id", "sequence", "timestamp"}, columns...)...).
		From(entsql.Table(table)).
		OrderBy(entsql.Desc("sequence"))

	if opts.After > 0 {
		s.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		s.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		s.Where(entsql.GTE("timestamp", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		s.Where(entsql.LTE("timestamp", opts.To.UTC()))
	}
	if opts.Limit > 0 {
		s.Limit(opts.Limit)
	}
	return s
}

var llmEventColumns = []string{
	"provider", "model", "purpose", "input_tokens", "output_tokens",
	"latency_ms", "success", "error_message", "request_body", "response_body",
}

func scanLLMEvent(row interface{ Scan(...any) error }) (LLMEvent, error) {
	var e LLMEvent
	err := row.Scan(
		&e.ID, &e.Sequence, &e.Timestamp,
		&e.Provider, &e.Model, &e.Purpose, &e.InputTokens, &e.OutputTokens,
		&e.LatencyMs, &e.Success, &e.ErrorMessage, &e.RequestBody, &e.ResponseBody,
	)
	return e, err
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error) {
	query, args := selectEvents(llmRequestEventsTable.Name, opts, llmEventColumns...).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var out []LLMEvent
	for rows.Next() {
		e, err := scanLLMEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan LLM event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error) {
	query, args := selectEvents(llmRequestEventsTable.Name, QueryOpts{}, llmEventColumns...).
		Where(entsql.EQ("id", id)).
		Query()

	e, err := scanLLMEvent(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get LLM event %d: %w", id, err)
	}
	return &e, nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error) {
	return r.llmUsage(ctx, "purpose")
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]LLMUsage, error) {
	return r.llmUsage(ctx, "model")
}

// llmUsage aggregates LLM events grouped by key, busiest first.
func (r *eventRepo) llmUsage(ctx context.Context, key string) ([]LLMUsage, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(
			key,
			entsql.As(entsql.Count("*"), "calls"),
			entsql.As(entsql.Sum("input_tokens"), "input_tokens"),
			entsql.As(entsql.Sum("output_tokens"), "output_tokens"),
			entsql.As(entsql.Avg("latency_ms"), "avg_latency"),
		).
		From(entsql.Table(llmRequestEventsTable.Name)).
		GroupBy(key).
		OrderBy(entsql.Desc("calls"), key).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM usage by %s: %w", key, err)
	}
	defer rows.Close()

	var out []LLMUsage
	for rows.Next() {
		var (
			u     LLMUsage
			label string
			avg   float64
		)
		if err := rows.Scan(&label, &u.Calls, &u.InputTokens, &u.OutputTokens, &avg); err != nil {
			return nil, fmt.Errorf("scan LLM usage: %w", err)
		}
		if key == "model" {
			u.Model = label
		} else {
			u.Purpose = label
		}
		u.AvgLatencyMs = int64(avg)
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *eventRepo) QueryAttempts(ctx context.Context, username string, opts QueryOpts) ([]AttemptEvent, error) {
	query, args := selectEvents(attemptEventsTable.Name, opts,
		"username", "attempt_id", "subject", "topic", "lesson_id",
		"questions", "correct", "base_xp", "final_xp", "stars", "fallback",
	).Where(entsql.EQ("username", username)).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []AttemptEvent
	for rows.Next() {
		var e AttemptEvent
		err := rows.Scan(
			&e.ID, &e.Sequence, &e.Timestamp,
			&e.Username, &e.AttemptID, &e.Subject, &e.Topic, &e.LessonID,
			&e.Questions, &e.Correct, &e.BaseXP, &e.FinalXP, &e.Stars, &e.Fallback,
		)
		if err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *eventRepo) QueryRewards(ctx context.Context, username string, opts QueryOpts) ([]RewardEvent, error) {
	query, args := selectEvents(rewardEventsTable.Name, opts, "username", "kind", "detail", "amount").
		Where(entsql.EQ("username", username)).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query rewards: %w", err)
	}
	defer rows.Close()

	var out []RewardEvent
	for rows.Next() {
		var e RewardEvent
		if err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp, &e.Username, &e.Kind, &e.Detail, &e.Amount); err != nil {
			return nil, fmt.Errorf("scan reward: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
