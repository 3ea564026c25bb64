package store

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/myrjola/gumshoe/internal/mystery"
)

// GameRecord is everything worth keeping from a finished game.
type GameRecord struct {
	CaseID     string
	Seed       int64
	PlayedAt   time.Time
	Accused    mystery.PersonID
	Correct    bool
	Score      float64
	Stats      mystery.Stats
	Statements []mystery.Statement
	Findings   []mystery.Finding
	Suspicion  map[mystery.PersonID]float64
}

// LifetimeStats aggregates over every archived game.
type LifetimeStats struct {
	Games        int     `db:"games"`
	Solved       int     `db:"solved"`
	AvgQuestions float64 `db:"avg_questions"`
	BestScore    float64 `db:"best_score"`
}

// SolveRate is the fraction of archived games ending in a correct accusation.
func (s LifetimeStats) SolveRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Solved) / float64(s.Games)
}

// GameSummary is one row of the archive listing.
type GameSummary struct {
	ID        string    `db:"id"`
	CaseID    string    `db:"case_id"`
	PlayedAt  time.Time `db:"played_at"`
	Accused   string    `db:"accused"`
	Correct   bool      `db:"correct"`
	Score     float64   `db:"score"`
	Questions int       `db:"questions"`
}

type TranscriptRepository struct {
	db     *Database
	logger *slog.Logger
}

func NewTranscriptRepository(db *Database, logger *slog.Logger) *TranscriptRepository {
	return &TranscriptRepository{
		db:     db,
		logger: logger.With("source", "TranscriptRepository"),
	}
}

// SaveGame archives one finished game in a single transaction and returns the
// archive id.
func (r *TranscriptRepository) SaveGame(ctx context.Context, record GameRecord) (string, error) {
	id := uuid.NewString()

	tx, err := r.db.ReadWrite.BeginTxx(ctx, nil)
	if err != nil {
		return "", errors.Wrap(err, "begin archive transaction")
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			r.logger.ErrorContext(ctx, "rollback archive transaction", errors.SlogError(rollbackErr))
		}
	}()

	stmt := `INSERT INTO games (id, case_id, seed, played_at, accused, correct, score,
        questions, truthful, lies, evasions, contradictions, corroborations)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err = tx.ExecContext(ctx, stmt,
		id, record.CaseID, record.Seed, record.PlayedAt, string(record.Accused), record.Correct, record.Score,
		record.Stats.Questions, record.Stats.Truthful, record.Stats.Lies, record.Stats.Evasions,
		record.Stats.Contradictions, record.Stats.Corroborations,
	); err != nil {
		return "", errors.Wrap(err, "insert game")
	}

	stmt = `INSERT INTO statements (game_id, seq, speaker, topic, value, status) VALUES (?, ?, ?, ?, ?, ?)`
	for _, st := range record.Statements {
		if _, err = tx.ExecContext(ctx, stmt,
			id, st.Seq, string(st.Speaker), st.Topic.Key(), st.Value.String(), st.Status.String(),
		); err != nil {
			return "", errors.Wrap(err, "insert statement", slog.Int("seq", st.Seq))
		}
	}

	stmt = `INSERT INTO findings (game_id, seq, kind, speaker, other, detail) VALUES (?, ?, ?, ?, ?, ?)`
	for _, f := range record.Findings {
		if _, err = tx.ExecContext(ctx, stmt,
			id, f.Seq, f.Kind.String(), string(f.Speaker), string(f.Other), f.Detail,
		); err != nil {
			return "", errors.Wrap(err, "insert finding", slog.Int("seq", f.Seq))
		}
	}

	stmt = `INSERT INTO suspicion (game_id, suspect, score) VALUES (?, ?, ?)`
	for suspect, score := range record.Suspicion {
		if _, err = tx.ExecContext(ctx, stmt, id, string(suspect), score); err != nil {
			return "", errors.Wrap(err, "insert suspicion score", slog.String("suspect", string(suspect)))
		}
	}

	if err = tx.Commit(); err != nil {
		return "", errors.Wrap(err, "commit archive transaction")
	}

	r.logger.DebugContext(ctx, "archived game",
		slog.String("game", id),
		slog.String("case", record.CaseID),
		slog.Bool("correct", record.Correct))
	return id, nil
}

// Stats aggregates lifetime results over the archive.
func (r *TranscriptRepository) Stats(ctx context.Context) (LifetimeStats, error) {
	var stats LifetimeStats
	stmt := `SELECT COUNT(*)                           AS games,
                COALESCE(SUM(correct), 0)              AS solved,
                COALESCE(AVG(questions), 0)            AS avg_questions,
                COALESCE(MAX(score), 0)                AS best_score
         FROM games`
	if err := r.db.ReadOnly.GetContext(ctx, &stats, stmt); err != nil {
		return LifetimeStats{}, errors.Wrap(err, "aggregate lifetime stats")
	}
	return stats, nil
}

// RecentGames lists the newest archived games first.
func (r *TranscriptRepository) RecentGames(ctx context.Context, limit int) ([]GameSummary, error) {
	var games []GameSummary
	stmt := `SELECT id, case_id, played_at, accused, correct, score, questions
	         FROM games ORDER BY played_at DESC, id LIMIT ?`
	if err := r.db.ReadOnly.SelectContext(ctx, &games, stmt, limit); err != nil {
		return nil, errors.Wrap(err, "list recent games")
	}
	return games, nil
}

// Contradictions counts archived contradiction findings per suspect, a small
// curiosity for the stats view.
func (r *TranscriptRepository) Contradictions(ctx context.Context) (map[string]int, error) {
	rows := []struct {
		Speaker string `db:"speaker"`
		N       int    `db:"n"`
	}{}
	stmt := `SELECT speaker, COUNT(*) AS n FROM findings WHERE kind = 'contradiction' GROUP BY speaker`
	if err := r.db.ReadOnly.SelectContext(ctx, &rows, stmt); err != nil {
		return nil, errors.Wrap(err, "count contradictions")
	}
	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.Speaker] = row.N
	}
	return out, nil
}
