package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"factify/internal/database"
	"factify/internal/models"

	"go.uber.org/zap"
)

// ActivityRepository reads and writes the raw interaction history the badge
// resolver measures: fact reads, quiz sessions, question attempts, favorites,
// shares and daily trivia completions. All aggregate methods are read-only
// projections; only the Record* methods mutate state.
type ActivityRepository struct {
	*BaseRepository
}

func NewActivityRepository(db *database.Manager, logger *zap.Logger) *ActivityRepository {
	return &ActivityRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// ===============================
// WRITE OPERATIONS
// ===============================

// RecordRead inserts one reading interaction. The story-view timestamp is
// always set; detail fields only when the user opened the full story.
func (r *ActivityRepository) RecordRead(ctx context.Context, req *models.RecordReadRequest, at time.Time) error {
	query := `
		INSERT INTO fact_reads (fact_id, story_viewed_at, detail_viewed_at, detail_seconds)
		VALUES ($1, $2, $3, $4)`

	var detailAt *time.Time
	seconds := 0
	if req.ReadDetail {
		detailAt = &at
		seconds = req.DetailSeconds
	}

	if _, err := r.ExecContext(ctx, query, req.FactID, at, detailAt, seconds); err != nil {
		return fmt.Errorf("failed to record fact read: %w", err)
	}
	return nil
}

// RecordQuizSession inserts a session summary and its per-question attempts
// in one transaction, so a session never lands without its attempts.
func (r *ActivityRepository) RecordQuizSession(ctx context.Context, req *models.RecordQuizRequest, at time.Time) error {
	sessionQuery := `
		INSERT INTO quiz_sessions (category, correct_answers, total_questions, elapsed_seconds, completed_at)
		VALUES ($1, $2, $3, $4, $5)`
	attemptQuery := `
		INSERT INTO question_attempts (question_id, is_correct, attempted_at)
		VALUES ($1, $2, $3)`

	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, sessionQuery,
			req.Category, req.CorrectAnswers, req.TotalQuestions, req.ElapsedSeconds, at,
		); err != nil {
			return fmt.Errorf("failed to record quiz session: %w", err)
		}

		for _, attempt := range req.Attempts {
			if _, err := tx.ExecContext(ctx, attemptQuery, attempt.QuestionID, attempt.IsCorrect, at); err != nil {
				return fmt.Errorf("failed to record question attempt: %w", err)
			}
		}
		return nil
	})
	return err
}

// RecordFavorite saves a fact to favorites. Re-favoriting a fact is a no-op.
func (r *ActivityRepository) RecordFavorite(ctx context.Context, factID string, at time.Time) error {
	query := `
		INSERT INTO favorites (fact_id, created_at)
		VALUES ($1, $2)
		ON CONFLICT (fact_id) DO NOTHING`

	if _, err := r.ExecContext(ctx, query, factID, at); err != nil {
		return fmt.Errorf("failed to record favorite: %w", err)
	}
	return nil
}

// RecordShare logs one share event.
func (r *ActivityRepository) RecordShare(ctx context.Context, factID, channel string, at time.Time) error {
	query := `
		INSERT INTO shares (fact_id, channel, shared_at)
		VALUES ($1, $2, $3)`

	if _, err := r.ExecContext(ctx, query, factID, channel, at); err != nil {
		return fmt.Errorf("failed to record share: %w", err)
	}
	return nil
}

// RecordTriviaCompletion logs today's daily trivia as done. At most one row
// per calendar day; finishing twice on the same day is a no-op.
func (r *ActivityRepository) RecordTriviaCompletion(ctx context.Context, on time.Time) error {
	query := `
		INSERT INTO daily_trivia_log (completed_on)
		VALUES ($1)
		ON CONFLICT (completed_on) DO NOTHING`

	if _, err := r.ExecContext(ctx, query, on.Format("2006-01-02")); err != nil {
		return fmt.Errorf("failed to record trivia completion: %w", err)
	}
	return nil
}

// ===============================
// AGGREGATE PROJECTIONS
// ===============================

// StoryViewCount counts reads where the story card was opened.
func (r *ActivityRepository) StoryViewCount(ctx context.Context) (int, error) {
	return r.countQuery(ctx, `SELECT COUNT(*) FROM fact_reads WHERE story_viewed_at IS NOT NULL`)
}

// DetailReadCount counts reads where the full story was opened.
func (r *ActivityRepository) DetailReadCount(ctx context.Context) (int, error) {
	return r.countQuery(ctx, `SELECT COUNT(*) FROM fact_reads WHERE detail_viewed_at IS NOT NULL`)
}

// DetailSecondsTotal sums all time spent reading full stories, in seconds.
func (r *ActivityRepository) DetailSecondsTotal(ctx context.Context) (int, error) {
	return r.countQuery(ctx, `SELECT COALESCE(SUM(detail_seconds), 0) FROM fact_reads`)
}

// FavoriteCount counts favorited facts.
func (r *ActivityRepository) FavoriteCount(ctx context.Context) (int, error) {
	return r.countQuery(ctx, `SELECT COUNT(*) FROM favorites`)
}

// ShareCount counts recorded share events.
func (r *ActivityRepository) ShareCount(ctx context.Context) (int, error) {
	return r.countQuery(ctx, `SELECT COUNT(*) FROM shares`)
}

// QuizSessionCount counts completed quiz sessions.
func (r *ActivityRepository) QuizSessionCount(ctx context.Context) (int, error) {
	return r.countQuery(ctx, `SELECT COUNT(*) FROM quiz_sessions`)
}

// CorrectAttemptCount counts individually correct question attempts.
func (r *ActivityRepository) CorrectAttemptCount(ctx context.Context) (int, error) {
	return r.countQuery(ctx, `SELECT COUNT(*) FROM question_attempts WHERE is_correct`)
}

// PerfectSessionCount counts sessions answered flawlessly.
func (r *ActivityRepository) PerfectSessionCount(ctx context.Context) (int, error) {
	return r.countQuery(ctx, `
		SELECT COUNT(*)
		FROM quiz_sessions
		WHERE total_questions > 0
		AND correct_answers = total_questions`)
}

// QuickSessionCount counts sessions finished within a minute at 60%+ accuracy.
func (r *ActivityRepository) QuickSessionCount(ctx context.Context) (int, error) {
	return r.countQuery(ctx, `
		SELECT COUNT(*)
		FROM quiz_sessions
		WHERE elapsed_seconds <= 60
		AND total_questions > 0
		AND correct_answers::numeric / total_questions >= 0.6`)
}

// MasteredQuestionCount counts distinct questions whose three most recent
// attempts were all correct, requiring at least three attempts on record.
func (r *ActivityRepository) MasteredQuestionCount(ctx context.Context) (int, error) {
	return r.countQuery(ctx, `
		SELECT COUNT(*)
		FROM (
			SELECT question_id
			FROM (
				SELECT question_id, is_correct,
					ROW_NUMBER() OVER (PARTITION BY question_id ORDER BY attempted_at DESC, id DESC) AS recency,
					COUNT(*) OVER (PARTITION BY question_id) AS attempts
				FROM question_attempts
			) ranked
			WHERE recency <= 3 AND attempts >= 3
			GROUP BY question_id
			HAVING BOOL_AND(is_correct)
		) mastered`)
}

// AceCategoryCount counts categories answered at 80%+ accuracy, restricted to
// categories with at least five questions on record.
func (r *ActivityRepository) AceCategoryCount(ctx context.Context) (int, error) {
	return r.countQuery(ctx, `
		SELECT COUNT(*)
		FROM (
			SELECT category
			FROM quiz_sessions
			GROUP BY category
			HAVING SUM(total_questions) >= 5
			AND SUM(correct_answers)::numeric / SUM(total_questions) >= 0.8
		) aced`)
}

// QuestionTotal sums the questions answered across all quiz sessions.
func (r *ActivityRepository) QuestionTotal(ctx context.Context) (int, error) {
	return r.countQuery(ctx, `SELECT COALESCE(SUM(total_questions), 0) FROM quiz_sessions`)
}

// ReadingDates returns the distinct calendar days with at least one story
// view, most recent first. Feeds the current-streak computation.
func (r *ActivityRepository) ReadingDates(ctx context.Context) ([]time.Time, error) {
	return r.dateQuery(ctx, `
		SELECT DISTINCT DATE(story_viewed_at) AS day
		FROM fact_reads
		WHERE story_viewed_at IS NOT NULL
		ORDER BY day DESC`)
}

// TriviaDates returns the distinct daily-trivia completion days, oldest
// first. Feeds the best-streak computation.
func (r *ActivityRepository) TriviaDates(ctx context.Context) ([]time.Time, error) {
	return r.dateQuery(ctx, `
		SELECT completed_on
		FROM daily_trivia_log
		ORDER BY completed_on ASC`)
}

// ===============================
// HELPERS
// ===============================

func (r *ActivityRepository) countQuery(ctx context.Context, query string) (int, error) {
	var count int
	if err := r.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to run aggregate query: %w", err)
	}
	return count, nil
}

func (r *ActivityRepository) dateQuery(ctx context.Context, query string) ([]time.Time, error) {
	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activity dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("failed to scan activity date: %w", err)
		}
		dates = append(dates, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activity dates: %w", err)
	}
	return dates, nil
}
