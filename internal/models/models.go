package models

import "time"

// FactRead is one reading interaction with a daily fact. StoryViewedAt is set
// when the card is opened; DetailViewedAt and DetailSeconds only when the user
// goes on to the full story.
type FactRead struct {
	ID             int64      `json:"id" db:"id"`
	FactID         string     `json:"fact_id" db:"fact_id"`
	StoryViewedAt  *time.Time `json:"story_viewed_at,omitempty" db:"story_viewed_at"`
	DetailViewedAt *time.Time `json:"detail_viewed_at,omitempty" db:"detail_viewed_at"`
	DetailSeconds  int        `json:"detail_seconds" db:"detail_seconds"`
}

// QuizSession is the summary row of one completed quiz.
type QuizSession struct {
	ID             int64     `json:"id" db:"id"`
	Category       string    `json:"category" db:"category"`
	CorrectAnswers int       `json:"correct_answers" db:"correct_answers"`
	TotalQuestions int       `json:"total_questions" db:"total_questions"`
	ElapsedSeconds int       `json:"elapsed_seconds" db:"elapsed_seconds"`
	CompletedAt    time.Time `json:"completed_at" db:"completed_at"`
}

// QuestionAttempt is a single answered question, kept per attempt so mastery
// can look at the most recent attempts of each question.
type QuestionAttempt struct {
	ID          int64     `json:"id" db:"id"`
	QuestionID  string    `json:"question_id" db:"question_id"`
	IsCorrect   bool      `json:"is_correct" db:"is_correct"`
	AttemptedAt time.Time `json:"attempted_at" db:"attempted_at"`
}

// Favorite marks a fact the user saved. One row per fact.
type Favorite struct {
	ID        int64     `json:"id" db:"id"`
	FactID    string    `json:"fact_id" db:"fact_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Share records one share of a fact through any channel.
type Share struct {
	ID       int64     `json:"id" db:"id"`
	FactID   string    `json:"fact_id" db:"fact_id"`
	Channel  string    `json:"channel" db:"channel"`
	SharedAt time.Time `json:"shared_at" db:"shared_at"`
}

// TriviaCompletion logs that the daily trivia was finished on a given day.
// One row per calendar day.
type TriviaCompletion struct {
	ID          int64     `json:"id" db:"id"`
	CompletedOn time.Time `json:"completed_on" db:"completed_on"`
}

// ===============================
// REQUEST TYPES
// ===============================

// RecordReadRequest reports a fact being read.
type RecordReadRequest struct {
	FactID        string `json:"fact_id" validate:"required,max=128"`
	ReadDetail    bool   `json:"read_detail"`
	DetailSeconds int    `json:"detail_seconds" validate:"gte=0,lte=86400"`
}

// AttemptInput is one answered question inside a quiz submission.
type AttemptInput struct {
	QuestionID string `json:"question_id" validate:"required,max=128"`
	IsCorrect  bool   `json:"is_correct"`
}

// RecordQuizRequest reports a finished quiz session with its attempts.
type RecordQuizRequest struct {
	Category       string         `json:"category" validate:"required,max=64"`
	CorrectAnswers int            `json:"correct_answers" validate:"gte=0"`
	TotalQuestions int            `json:"total_questions" validate:"gt=0"`
	ElapsedSeconds int            `json:"elapsed_seconds" validate:"gte=0"`
	Attempts       []AttemptInput `json:"attempts" validate:"dive"`
}

// RecordFavoriteRequest saves a fact to favorites.
type RecordFavoriteRequest struct {
	FactID string `json:"fact_id" validate:"required,max=128"`
}

// RecordShareRequest reports a fact being shared.
type RecordShareRequest struct {
	FactID  string `json:"fact_id" validate:"required,max=128"`
	Channel string `json:"channel" validate:"max=64"`
}

// ActivitySummary is the profile-screen rollup of reading and quiz history.
type ActivitySummary struct {
	FactsViewed     int `json:"facts_viewed"`
	DetailsRead     int `json:"details_read"`
	ReadingMinutes  int `json:"reading_minutes"`
	CurrentStreak   int `json:"current_streak"`
	BestTriviaRun   int `json:"best_trivia_run"`
	QuizzesFinished int `json:"quizzes_finished"`
	Favorites       int `json:"favorites"`
	Shares          int `json:"shares"`
}
