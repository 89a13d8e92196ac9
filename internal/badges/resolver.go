package badges

import (
	"context"
	"time"
)

// ActivityQuerier is the read-only view of the activity store the resolver
// needs. Every method is a single aggregate projection; implementations live
// in the repositories package.
type ActivityQuerier interface {
	// Reading activity.
	StoryViewCount(ctx context.Context) (int, error)
	DetailReadCount(ctx context.Context) (int, error)
	DetailSecondsTotal(ctx context.Context) (int, error)
	FavoriteCount(ctx context.Context) (int, error)
	ShareCount(ctx context.Context) (int, error)
	// ReadingDates returns the distinct calendar days with at least one story
	// view, most recent first.
	ReadingDates(ctx context.Context) ([]time.Time, error)

	// Quiz activity.
	QuizSessionCount(ctx context.Context) (int, error)
	CorrectAttemptCount(ctx context.Context) (int, error)
	PerfectSessionCount(ctx context.Context) (int, error)
	QuickSessionCount(ctx context.Context) (int, error)
	MasteredQuestionCount(ctx context.Context) (int, error)
	AceCategoryCount(ctx context.Context) (int, error)
	QuestionTotal(ctx context.Context) (int, error)
	// TriviaDates returns the distinct calendar days with a completed daily
	// trivia, oldest first.
	TriviaDates(ctx context.Context) ([]time.Time, error)
}

// progressFunc maps raw activity to a single progress value for one badge.
type progressFunc func(ctx context.Context, q ActivityQuerier, today time.Time) (int, error)

// resolvers is the single source of truth for how each badge measures
// progress. Adding a badge means adding a definition and one entry here.
var resolvers = map[ID]progressFunc{
	CuriousReader: func(ctx context.Context, q ActivityQuerier, _ time.Time) (int, error) {
		return q.StoryViewCount(ctx)
	},
	DeepDiver: func(ctx context.Context, q ActivityQuerier, _ time.Time) (int, error) {
		return q.DetailReadCount(ctx)
	},
	Bookworm: func(ctx context.Context, q ActivityQuerier, _ time.Time) (int, error) {
		seconds, err := q.DetailSecondsTotal(ctx)
		if err != nil {
			return 0, err
		}
		// Whole minutes only: 1799s of reading is 29 minutes, not 30.
		return seconds / 60, nil
	},
	DailyReader: func(ctx context.Context, q ActivityQuerier, today time.Time) (int, error) {
		dates, err := q.ReadingDates(ctx)
		if err != nil {
			return 0, err
		}
		return CurrentStreak(dates, today), nil
	},
	FactCollector: func(ctx context.Context, q ActivityQuerier, _ time.Time) (int, error) {
		return q.FavoriteCount(ctx)
	},
	KnowledgeSharer: func(ctx context.Context, q ActivityQuerier, _ time.Time) (int, error) {
		return q.ShareCount(ctx)
	},
	QuizStarter: func(ctx context.Context, q ActivityQuerier, _ time.Time) (int, error) {
		return q.QuizSessionCount(ctx)
	},
	SharpMind: func(ctx context.Context, q ActivityQuerier, _ time.Time) (int, error) {
		return q.CorrectAttemptCount(ctx)
	},
	Perfectionist: func(ctx context.Context, q ActivityQuerier, _ time.Time) (int, error) {
		return q.PerfectSessionCount(ctx)
	},
	QuickThinker: func(ctx context.Context, q ActivityQuerier, _ time.Time) (int, error) {
		return q.QuickSessionCount(ctx)
	},
	MasterScholar: func(ctx context.Context, q ActivityQuerier, _ time.Time) (int, error) {
		return q.MasteredQuestionCount(ctx)
	},
	StreakChampion: func(ctx context.Context, q ActivityQuerier, _ time.Time) (int, error) {
		dates, err := q.TriviaDates(ctx)
		if err != nil {
			return 0, err
		}
		return BestStreak(dates), nil
	},
	CategoryAce: func(ctx context.Context, q ActivityQuerier, _ time.Time) (int, error) {
		return q.AceCategoryCount(ctx)
	},
	Endurance: func(ctx context.Context, q ActivityQuerier, _ time.Time) (int, error) {
		return q.QuestionTotal(ctx)
	},
}

// ComputeProgress resolves the progress value for a single badge. Unrecognized
// ids resolve to 0 without an error; the catalog and the store may evolve
// independently.
func ComputeProgress(ctx context.Context, q ActivityQuerier, today time.Time, id ID) (int, error) {
	resolve, ok := resolvers[id]
	if !ok {
		return 0, nil
	}
	return resolve(ctx, q, today)
}

// ComputeAll resolves progress for every badge in the catalog. Results are
// identical to calling ComputeProgress per id; this exists so one award pass
// makes a single trip through the registry.
func ComputeAll(ctx context.Context, q ActivityQuerier, today time.Time) (map[ID]int, error) {
	progress := make(map[ID]int, len(Definitions))
	for i := range Definitions {
		id := Definitions[i].ID
		value, err := ComputeProgress(ctx, q, today, id)
		if err != nil {
			return nil, err
		}
		progress[id] = value
	}
	return progress, nil
}
