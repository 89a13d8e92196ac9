package badges

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// EarnedBadge is one persisted award: a (badge, tier) pair earned at a point
// in time. Rows are append-only; the engine never mutates or deletes them.
type EarnedBadge struct {
	BadgeID  ID        `json:"badge_id"`
	Tier     Tier      `json:"tier"`
	EarnedAt time.Time `json:"earned_at"`
}

// EarnedStore is the durable side of the engine: the earned_badges table.
type EarnedStore interface {
	ListEarned(ctx context.Context) ([]EarnedBadge, error)
	// InsertEarned persists a newly crossed tier. It must be a no-op when the
	// (badge, tier) pair already exists.
	InsertEarned(ctx context.Context, id ID, tier Tier, earnedAt time.Time) error
}

// Progress is the derived state of one badge: how far the user is and what
// threshold comes next. NextThreshold is nil only for unrecognized ids.
type Progress struct {
	Current       int  `json:"current"`
	NextThreshold *int `json:"next_threshold"`
}

// Status merges everything the collection screen needs for one badge.
type Status struct {
	Definition      *Definition     `json:"definition"`
	Earned          []EarnedBadge   `json:"earned"`
	CurrentProgress int             `json:"current_progress"`
	NextTier        *TierDefinition `json:"next_tier"`
}

// Engine evaluates badge progress against tier thresholds and awards newly
// qualified tiers exactly once. It is safe for concurrent use: the whole
// check-and-award pass runs under a mutex so two callers cannot both toast
// the same tier.
type Engine struct {
	store    EarnedStore
	activity ActivityQuerier
	notifier *Notifier
	logger   *zap.Logger
	now      func() time.Time

	mu sync.Mutex
}

func NewEngine(store EarnedStore, activity ActivityQuerier, notifier *Notifier, logger *zap.Logger) *Engine {
	return &Engine{
		store:    store,
		activity: activity,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// CheckAndAward runs one full award pass: it loads the earned set, resolves
// progress for every badge, and persists and queues every tier whose threshold
// is newly crossed. Tiers of one badge are always awarded in ascending order,
// and a single pass may award several tiers of the same badge. A store error
// aborts the pass; tiers persisted before the error stay persisted, and a
// re-run picks up where it left off.
func (e *Engine) CheckAndAward(ctx context.Context) ([]NewlyEarned, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	earned, err := e.earnedSet(ctx)
	if err != nil {
		return nil, err
	}

	progress, err := ComputeAll(ctx, e.activity, e.now())
	if err != nil {
		return nil, fmt.Errorf("compute badge progress: %w", err)
	}

	var newly []NewlyEarned
	for i := range Definitions {
		def := &Definitions[i]
		current := progress[def.ID]

		for _, tier := range def.Tiers {
			if earned[pairKey(def.ID, tier.Tier)] {
				continue
			}
			if current < tier.Threshold {
				continue
			}

			if err := e.store.InsertEarned(ctx, def.ID, tier.Tier, e.now()); err != nil {
				return nil, fmt.Errorf("persist earned badge %s/%s: %w", def.ID, tier.Tier, err)
			}

			e.logger.Info("badge tier earned",
				zap.String("badge_id", string(def.ID)),
				zap.String("tier", string(tier.Tier)),
				zap.Int("progress", current),
				zap.Int("threshold", tier.Threshold),
			)
			newly = append(newly, NewlyEarned{BadgeID: def.ID, Tier: tier.Tier, Definition: def})
		}
	}

	if len(newly) > 0 {
		e.notifier.enqueue(newly...)
	}
	return newly, nil
}

// Progress resolves the current progress and next threshold for one badge.
// When all three tiers are earned the last tier's threshold is returned, so
// the UI can render a full bar. Unrecognized ids get {0, nil}.
func (e *Engine) Progress(ctx context.Context, id ID) (Progress, error) {
	def, ok := ByID(id)
	if !ok {
		return Progress{}, nil
	}

	current, err := ComputeProgress(ctx, e.activity, e.now(), id)
	if err != nil {
		return Progress{}, fmt.Errorf("compute progress for %s: %w", id, err)
	}

	earned, err := e.earnedSet(ctx)
	if err != nil {
		return Progress{}, err
	}

	next := def.Tiers[len(def.Tiers)-1].Threshold
	for _, tier := range def.Tiers {
		if !earned[pairKey(id, tier.Tier)] {
			next = tier.Threshold
			break
		}
	}
	return Progress{Current: current, NextThreshold: &next}, nil
}

// AllWithStatus returns one Status per catalog definition, in catalog order,
// regardless of store state. A fresh install gets 14 entries with zero
// progress and the bronze tier up next.
func (e *Engine) AllWithStatus(ctx context.Context) ([]Status, error) {
	rows, err := e.store.ListEarned(ctx)
	if err != nil {
		return nil, fmt.Errorf("list earned badges: %w", err)
	}

	earnedBy := make(map[ID][]EarnedBadge, len(rows))
	earnedSet := make(map[string]bool, len(rows))
	for _, row := range rows {
		earnedBy[row.BadgeID] = append(earnedBy[row.BadgeID], row)
		earnedSet[pairKey(row.BadgeID, row.Tier)] = true
	}
	// Present each badge's tiers in rank order. The store orders rows by
	// earned_at, which matches rank only when tiers were crossed one pass at
	// a time; a stable sort keeps the earned_at order for rank ties, so rows
	// under a retired tier naming come first.
	for id := range earnedBy {
		list := earnedBy[id]
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Tier.Rank() < list[j].Tier.Rank()
		})
	}

	progress, err := ComputeAll(ctx, e.activity, e.now())
	if err != nil {
		return nil, fmt.Errorf("compute badge progress: %w", err)
	}

	statuses := make([]Status, 0, len(Definitions))
	for i := range Definitions {
		def := &Definitions[i]

		var next *TierDefinition
		for t := range def.Tiers {
			if !earnedSet[pairKey(def.ID, def.Tiers[t].Tier)] {
				next = &def.Tiers[t]
				break
			}
		}

		statuses = append(statuses, Status{
			Definition:      def,
			Earned:          earnedBy[def.ID],
			CurrentProgress: progress[def.ID],
			NextTier:        next,
		})
	}
	return statuses, nil
}

// Notifier exposes the toast queue and modal counter to callers that drive
// the notification layer.
func (e *Engine) Notifier() *Notifier {
	return e.notifier
}

func (e *Engine) earnedSet(ctx context.Context) (map[string]bool, error) {
	rows, err := e.store.ListEarned(ctx)
	if err != nil {
		return nil, fmt.Errorf("list earned badges: %w", err)
	}
	set := make(map[string]bool, len(rows))
	for _, row := range rows {
		set[pairKey(row.BadgeID, row.Tier)] = true
	}
	return set, nil
}

func pairKey(id ID, tier Tier) string {
	return string(id) + "/" + string(tier)
}
