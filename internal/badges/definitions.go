package badges

// ID uniquely identifies a badge.
type ID string

// Badge identifiers. These are persisted in earned_badges rows, so renaming
// one invalidates history.
const (
	CuriousReader   ID = "curious_reader"
	DeepDiver       ID = "deep_diver"
	Bookworm        ID = "bookworm"
	DailyReader     ID = "daily_reader"
	FactCollector   ID = "fact_collector"
	KnowledgeSharer ID = "knowledge_sharer"
	QuizStarter     ID = "quiz_starter"
	SharpMind       ID = "sharp_mind"
	Perfectionist   ID = "perfectionist"
	QuickThinker    ID = "quick_thinker"
	MasterScholar   ID = "master_scholar"
	StreakChampion  ID = "streak_champion"
	CategoryAce     ID = "category_ace"
	Endurance       ID = "endurance"
)

// Category groups badges for the collection screen.
type Category string

const (
	CategoryReading Category = "reading"
	CategoryQuiz    Category = "quiz"
)

// Tier is one of three ordered achievement ranks within a badge.
type Tier string

const (
	TierBronze Tier = "bronze"
	TierSilver Tier = "silver"
	TierGold   Tier = "gold"
)

// Rank returns the ordinal position of a tier (1-based). Unknown tiers rank 0
// so historical rows under a retired naming scheme sort before current ones
// instead of failing.
func (t Tier) Rank() int {
	switch t {
	case TierBronze:
		return 1
	case TierSilver:
		return 2
	case TierGold:
		return 3
	default:
		return 0
	}
}

// TierDefinition pairs a tier with the progress threshold that earns it.
type TierDefinition struct {
	Tier      Tier `json:"tier"`
	Threshold int  `json:"threshold"`
}

// Definition is the static description of a badge. Definitions are compiled
// into the binary; they never change at runtime.
type Definition struct {
	ID          ID                `json:"id"`
	Icon        string            `json:"icon"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Category    Category          `json:"category"`
	Unit        string            `json:"unit"`
	Tiers       [3]TierDefinition `json:"tiers"`
}

func tiers(bronze, silver, gold int) [3]TierDefinition {
	return [3]TierDefinition{
		{Tier: TierBronze, Threshold: bronze},
		{Tier: TierSilver, Threshold: silver},
		{Tier: TierGold, Threshold: gold},
	}
}

// Definitions is the full badge catalog, in the display order the client uses.
// Every badge has exactly three tiers with strictly ascending thresholds.
var Definitions = []Definition{
	{
		ID:          CuriousReader,
		Icon:        "book-open",
		Title:       "Curious Reader",
		Description: "Open daily facts",
		Category:    CategoryReading,
		Unit:        "facts",
		Tiers:       tiers(10, 50, 200),
	},
	{
		ID:          DeepDiver,
		Icon:        "magnifying-glass",
		Title:       "Deep Diver",
		Description: "Read the full story behind a fact",
		Category:    CategoryReading,
		Unit:        "facts",
		Tiers:       tiers(5, 25, 100),
	},
	{
		ID:          Bookworm,
		Icon:        "glasses",
		Title:       "Bookworm",
		Description: "Accumulate reading time",
		Category:    CategoryReading,
		Unit:        "minutes",
		Tiers:       tiers(30, 120, 600),
	},
	{
		ID:          DailyReader,
		Icon:        "calendar-check",
		Title:       "Daily Reader",
		Description: "Read facts on consecutive days",
		Category:    CategoryReading,
		Unit:        "days",
		Tiers:       tiers(3, 7, 30),
	},
	{
		ID:          FactCollector,
		Icon:        "bookmark",
		Title:       "Fact Collector",
		Description: "Save favorite facts",
		Category:    CategoryReading,
		Unit:        "facts",
		Tiers:       tiers(5, 25, 100),
	},
	{
		ID:          KnowledgeSharer,
		Icon:        "share",
		Title:       "Knowledge Sharer",
		Description: "Share facts with friends",
		Category:    CategoryReading,
		Unit:        "shares",
		Tiers:       tiers(3, 10, 50),
	},
	{
		ID:          QuizStarter,
		Icon:        "play-circle",
		Title:       "Quiz Starter",
		Description: "Complete quiz sessions",
		Category:    CategoryQuiz,
		Unit:        "quizzes",
		Tiers:       tiers(1, 10, 50),
	},
	{
		ID:          SharpMind,
		Icon:        "brain",
		Title:       "Sharp Mind",
		Description: "Answer questions correctly",
		Category:    CategoryQuiz,
		Unit:        "answers",
		Tiers:       tiers(25, 100, 500),
	},
	{
		ID:          Perfectionist,
		Icon:        "star",
		Title:       "Perfectionist",
		Description: "Finish quizzes without a single mistake",
		Category:    CategoryQuiz,
		Unit:        "quizzes",
		Tiers:       tiers(1, 5, 25),
	},
	{
		ID:          QuickThinker,
		Icon:        "bolt",
		Title:       "Quick Thinker",
		Description: "Finish accurate quizzes in under a minute",
		Category:    CategoryQuiz,
		Unit:        "quizzes",
		Tiers:       tiers(1, 5, 25),
	},
	{
		ID:          MasterScholar,
		Icon:        "graduation-cap",
		Title:       "Master Scholar",
		Description: "Master questions by answering them correctly again and again",
		Category:    CategoryQuiz,
		Unit:        "questions",
		Tiers:       tiers(5, 20, 50),
	},
	{
		ID:          StreakChampion,
		Icon:        "fire",
		Title:       "Streak Champion",
		Description: "Complete the daily trivia on consecutive days",
		Category:    CategoryQuiz,
		Unit:        "days",
		Tiers:       tiers(3, 7, 30),
	},
	{
		ID:          CategoryAce,
		Icon:        "trophy",
		Title:       "Category Ace",
		Description: "Dominate quiz categories",
		Category:    CategoryQuiz,
		Unit:        "categories",
		Tiers:       tiers(1, 3, 6),
	},
	{
		ID:          Endurance,
		Icon:        "dumbbell",
		Title:       "Endurance",
		Description: "Answer questions across all your quizzes",
		Category:    CategoryQuiz,
		Unit:        "questions",
		Tiers:       tiers(50, 250, 1000),
	},
}

var definitionIndex = buildDefinitionIndex()

func buildDefinitionIndex() map[ID]*Definition {
	idx := make(map[ID]*Definition, len(Definitions))
	for i := range Definitions {
		idx[Definitions[i].ID] = &Definitions[i]
	}
	return idx
}

// ByID looks up a badge definition. The second return is false for ids the
// catalog does not know about.
func ByID(id ID) (*Definition, bool) {
	def, ok := definitionIndex[id]
	return def, ok
}
