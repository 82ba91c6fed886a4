package store

import "time"

// Run statuses. A run starts as running and flips to a terminal status
// when the bot reports the outcome.
const (
	RunStatusRunning  = "running"
	RunStatusFinished = "finished"
)

type Run struct {
	ID              int64      `json:"id"`
	RunCode         string     `json:"run_code"`
	Seed            *string    `json:"seed"`
	Deck            string     `json:"deck"`
	Stake           string     `json:"stake"`
	FinalAnte       int        `json:"final_ante"`
	FinalScore      *int64     `json:"final_score"`
	Won             bool       `json:"won"`
	EndlessAnte     *int       `json:"endless_ante"`
	Notes           *string    `json:"notes"`
	Status          string     `json:"status"`
	Progress        *string    `json:"progress"`
	HandsPlayed     int        `json:"hands_played"`
	DiscardsUsed    int        `json:"discards_used"`
	Purchases       int        `json:"purchases"`
	JokerCount      int        `json:"joker_count"`
	RuleDecisions   int        `json:"rule_decisions"`
	LLMDecisions    int        `json:"llm_decisions"`
	DurationSeconds *int       `json:"duration_seconds"`
	LLMCostUSD      *float64   `json:"llm_cost_usd"`
	LLMModel        *string    `json:"llm_model"`
	StrategyID      *int64     `json:"strategy_id"`
	PlayedAt        *time.Time `json:"played_at"`
	CreatedAt       time.Time  `json:"created_at"`
}

type Round struct {
	ID            int64     `json:"id"`
	RunID         int64     `json:"run_id"`
	Ante          int       `json:"ante"`
	BlindType     string    `json:"blind_type"`
	BossName      *string   `json:"boss_name"`
	TargetScore   *int64    `json:"target_score"`
	BestHandScore *int64    `json:"best_hand_score"`
	HandsPlayed   *int      `json:"hands_played"`
	DiscardsUsed  *int      `json:"discards_used"`
	Skipped       bool      `json:"skipped"`
	MoneyAfter    *int      `json:"money_after"`
	CreatedAt     time.Time `json:"created_at"`
}

type Joker struct {
	ID         int64     `json:"id"`
	RunID      int64     `json:"run_id"`
	Name       string    `json:"name"`
	Position   int       `json:"position"`
	Edition    *string   `json:"edition"`
	Eternal    bool      `json:"eternal"`
	Perishable bool      `json:"perishable"`
	Rental     bool      `json:"rental"`
	CreatedAt  time.Time `json:"created_at"`
}

type Screenshot struct {
	ID             int64     `json:"id"`
	RunID          int64     `json:"run_id"`
	RoundID        *int64    `json:"round_id"`
	Filename       string    `json:"filename"`
	OriginalName   *string   `json:"original_name"`
	Caption        *string   `json:"caption"`
	EventType      *string   `json:"event_type"`
	FileSize       *int64    `json:"file_size"`
	Width          *int      `json:"width"`
	Height         *int      `json:"height"`
	EstimatedScore *int64    `json:"estimated_score"`
	ActualScore    *int64    `json:"actual_score"`
	ScoreError     *float64  `json:"score_error"`
	CreatedAt      time.Time `json:"created_at"`
}

type Tag struct {
	ID        int64     `json:"id"`
	RunID     int64     `json:"run_id"`
	Ante      int       `json:"ante"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Strategy struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	CodeHash   string    `json:"code_hash"`
	Model      *string   `json:"model"`
	Params     []byte    `json:"-"`
	SourceCode *string   `json:"source_code"`
	Summary    *string   `json:"summary"`
	ParentID   *int64    `json:"parent_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// RunListItem joins a run with its strategy name and screenshot count for
// the listing views.
type RunListItem struct {
	Run
	StrategyName    *string `json:"strategy_name"`
	ScreenshotCount int     `json:"screenshot_count"`
}

// RunScoreStats is the per-run estimate accuracy rollup over screenshots
// that carry both an estimated and an actual score.
type RunScoreStats struct {
	RunID     int64
	Count     int
	AvgAbsErr float64
	MaxAbsErr float64
}

// StrategyListItem joins a strategy with aggregates over its runs.
type StrategyListItem struct {
	Strategy
	RunCount           int      `json:"run_count"`
	Wins               int      `json:"wins"`
	AvgAnte            *float64 `json:"avg_ante"`
	AvgCostUSD         *float64 `json:"avg_cost_usd"`
	AvgDurationSeconds *float64 `json:"avg_duration_seconds"`
}

// SeedSummary aggregates all runs sharing a seed.
type SeedSummary struct {
	Seed          string     `json:"seed"`
	RunCount      int        `json:"run_count"`
	Wins          int        `json:"wins"`
	BestAnte      int        `json:"best_ante"`
	AvgAnte       *float64   `json:"avg_ante"`
	StrategyCount int        `json:"strategy_count"`
	FirstPlayed   *time.Time `json:"first_played"`
}

// Stats is the site-wide summary.
type Stats struct {
	TotalRuns    int    `json:"total_runs"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
	HighestAnte  *int   `json:"highest_ante"`
	HighestScore *int64 `json:"highest_score"`
	DecksUsed    int    `json:"decks_used"`
	StakesPlayed int    `json:"stakes_played"`
}
