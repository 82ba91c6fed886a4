package runs

import (
	"balatro-viewer/internal/catalog"
	"balatro-viewer/internal/score"
	"balatro-viewer/internal/store"
	"balatro-viewer/internal/timeline"
)

// ListParams carries the raw listing request before validation.
type ListParams struct {
	Deck    string
	Stake   string
	Won     *bool
	Sort    string
	Order   string
	Page    int
	PerPage int
}

type ListResponse struct {
	Runs    []RunSummary `json:"runs"`
	Total   int          `json:"total"`
	Page    int          `json:"page"`
	PerPage int          `json:"per_page"`
	Pages   int          `json:"pages"`
}

// RunSummary is one listing row with the derived display fields.
type RunSummary struct {
	store.RunListItem
	DecisionRatio   *string          `json:"decision_ratio"`
	DurationMinutes *int             `json:"duration_minutes"`
	CostText        *string          `json:"cost_text"`
	Accuracy        *AccuracySummary `json:"accuracy"`
}

// AccuracySummary is the run-level estimate accuracy rollup.
type AccuracySummary struct {
	Count  int         `json:"count"`
	AvgAbs float64     `json:"avg_abs_error"`
	MaxAbs float64     `json:"max_abs_error"`
	Grade  score.Grade `json:"grade"`
}

// ScreenshotView decorates one screenshot with its timeline segment and
// score accuracy classification.
type ScreenshotView struct {
	store.Screenshot
	Divider      bool            `json:"divider"`
	Anchor       string          `json:"anchor,omitempty"`
	DividerLabel string          `json:"divider_label,omitempty"`
	Ante         int             `json:"ante"`
	Stage        timeline.Stage  `json:"stage"`
	Source       timeline.Source `json:"source,omitempty"`
	Error        *float64        `json:"error"`
	Grade        score.Grade     `json:"grade,omitempty"`
}

// JokerView pairs an acquired joker with its catalog entry when the name
// resolves; Catalog stays nil for unknown names.
type JokerView struct {
	store.Joker
	Catalog *catalog.Entry `json:"catalog"`
}

// RunDetail is the full aggregate for one run.
type RunDetail struct {
	Run             store.Run           `json:"run"`
	DecisionRatio   *string             `json:"decision_ratio"`
	DurationMinutes *int                `json:"duration_minutes"`
	CostText        *string             `json:"cost_text"`
	Jokers          []JokerView         `json:"jokers"`
	Rounds          []store.Round       `json:"rounds"`
	Screenshots     []ScreenshotView    `json:"screenshots"`
	Tags            []store.Tag         `json:"tags"`
	Strategy        *StrategyInfo       `json:"strategy"`
	Toc             []timeline.TocEntry `json:"toc"`
	Accuracy        *AccuracySummary    `json:"accuracy"`
}

// StrategyInfo is the strategy block embedded in a run detail. Lineage is
// deliberately absent here; it is resolved only for the strategy view.
type StrategyInfo struct {
	ID       int64          `json:"id"`
	Name     string         `json:"name"`
	CodeHash string         `json:"code_hash"`
	Model    *string        `json:"model"`
	Params   map[string]any `json:"params"`
	Summary  *string        `json:"summary"`
	ParentID *int64         `json:"parent_id"`
}

type CreateParams struct {
	Seed        *string
	Deck        string
	Stake       string
	FinalAnte   int
	FinalScore  *int64
	Won         bool
	EndlessAnte *int
	Notes       *string
	LLMModel    *string
	StrategyID  *int64
	PlayedAtRaw *string
}

type AddScreenshotParams struct {
	RunID          int64
	RoundID        *int64
	Caption        *string
	EventType      *string
	EstimatedScore *int64
	ActualScore    *int64
	OriginalName   string
	Content        []byte
}

type SeedDetail struct {
	Seed          string       `json:"seed"`
	RunCount      int          `json:"run_count"`
	Wins          int          `json:"wins"`
	BestAnte      int          `json:"best_ante"`
	StrategyNames []string     `json:"strategy_names"`
	Runs          []RunSummary `json:"runs"`
}
