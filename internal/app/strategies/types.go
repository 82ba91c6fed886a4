package strategies

import (
	"balatro-viewer/internal/app/runs"
	"balatro-viewer/internal/lineage"
	"balatro-viewer/internal/store"
)

// ListItem is one strategy row with its run aggregates and derived
// display fields.
type ListItem struct {
	store.StrategyListItem
	WinRate     *string `json:"win_rate"`
	AvgCostText *string `json:"avg_cost_text"`
}

// Detail is the full strategy view: the row, its resolved lineage and
// the runs that used it.
type Detail struct {
	Strategy store.Strategy    `json:"strategy"`
	Params   map[string]any    `json:"params"`
	Lineage  *lineage.Lineage  `json:"lineage"`
	Runs     []runs.RunSummary `json:"runs"`
}
