package strategies

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"balatro-viewer/internal/app/runs"
	"balatro-viewer/internal/lineage"
	"balatro-viewer/internal/store"
)

type Service struct {
	store *store.Store
}

func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

func (s *Service) List(ctx context.Context) ([]ListItem, error) {
	items, err := s.store.ListStrategies(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ListItem, 0, len(items))
	for _, it := range items {
		li := ListItem{StrategyListItem: it}
		if it.RunCount > 0 {
			rate := fmt.Sprintf("%d%%", int(math.Round(float64(it.Wins)/float64(it.RunCount)*100)))
			li.WinRate = &rate
		}
		if it.AvgCostUSD != nil {
			cost := fmt.Sprintf("$%.4f", *it.AvgCostUSD)
			li.AvgCostText = &cost
		}
		out = append(out, li)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Detail, error) {
	st, err := s.store.GetStrategy(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	lin, err := lineage.Resolve(ctx, lineageSource{s.store}, id)
	if err != nil && !errors.Is(err, lineage.ErrCycleDetected) {
		return nil, err
	}

	items, err := s.store.ListRunsByStrategy(ctx, id)
	if err != nil {
		return nil, err
	}
	stats, err := s.store.ListRunScoreStats(ctx)
	if err != nil {
		return nil, err
	}

	detail := &Detail{Strategy: *st, Lineage: lin}
	if len(st.Params) > 0 {
		_ = json.Unmarshal(st.Params, &detail.Params)
	}
	for _, it := range items {
		detail.Runs = append(detail.Runs, runs.Summarize(it, stats))
	}
	return detail, nil
}

// Lineage resolves just the ancestry tree, surfacing cycle errors to the
// caller instead of swallowing them like the detail view does.
func (s *Service) Lineage(ctx context.Context, id int64) (*lineage.Lineage, error) {
	return lineage.Resolve(ctx, lineageSource{s.store}, id)
}

// lineageSource adapts the store to the lineage walk: a missing row maps
// to the (nil, nil) absence convention.
type lineageSource struct {
	store *store.Store
}

func (src lineageSource) GetStrategyRef(ctx context.Context, id int64) (*lineage.Ref, error) {
	r, err := src.store.GetStrategyRef(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toRef(*r), nil
}

func (src lineageSource) ListStrategyChildren(ctx context.Context, id int64) ([]lineage.Ref, error) {
	rows, err := src.store.ListStrategyChildren(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]lineage.Ref, 0, len(rows))
	for _, r := range rows {
		out = append(out, *toRef(r))
	}
	return out, nil
}

func toRef(r store.StrategyRef) *lineage.Ref {
	return &lineage.Ref{
		ID:        r.ID,
		Name:      r.Name,
		CodeHash:  r.CodeHash,
		ParentID:  r.ParentID,
		CreatedAt: r.CreatedAt,
	}
}
