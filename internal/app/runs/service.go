package runs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"balatro-viewer/internal/catalog"
	"balatro-viewer/internal/media"
	"balatro-viewer/internal/score"
	"balatro-viewer/internal/store"
	"balatro-viewer/internal/timeline"
)

type Service struct {
	store   *store.Store
	files   *media.FileStore
	catalog *catalog.Catalog
}

func NewService(st *store.Store, files *media.FileStore, cat *catalog.Catalog) *Service {
	return &Service{store: st, files: files, catalog: cat}
}

// BuildQuery validates raw listing parameters against the closed filter
// and sort enumerations. Anything outside the allow-lists is rejected
// before storage is touched.
func BuildQuery(p ListParams) (store.RunQuery, error) {
	q := store.DefaultRunQuery()
	q.Filter = store.RunFilter{Deck: p.Deck, Stake: p.Stake, Won: p.Won}
	if p.Sort != "" {
		k, ok := store.ParseSortKey(p.Sort)
		if !ok {
			return store.RunQuery{}, ErrInvalidRequest
		}
		q.Sort = k
	}
	if p.Order != "" {
		o, ok := store.ParseSortOrder(p.Order)
		if !ok {
			return store.RunQuery{}, ErrInvalidRequest
		}
		q.Order = o
	}
	if p.Page != 0 {
		q.Page = p.Page
	}
	if p.PerPage != 0 {
		q.PerPage = p.PerPage
	}
	if !q.Valid() {
		return store.RunQuery{}, ErrInvalidRequest
	}
	return q, nil
}

func (s *Service) List(ctx context.Context, p ListParams) (*ListResponse, error) {
	q, err := BuildQuery(p)
	if err != nil {
		return nil, err
	}
	items, total, err := s.store.ListRuns(ctx, q)
	if err != nil {
		return nil, err
	}
	stats, err := s.store.ListRunScoreStats(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]RunSummary, 0, len(items))
	for _, it := range items {
		out = append(out, Summarize(it, stats))
	}
	return &ListResponse{
		Runs:    out,
		Total:   total,
		Page:    q.Page,
		PerPage: q.PerPage,
		Pages:   q.Pages(total),
	}, nil
}

// Summarize builds the listing row for one run, attaching its accuracy
// rollup when the stats map has one.
func Summarize(it store.RunListItem, stats map[int64]store.RunScoreStats) RunSummary {
	sum := RunSummary{
		RunListItem:     it,
		DecisionRatio:   DecisionRatio(it.RuleDecisions, it.LLMDecisions),
		DurationMinutes: DurationMinutes(it.DurationSeconds),
		CostText:        CostText(it.LLMCostUSD),
	}
	if st, ok := stats[it.ID]; ok && st.Count > 0 {
		agg := score.RunAccuracy{Count: st.Count, AvgAbs: st.AvgAbsErr, MaxAbs: st.MaxAbsErr}
		sum.Accuracy = &AccuracySummary{
			Count:  agg.Count,
			AvgAbs: agg.AvgAbs,
			MaxAbs: agg.MaxAbs,
			Grade:  agg.Grade(),
		}
	}
	return sum
}

// DecisionRatio derives the rule-decision share as a whole percentage.
// Nil when the run recorded no decisions at all: absent, never "0%".
func DecisionRatio(ruleDecisions, llmDecisions int) *string {
	total := ruleDecisions + llmDecisions
	if total == 0 {
		return nil
	}
	v := fmt.Sprintf("%d%%", int(math.Round(float64(ruleDecisions)/float64(total)*100)))
	return &v
}

// DurationMinutes rounds the run duration to whole minutes.
func DurationMinutes(seconds *int) *int {
	if seconds == nil {
		return nil
	}
	m := int(math.Round(float64(*seconds) / 60))
	return &m
}

// CostText formats the LLM cost with four decimal places.
func CostText(usd *float64) *string {
	if usd == nil {
		return nil
	}
	v := fmt.Sprintf("$%.4f", *usd)
	return &v
}

func (s *Service) Get(ctx context.Context, id int64) (*RunDetail, error) {
	run, err := s.store.GetRun(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	jokers, err := s.store.ListJokers(ctx, id)
	if err != nil {
		return nil, err
	}
	rounds, err := s.store.ListRounds(ctx, id)
	if err != nil {
		return nil, err
	}
	shots, err := s.store.ListScreenshots(ctx, id)
	if err != nil {
		return nil, err
	}
	tags, err := s.store.ListTags(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &RunDetail{
		Run:             *run,
		DecisionRatio:   DecisionRatio(run.RuleDecisions, run.LLMDecisions),
		DurationMinutes: DurationMinutes(run.DurationSeconds),
		CostText:        CostText(run.LLMCostUSD),
		Rounds:          rounds,
		Tags:            tags,
	}

	detail.Jokers = make([]JokerView, 0, len(jokers))
	for _, j := range jokers {
		jv := JokerView{Joker: j}
		if e, ok := s.catalog.Lookup(j.Name); ok {
			entry := e
			jv.Catalog = &entry
		}
		detail.Jokers = append(detail.Jokers, jv)
	}

	detail.Screenshots, detail.Toc, detail.Accuracy = decorateScreenshots(shots)

	if run.StrategyID != nil {
		st, err := s.store.GetStrategy(ctx, *run.StrategyID)
		if err == nil {
			detail.Strategy = strategyInfo(st)
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}
	return detail, nil
}

func (s *Service) GetByCode(ctx context.Context, code string) (*RunDetail, error) {
	id, err := s.store.GetRunIDByCode(ctx, code)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return s.Get(ctx, id)
}

// decorateScreenshots runs the timeline segmenter and the accuracy
// aggregator over the creation-ordered sequence.
func decorateScreenshots(shots []store.Screenshot) ([]ScreenshotView, []timeline.TocEntry, *AccuracySummary) {
	items := make([]timeline.Item, 0, len(shots))
	for _, sc := range shots {
		it := timeline.Item{}
		if sc.Caption != nil {
			it.Caption = *sc.Caption
		}
		if sc.EventType != nil {
			it.EventType = *sc.EventType
		}
		items = append(items, it)
	}
	entries, toc := timeline.Segment(items)

	views := make([]ScreenshotView, 0, len(shots))
	errs := make([]*float64, 0, len(shots))
	for i, sc := range shots {
		e := entries[i]
		v := ScreenshotView{
			Screenshot:   sc,
			Divider:      e.Divider,
			Anchor:       e.Anchor,
			DividerLabel: e.Label,
			Ante:         e.Ante,
			Stage:        e.Stage,
			Source:       e.Source,
		}
		v.Error = score.ItemError(sc.EstimatedScore, sc.ActualScore, sc.ScoreError)
		if v.Error != nil {
			v.Grade = score.GradeError(*v.Error)
		}
		errs = append(errs, v.Error)
		views = append(views, v)
	}

	var acc *AccuracySummary
	if agg := score.Aggregate(errs); agg != nil {
		acc = &AccuracySummary{Count: agg.Count, AvgAbs: agg.AvgAbs, MaxAbs: agg.MaxAbs, Grade: agg.Grade()}
	}
	return views, toc, acc
}

func strategyInfo(st *store.Strategy) *StrategyInfo {
	info := &StrategyInfo{
		ID:       st.ID,
		Name:     st.Name,
		CodeHash: st.CodeHash,
		Model:    st.Model,
		Summary:  st.Summary,
		ParentID: st.ParentID,
	}
	if len(st.Params) > 0 {
		_ = json.Unmarshal(st.Params, &info.Params)
	}
	return info
}

func (s *Service) Create(ctx context.Context, p CreateParams) (*store.Run, error) {
	if p.Deck == "" {
		p.Deck = "Red Deck"
	}
	if p.Stake == "" {
		p.Stake = "White"
	}
	if p.FinalAnte == 0 {
		p.FinalAnte = 1
	}
	var playedAt *time.Time
	if p.PlayedAtRaw != nil && *p.PlayedAtRaw != "" {
		ts, err := time.Parse(time.RFC3339, *p.PlayedAtRaw)
		if err != nil {
			return nil, ErrInvalidRequest
		}
		playedAt = &ts
	}
	return s.store.CreateRun(ctx, store.CreateRunParams{
		Seed:        p.Seed,
		Deck:        p.Deck,
		Stake:       p.Stake,
		FinalAnte:   p.FinalAnte,
		FinalScore:  p.FinalScore,
		Won:         p.Won,
		EndlessAnte: p.EndlessAnte,
		Notes:       p.Notes,
		LLMModel:    p.LLMModel,
		StrategyID:  p.StrategyID,
		PlayedAt:    playedAt,
	})
}

func (s *Service) Patch(ctx context.Context, id int64, p store.RunPatch) (*store.Run, error) {
	if p.Empty() {
		return nil, ErrInvalidRequest
	}
	run, err := s.store.PatchRun(ctx, id, p)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return run, nil
}

// Delete removes the run row (children cascade) and then the screenshot
// files from disk.
func (s *Service) Delete(ctx context.Context, id int64) error {
	filenames, err := s.store.ListScreenshotFilenames(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteRun(ctx, id); err != nil {
		return mapStoreErr(err)
	}
	return s.files.DeleteRun(id, filenames)
}

func (s *Service) AddJokers(ctx context.Context, runID int64, params []store.CreateJokerParams) ([]store.Joker, error) {
	if len(params) == 0 {
		return nil, ErrInvalidRequest
	}
	if err := s.requireRun(ctx, runID); err != nil {
		return nil, err
	}
	return s.store.InsertJokers(ctx, runID, params)
}

func (s *Service) AddRounds(ctx context.Context, runID int64, params []store.CreateRoundParams) ([]store.Round, error) {
	if len(params) == 0 {
		return nil, ErrInvalidRequest
	}
	if err := s.requireRun(ctx, runID); err != nil {
		return nil, err
	}
	return s.store.InsertRounds(ctx, runID, params)
}

func (s *Service) AddTag(ctx context.Context, runID int64, ante int, name string) (*store.Tag, error) {
	if name == "" {
		return nil, ErrInvalidRequest
	}
	if err := s.requireRun(ctx, runID); err != nil {
		return nil, err
	}
	return s.store.InsertTag(ctx, runID, ante, name)
}

func (s *Service) AddScreenshot(ctx context.Context, p AddScreenshotParams) (*store.Screenshot, error) {
	if len(p.Content) == 0 {
		return nil, ErrInvalidRequest
	}
	if err := s.requireRun(ctx, p.RunID); err != nil {
		return nil, err
	}
	saved, err := s.files.Save(p.RunID, p.OriginalName, p.Content)
	if err != nil {
		if errors.Is(err, media.ErrBadExtension) || errors.Is(err, media.ErrFileTooLarge) {
			return nil, errors.Join(ErrInvalidRequest, err)
		}
		return nil, err
	}

	var scoreErr *float64
	if p.EstimatedScore != nil && p.ActualScore != nil && *p.EstimatedScore != 0 {
		v := float64(*p.ActualScore-*p.EstimatedScore) / float64(*p.EstimatedScore)
		scoreErr = &v
	}

	origName := p.OriginalName
	return s.store.InsertScreenshot(ctx, store.CreateScreenshotParams{
		RunID:          p.RunID,
		RoundID:        p.RoundID,
		Filename:       saved.Filename,
		OriginalName:   &origName,
		Caption:        p.Caption,
		EventType:      p.EventType,
		FileSize:       &saved.Size,
		Width:          saved.Width,
		Height:         saved.Height,
		EstimatedScore: p.EstimatedScore,
		ActualScore:    p.ActualScore,
		ScoreError:     scoreErr,
	})
}

func (s *Service) DeleteScreenshot(ctx context.Context, id int64) error {
	sc, err := s.store.GetScreenshot(ctx, id)
	if err != nil {
		return mapStoreErr(err)
	}
	if err := s.store.DeleteScreenshot(ctx, id); err != nil {
		return mapStoreErr(err)
	}
	return s.files.Delete(sc.Filename)
}

func (s *Service) Stats(ctx context.Context) (*store.Stats, error) {
	return s.store.GetStats(ctx)
}

func (s *Service) Seeds(ctx context.Context) ([]store.SeedSummary, error) {
	return s.store.ListSeedSummaries(ctx)
}

func (s *Service) Seed(ctx context.Context, seed string) (*SeedDetail, error) {
	if seed == "" {
		return nil, ErrInvalidRequest
	}
	items, err := s.store.ListRunsBySeed(ctx, seed)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}
	stats, err := s.store.ListRunScoreStats(ctx)
	if err != nil {
		return nil, err
	}
	detail := &SeedDetail{Seed: seed, RunCount: len(items)}
	seenStrategies := map[string]bool{}
	for _, it := range items {
		if it.Won {
			detail.Wins++
		}
		if it.FinalAnte > detail.BestAnte {
			detail.BestAnte = it.FinalAnte
		}
		if it.StrategyName != nil && !seenStrategies[*it.StrategyName] {
			seenStrategies[*it.StrategyName] = true
			detail.StrategyNames = append(detail.StrategyNames, *it.StrategyName)
		}
		detail.Runs = append(detail.Runs, Summarize(it, stats))
	}
	return detail, nil
}

func (s *Service) requireRun(ctx context.Context, id int64) error {
	if _, err := s.store.GetRun(ctx, id); err != nil {
		return mapStoreErr(err)
	}
	return nil
}

func mapStoreErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
