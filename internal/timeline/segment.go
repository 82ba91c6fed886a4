package timeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Stage is the blind-level classification of a screenshot caption. The
// constant values double as the display labels rendered in dividers and
// the table of contents.
type Stage string

const (
	StageShop       Stage = "商店"
	StageSmallBlind Stage = "小盲"
	StageBigBlind   Stage = "大盲"
	StageBoss       Stage = "Boss"
	StageStarted    Stage = "开始"
	StageEnded      Stage = "结束"
	StageNone       Stage = ""
)

// stageKeywords is the caption keyword priority order. First match wins.
var stageKeywords = []Stage{StageShop, StageSmallBlind, StageBigBlind, StageBoss}

const (
	eventGameStart = "game_start"
	eventGameOver  = "game_over"
)

// Source is the decision provenance marker embedded in captions.
type Source string

const (
	SourceRule Source = "rule"
	SourceLLM  Source = "llm"
	SourceNone Source = ""
)

var anteMarker = regexp.MustCompile(`第(\d+)关`)

// Item is one screenshot in canonical creation order.
type Item struct {
	Caption   string
	EventType string
}

// Key identifies a timeline segment.
type Key struct {
	Ante  int
	Stage Stage
}

// Entry decorates one input item with its segment assignment. Divider is
// set on the item that opens a new segment; Anchor is stable across
// re-derivations of the same sequence.
type Entry struct {
	Index   int
	Ante    int
	Stage   Stage
	Source  Source
	Divider bool
	Anchor  string
	Label   string
}

// TocEntry is one table-of-contents row, unique per (ante, stage).
type TocEntry struct {
	Ante   int    `json:"ante"`
	Stage  Stage  `json:"stage"`
	Anchor string `json:"anchor"`
}

// Classify extracts the ante number and stage from a caption, falling back
// to the event type when no stage keyword is present. A caption without an
// ante marker classifies as ante 0.
func Classify(caption, eventType string) (int, Stage) {
	ante := 0
	if m := anteMarker.FindStringSubmatch(caption); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			ante = n
		}
	}
	for _, kw := range stageKeywords {
		if strings.Contains(caption, string(kw)) {
			return ante, kw
		}
	}
	if strings.Contains(caption, "游戏结束") || eventType == eventGameOver {
		return ante, StageEnded
	}
	if strings.Contains(caption, "开始") || eventType == eventGameStart {
		return ante, StageStarted
	}
	return ante, StageNone
}

// ClassifySource reports the decision-source marker in a caption.
func ClassifySource(caption string) Source {
	if strings.Contains(caption, "[Rule]") {
		return SourceRule
	}
	if strings.Contains(caption, "[LLM]") {
		return SourceLLM
	}
	return SourceNone
}

// Segment assigns every item to a stage segment and builds the deduplicated
// table of contents in a single forward pass. Pure over its input: the same
// sequence always yields the same entries and TOC.
func Segment(items []Item) ([]Entry, []TocEntry) {
	entries := make([]Entry, 0, len(items))
	toc := make([]TocEntry, 0, 8)
	seen := make(map[Key]bool)
	var last Key
	haveLast := false

	for i, it := range items {
		text := it.Caption
		if text == "" {
			text = it.EventType
		}
		ante, stage := Classify(text, it.EventType)
		e := Entry{
			Index:  i,
			Ante:   ante,
			Stage:  stage,
			Source: ClassifySource(text),
		}
		key := Key{Ante: ante, Stage: stage}
		if stage != StageNone {
			if !haveLast || key != last {
				e.Divider = true
				e.Anchor = anchorAt(i)
				e.Label = segmentLabel(ante, stage)
				last = key
				haveLast = true
			}
			if !seen[key] {
				seen[key] = true
				toc = append(toc, TocEntry{Ante: ante, Stage: stage, Anchor: anchorAt(i)})
			}
		}
		entries = append(entries, e)
	}
	return entries, toc
}

func anchorAt(i int) string {
	return fmt.Sprintf("blind-%d", i)
}

func segmentLabel(ante int, stage Stage) string {
	if ante > 0 {
		return fmt.Sprintf("第%d关 %s", ante, stage)
	}
	return string(stage)
}
