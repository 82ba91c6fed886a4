package timeline

import (
	"reflect"
	"testing"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name      string
		caption   string
		eventType string
		wantAnte  int
		wantStage Stage
	}{
		{"shop with ante", "第3关 商店购物", "", 3, StageShop},
		{"small blind", "第1关 小盲注", "", 1, StageSmallBlind},
		{"big blind", "第2关 大盲注", "", 2, StageBigBlind},
		{"boss", "第8关 Boss战", "", 8, StageBoss},
		{"keyword priority over boss", "第4关 商店 before Boss", "", 4, StageShop},
		{"game over caption", "游戏结束，最终得分", "", 0, StageEnded},
		{"game over event fallback", "final frame", "game_over", 0, StageEnded},
		{"start caption", "开始新的一局", "", 0, StageStarted},
		{"start event fallback", "", "game_start", 0, StageStarted},
		{"no marker", "just a hand", "", 0, StageNone},
		{"ante without stage", "第5关", "", 5, StageNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ante, stage := Classify(tc.caption, tc.eventType)
			if ante != tc.wantAnte || stage != tc.wantStage {
				t.Fatalf("Classify(%q, %q) = (%d, %q), want (%d, %q)",
					tc.caption, tc.eventType, ante, stage, tc.wantAnte, tc.wantStage)
			}
		})
	}
}

func TestClassifySource(t *testing.T) {
	cases := []struct {
		caption string
		want    Source
	}{
		{"[Rule] play flush", SourceRule},
		{"[LLM] buy the joker", SourceLLM},
		{"no marker here", SourceNone},
		{"", SourceNone},
	}
	for _, tc := range cases {
		if got := ClassifySource(tc.caption); got != tc.want {
			t.Errorf("ClassifySource(%q) = %q, want %q", tc.caption, got, tc.want)
		}
	}
}

func TestSegmentDividersAndToc(t *testing.T) {
	items := []Item{
		{Caption: "第1关 小盲注 进场"},
		{Caption: "第1关 小盲注 出牌"},
		{Caption: "第1关 Boss战"},
		{Caption: "第2关 商店"},
	}
	entries, toc := Segment(items)

	if len(entries) != len(items) {
		t.Fatalf("got %d entries, want %d", len(entries), len(items))
	}
	wantDividers := []bool{true, false, true, true}
	for i, want := range wantDividers {
		if entries[i].Divider != want {
			t.Errorf("entry %d divider = %v, want %v", i, entries[i].Divider, want)
		}
	}
	if entries[0].Anchor != "blind-0" || entries[2].Anchor != "blind-2" {
		t.Errorf("unexpected anchors: %q, %q", entries[0].Anchor, entries[2].Anchor)
	}
	if entries[0].Label != "第1关 小盲" {
		t.Errorf("label = %q, want %q", entries[0].Label, "第1关 小盲")
	}

	want := []TocEntry{
		{Ante: 1, Stage: StageSmallBlind, Anchor: "blind-0"},
		{Ante: 1, Stage: StageBoss, Anchor: "blind-2"},
		{Ante: 2, Stage: StageShop, Anchor: "blind-3"},
	}
	if !reflect.DeepEqual(toc, want) {
		t.Fatalf("toc = %+v, want %+v", toc, want)
	}
}

func TestSegmentTocDedup(t *testing.T) {
	// Re-entering a stage already seen starts a new divider but must not
	// duplicate the TOC row.
	items := []Item{
		{Caption: "第1关 商店"},
		{Caption: "第1关 小盲注"},
		{Caption: "第1关 商店 again"},
	}
	entries, toc := Segment(items)
	if !entries[2].Divider {
		t.Fatalf("re-entered stage should open a new segment")
	}
	if len(toc) != 2 {
		t.Fatalf("got %d toc entries, want 2: %+v", len(toc), toc)
	}
}

func TestSegmentUnclassifiedInheritsNothing(t *testing.T) {
	items := []Item{
		{Caption: "just a hand"},
		{Caption: "第1关 大盲注"},
	}
	entries, toc := Segment(items)
	if entries[0].Divider || entries[0].Stage != StageNone {
		t.Errorf("unclassified item must not open a segment: %+v", entries[0])
	}
	if len(toc) != 1 || toc[0].Anchor != "blind-1" {
		t.Errorf("toc = %+v, want single entry anchored at blind-1", toc)
	}
}

func TestSegmentDeterministic(t *testing.T) {
	items := []Item{
		{Caption: "开始"},
		{Caption: "第1关 小盲注"},
		{Caption: "", EventType: "game_over"},
	}
	e1, t1 := Segment(items)
	e2, t2 := Segment(items)
	if !reflect.DeepEqual(e1, e2) || !reflect.DeepEqual(t1, t2) {
		t.Fatal("Segment is not deterministic over identical input")
	}
}

func TestSegmentEmpty(t *testing.T) {
	entries, toc := Segment(nil)
	if len(entries) != 0 || len(toc) != 0 {
		t.Fatalf("empty input should yield empty output, got %d/%d", len(entries), len(toc))
	}
}
