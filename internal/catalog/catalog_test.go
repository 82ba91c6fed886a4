package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLookupCaseInsensitive(t *testing.T) {
	cat := New([]Entry{
		{NameEN: "Blueprint", NameZH: "蓝图", EffectEN: "Copies the joker to the right."},
		{NameEN: "The Duo", NameZH: "二重奏"},
	})
	for _, name := range []string{"Blueprint", "blueprint", "BLUEPRINT", "  blueprint "} {
		e, ok := cat.Lookup(name)
		if !ok || e.NameZH != "蓝图" {
			t.Errorf("Lookup(%q) = (%+v, %v)", name, e, ok)
		}
	}
	if _, ok := cat.Lookup("Brainstorm"); ok {
		t.Error("Lookup of unknown joker should miss")
	}
}

func TestLoadMissingFile(t *testing.T) {
	cat, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cat.Len() != 0 {
		t.Fatalf("missing file should yield empty catalog, got %d", cat.Len())
	}
	if _, ok := cat.Lookup("anything"); ok {
		t.Error("empty catalog should never hit")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jokers.json")
	data := `[{"name_en":"Joker","name_zh":"小丑","effect_en":"+4 Mult","effect_zh":"+4 倍率","image":"joker.png"}]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cat.Len() != 1 {
		t.Fatalf("got %d entries, want 1", cat.Len())
	}
	e, ok := cat.Lookup("joker")
	if !ok || e.Image != "joker.png" || e.EffectEN != "+4 Mult" {
		t.Fatalf("Lookup = (%+v, %v)", e, ok)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jokers.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed catalog should error")
	}
}
