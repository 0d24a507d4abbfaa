package reflection

import (
	"strings"
	"testing"
)

func TestExtract_NoLabels(t *testing.T) {
	text := "The capital of France is Paris. Nothing else to report."
	refs := Extract(text)
	if len(refs) != 0 {
		t.Errorf("expected no reflections, got %d: %+v", len(refs), refs)
	}
}

func TestExtract_SingleDetailed(t *testing.T) {
	text := "Some answer.\nDETAILED REFLECTION 1: I noticed the user prefers brevity.\nMore prose."
	refs := Extract(text)
	if len(refs) != 1 {
		t.Fatalf("expected 1 reflection, got %d", len(refs))
	}
	if refs[0].Type != "DETAILED REFLECTION 1" {
		t.Errorf("unexpected type: %q", refs[0].Type)
	}
	if refs[0].Content != "I noticed the user prefers brevity.\nMore prose." {
		t.Errorf("unexpected content: %q", refs[0].Content)
	}
}

func TestExtract_MultipleDetailedInOrder(t *testing.T) {
	text := "DETAILED REFLECTION 1: first insight\n" +
		"DETAILED REFLECTION 2: second insight\n" +
		"DETAILED REFLECTION 3: third insight"
	refs := Extract(text)
	if len(refs) != 3 {
		t.Fatalf("expected 3 reflections, got %d", len(refs))
	}
	wantTypes := []string{"DETAILED REFLECTION 1", "DETAILED REFLECTION 2", "DETAILED REFLECTION 3"}
	wantBodies := []string{"first insight", "second insight", "third insight"}
	for i, r := range refs {
		if r.Type != wantTypes[i] {
			t.Errorf("reflection %d: type %q, want %q", i, r.Type, wantTypes[i])
		}
		if r.Content != wantBodies[i] {
			t.Errorf("reflection %d: content %q, want %q", i, r.Content, wantBodies[i])
		}
	}
}

func TestExtract_DetailedCaseInsensitive(t *testing.T) {
	text := "detailed reflection 2: lowercase label still counts"
	refs := Extract(text)
	if len(refs) != 1 {
		t.Fatalf("expected 1 reflection, got %d", len(refs))
	}
	if refs[0].Type != "detailed reflection 2" {
		t.Errorf("type should preserve matched text, got %q", refs[0].Type)
	}
}

func TestExtract_DetailedStopsAtDelimiter(t *testing.T) {
	text := "DETAILED REFLECTION 1: kept text #### dropped text"
	refs := Extract(text)
	if len(refs) != 1 {
		t.Fatalf("expected 1 reflection, got %d", len(refs))
	}
	if refs[0].Content != "kept text" {
		t.Errorf("body should stop at ####, got %q", refs[0].Content)
	}
}

func TestExtract_DetailedStopsAtBriefLabel(t *testing.T) {
	text := "DETAILED REFLECTION 1: detailed body\nReflection: brief body"
	refs := Extract(text)
	if len(refs) != 2 {
		t.Fatalf("expected 2 reflections, got %d", len(refs))
	}
	if refs[0].Content != "detailed body" {
		t.Errorf("detailed body should stop at Reflection:, got %q", refs[0].Content)
	}
	if refs[1].Type != "BRIEF REFLECTION" || refs[1].Content != "brief body" {
		t.Errorf("unexpected brief reflection: %+v", refs[1])
	}
}

func TestExtract_OnlyFirstBriefTaken(t *testing.T) {
	text := "Reflection: the first one\n####\nReflection: the second one"
	refs := Extract(text)
	if len(refs) != 1 {
		t.Fatalf("expected 1 reflection, got %d", len(refs))
	}
	if refs[0].Type != "BRIEF REFLECTION" {
		t.Errorf("unexpected type: %q", refs[0].Type)
	}
	if refs[0].Content != "the first one" {
		t.Errorf("expected only the first brief section, got %q", refs[0].Content)
	}
}

func TestExtract_BriefAlwaysOrderedLast(t *testing.T) {
	// Brief section appears before the detailed one in the source text.
	text := "Reflection: appears first in text\n####\nDETAILED REFLECTION 1: appears second"
	refs := Extract(text)
	if len(refs) != 2 {
		t.Fatalf("expected 2 reflections, got %d", len(refs))
	}
	if !strings.HasPrefix(refs[0].Type, "DETAILED") {
		t.Errorf("detailed reflection should come first, got %q", refs[0].Type)
	}
	if refs[1].Type != "BRIEF REFLECTION" {
		t.Errorf("brief reflection should come last, got %q", refs[1].Type)
	}
}

func TestExtract_TrimsWhitespace(t *testing.T) {
	text := "Reflection:    I learned X.   \n\n####"
	refs := Extract(text)
	if len(refs) != 1 {
		t.Fatalf("expected 1 reflection, got %d", len(refs))
	}
	if refs[0].Content != "I learned X." {
		t.Errorf("content should be trimmed, got %q", refs[0].Content)
	}
}
