package engine

import (
	"strings"
	"testing"

	"github.com/hubtray/hubtray/internal/model"
)

func alertSettings(sound, desktop bool) model.AlertConfig {
	return model.AlertConfig{EnableSound: sound, EnableDesktop: desktop}
}

func newClass(ids ...string) Classification {
	threads := make([]model.Thread, 0, len(ids))
	for _, id := range ids {
		threads = append(threads, stamped(id, "a/x", t1))
	}
	return Classification{Kind: ClassNew, Threads: threads, Count: len(ids)}
}

func TestDecideSilentClassificationsProduceNoAlert(t *testing.T) {
	if got := Decide(Classification{Kind: ClassNone}, alertSettings(true, true)); got != nil {
		t.Fatalf("expected nil alert for ClassNone, got %+v", got)
	}
}

func TestDecideBothChannelsDisabledProducesNoAlert(t *testing.T) {
	if got := Decide(newClass("1"), alertSettings(false, false)); got != nil {
		t.Fatalf("expected nil alert with all channels off, got %+v", got)
	}
}

func TestDecideChannelsGateIndependently(t *testing.T) {
	soundOnly := Decide(newClass("1"), alertSettings(true, false))
	if soundOnly == nil || !soundOnly.PlaySound || soundOnly.ShowDesktop {
		t.Fatalf("expected sound-only alert, got %+v", soundOnly)
	}

	desktopOnly := Decide(newClass("1"), alertSettings(false, true))
	if desktopOnly == nil || desktopOnly.PlaySound || !desktopOnly.ShowDesktop {
		t.Fatalf("expected desktop-only alert, got %+v", desktopOnly)
	}
}

func TestDecideSummaryListsAtMostThreeItems(t *testing.T) {
	alert := Decide(newClass("1", "2", "3", "4", "5"), alertSettings(true, true))
	if alert == nil {
		t.Fatal("expected alert")
	}

	lines := strings.Split(alert.Body, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 3 items + overflow line, got %d lines", len(lines))
	}
	if lines[3] != "and 2 more" {
		t.Fatalf("expected overflow suffix, got %q", lines[3])
	}
	if alert.Title != "5 new notifications" {
		t.Fatalf("unexpected title %q", alert.Title)
	}
}

func TestDecideTruncatesLongTitles(t *testing.T) {
	long := stamped("1", "a/x", t1)
	long.SubjectTitle = strings.Repeat("x", 80)
	class := Classification{Kind: ClassNew, Threads: []model.Thread{long}, Count: 1}

	alert := Decide(class, alertSettings(true, true))
	if alert == nil {
		t.Fatal("expected alert")
	}
	if !strings.Contains(alert.Body, strings.Repeat("x", 50)+"…") {
		t.Fatalf("expected truncated title with ellipsis, body %q", alert.Body)
	}
	if strings.Contains(alert.Body, strings.Repeat("x", 51)) {
		t.Fatalf("title not truncated at 50 chars: %q", alert.Body)
	}
}

func TestDecideCountOnlyFallbackBody(t *testing.T) {
	class := Classification{
		Kind:    ClassCountNew,
		Threads: []model.Thread{stamped("1", "a/x", t1)},
		Count:   3,
	}

	alert := Decide(class, alertSettings(true, true))
	if alert == nil {
		t.Fatal("expected alert")
	}
	if alert.Body != "3 new notifications" {
		t.Fatalf("expected generic count body, got %q", alert.Body)
	}
}

func TestDedupTagStableAcrossThreadOrder(t *testing.T) {
	first := Decide(newClass("1", "2", "3"), alertSettings(true, true))
	second := Decide(newClass("3", "1", "2"), alertSettings(true, true))

	if first.DedupTag != second.DedupTag {
		t.Fatalf("expected identical tags, got %q and %q",
			first.DedupTag, second.DedupTag)
	}
}

func TestDedupTagVariesByState(t *testing.T) {
	a := Decide(newClass("1"), alertSettings(true, true))
	b := Decide(newClass("2"), alertSettings(true, true))

	if a.DedupTag == b.DedupTag {
		t.Fatalf("expected differing tags for differing states")
	}
}

func TestDecideUpdatedClassification(t *testing.T) {
	class := Classification{
		Kind:    ClassUpdated,
		Threads: []model.Thread{stamped("1", "a/x", t2)},
		Count:   1,
	}

	alert := Decide(class, alertSettings(true, true))
	if alert == nil {
		t.Fatal("expected alert")
	}
	if alert.Title != "1 updated notification" {
		t.Fatalf("unexpected title %q", alert.Title)
	}
}
