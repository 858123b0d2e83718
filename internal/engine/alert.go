package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/hubtray/hubtray/internal/model"
)

// maxSummaryItems caps how many representative items appear in an alert
// body before it collapses into "and N more".
const maxSummaryItems = 3

// maxTitleLen is the truncation point for item titles in alert bodies.
const maxTitleLen = 50

// Alert is the announcement produced for one reconciliation cycle. The
// core's responsibility ends at this triple plus the two channel gates;
// actual dispatch belongs to the platform notifier.
type Alert struct {
	// Title is the notification headline.
	Title string

	// Body summarizes the affected threads.
	Body string

	// DedupTag is stable for repeated alerts about the same state, so the
	// dispatch layer can collapse duplicates.
	DedupTag string

	// PlaySound and ShowDesktop carry the user's channel toggles. They
	// are gated independently: disabling one never suppresses the other.
	PlaySound   bool
	ShowDesktop bool
}

// Decide turns a classification into an alert, or nil when the cycle
// produced nothing announce-worthy or both channels are disabled.
func Decide(class Classification, settings model.AlertConfig) *Alert {
	if class.Kind == ClassNone || class.Count == 0 {
		return nil
	}
	if !settings.EnableSound && !settings.EnableDesktop {
		return nil
	}

	var title, body string
	switch class.Kind {
	case ClassNew:
		title = fmt.Sprintf("%d new %s", class.Count,
			pluralNotification(class.Count))
		body = summarize(class.Threads)
	case ClassUpdated:
		title = fmt.Sprintf("%d updated %s", class.Count,
			pluralNotification(class.Count))
		body = summarize(class.Threads)
	case ClassCountNew:
		// Only a count is known; no identities to list.
		title = fmt.Sprintf("%d new %s", class.Count,
			pluralNotification(class.Count))
		body = fmt.Sprintf("%d new %s", class.Count,
			pluralNotification(class.Count))
	}

	return &Alert{
		Title:       title,
		Body:        body,
		DedupTag:    dedupTag(class),
		PlaySound:   settings.EnableSound,
		ShowDesktop: settings.EnableDesktop,
	}
}

// summarize renders up to maxSummaryItems representative lines, then an
// "and N more" suffix when truncated.
func summarize(threads []model.Thread) string {
	var lines []string
	for i, t := range threads {
		if i == maxSummaryItems {
			break
		}
		lines = append(lines, fmt.Sprintf(
			"%s %s: %s",
			t.SubjectType, t.Repository.FullName,
			truncate(t.SubjectTitle, maxTitleLen),
		))
	}
	if extra := len(threads) - maxSummaryItems; extra > 0 {
		lines = append(lines, fmt.Sprintf("and %d more", extra))
	}
	return strings.Join(lines, "\n")
}

// dedupTag derives a stable tag from the classification so the same state
// always maps to the same tag. For count-only classifications the ids are
// unknown, so the tag covers kind and count.
func dedupTag(class Classification) string {
	h := sha256.New()
	fmt.Fprintf(h, "%d:%d:", class.Kind, class.Count)

	if class.Kind != ClassCountNew {
		ids := make([]string, 0, len(class.Threads))
		for _, t := range class.Threads {
			ids = append(ids, t.ID)
		}
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Fprintf(h, "%s,", id)
		}
	}

	return hex.EncodeToString(h.Sum(nil))[:16]
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}

func pluralNotification(n int) string {
	if n == 1 {
		return "notification"
	}
	return "notifications"
}
