package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/progress"

	"boundcheck/internal/driver"
)

func TestNewProgressModelRendersQueuedItems(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("checking 2 modules", []string{"a.module", "b.module"}, events)
	view := m.View()
	if !strings.Contains(view, "a.module") || !strings.Contains(view, "b.module") {
		t.Fatalf("expected both module paths in view, got: %s", view)
	}
	if !strings.Contains(view, "queued") {
		t.Fatalf("expected queued status, got: %s", view)
	}
}

func TestProgressModelAppliesEventsAndAdvancesStatus(t *testing.T) {
	events := make(chan driver.Event)
	pm := &progressModel{
		title:  "checking",
		events: events,
		prog:   progress.New(),
		items:  []moduleItem{{path: "a.module", status: "queued"}},
		index:  map[string]int{"a.module": 0},
		width:  80,
	}

	pm.applyEvent(driver.Event{Path: "a.module", Stage: driver.StageNormalize, Status: driver.StatusWorking})
	if pm.items[0].status != "normalize" {
		t.Fatalf("status = %q, want normalize", pm.items[0].status)
	}

	pm.applyEvent(driver.Event{Path: "a.module", Stage: driver.StageBoundCheck, Status: driver.StatusDone})
	if pm.items[0].status != "done" {
		t.Fatalf("status = %q, want done", pm.items[0].status)
	}
}

func TestProgressModelIgnoresEventForUnknownPath(t *testing.T) {
	pm := &progressModel{
		prog:  progress.New(),
		items: []moduleItem{{path: "a.module", status: "queued"}},
		index: map[string]int{"a.module": 0},
		width: 80,
	}
	pm.applyEvent(driver.Event{Path: "unknown.module", Stage: driver.StageNormalize, Status: driver.StatusWorking})
	if pm.items[0].status != "queued" {
		t.Fatalf("expected unrelated item untouched, got %q", pm.items[0].status)
	}
}

func TestEmptyModelViewIsBlank(t *testing.T) {
	pm := &progressModel{}
	if pm.View() != "" {
		t.Fatalf("expected empty view for zero modules, got %q", pm.View())
	}
}

func TestTruncateShortensLongPaths(t *testing.T) {
	long := strings.Repeat("x", 50)
	got := truncate(long, 10)
	if len([]rune(got)) > 10 {
		t.Fatalf("truncate did not respect width: %q", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis suffix, got %q", got)
	}
}

func TestTruncateLeavesShortPathsAlone(t *testing.T) {
	if got := truncate("short.module", 40); got != "short.module" {
		t.Fatalf("truncate = %q, want unchanged", got)
	}
}
