package witness

import (
	"testing"

	"github.com/google/uuid"
)

func TestReportMaturesAfterDelay(t *testing.T) {
	q := NewQueue()
	q.Push(Report{ReportingFaction: "republic", System: "sol", Impact: -15})

	for i := 0; i < ReportDelayTicks-1; i++ {
		if matured := q.Step(); len(matured) != 0 {
			t.Fatalf("report matured early on tick %d", i+1)
		}
	}

	matured := q.Step()
	if len(matured) != 1 {
		t.Fatalf("expected 1 matured report, got %d", len(matured))
	}
	if matured[0].ReportingFaction != "republic" || matured[0].Impact != -15 {
		t.Errorf("matured report corrupted: %+v", matured[0])
	}
	if q.Len() != 0 {
		t.Errorf("queue should be empty after delivery, has %d", q.Len())
	}
}

func TestPushSetsDefaultDelay(t *testing.T) {
	q := NewQueue()
	q.Push(Report{ReportingFaction: "republic"})

	if got := q.Pending()[0].TicksRemaining; got != ReportDelayTicks {
		t.Errorf("default delay = %d, want %d", got, ReportDelayTicks)
	}
}

func TestEliminatingAllWitnessesSuppressesReport(t *testing.T) {
	w1, w2 := uuid.New(), uuid.New()
	q := NewQueue()
	q.Push(Report{
		ReportingFaction: "republic",
		System:           "sol",
		Suppressible:     true,
		Witnesses:        []uuid.UUID{w1, w2},
	})

	q.Step()
	q.NotifyDestroyed(w1)
	if q.Len() != 1 {
		t.Fatal("report dropped with a witness still alive")
	}

	q.NotifyDestroyed(w2)
	// The suppressed report must be discarded before any countdown,
	// even one silenced on its final tick.
	for i := 0; i < ReportDelayTicks; i++ {
		if matured := q.Step(); len(matured) != 0 {
			t.Fatal("suppressed report was delivered")
		}
	}
	if q.Len() != 0 {
		t.Errorf("suppressed report still pending")
	}
}

func TestNonSuppressibleReportSurvivesWitnessDeaths(t *testing.T) {
	w := uuid.New()
	q := NewQueue()
	q.Push(Report{
		ReportingFaction: "republic-navy",
		Suppressible:     false,
		Witnesses:        []uuid.UUID{w},
	})

	q.NotifyDestroyed(w)

	delivered := 0
	for i := 0; i < ReportDelayTicks; i++ {
		delivered += len(q.Step())
	}
	if delivered != 1 {
		t.Errorf("non-suppressible report deliveries = %d, want 1", delivered)
	}
}

func TestReportsDeliverInOrder(t *testing.T) {
	q := NewQueue()
	q.Push(Report{ReportingFaction: "first", TicksRemaining: 2})
	q.Push(Report{ReportingFaction: "second", TicksRemaining: 2})

	q.Step()
	matured := q.Step()
	if len(matured) != 2 {
		t.Fatalf("expected both reports, got %d", len(matured))
	}
	if matured[0].ReportingFaction != "first" || matured[1].ReportingFaction != "second" {
		t.Errorf("delivery order wrong: %s, %s",
			matured[0].ReportingFaction, matured[1].ReportingFaction)
	}
}

func TestClear(t *testing.T) {
	q := NewQueue()
	q.Push(Report{ReportingFaction: "republic"})
	q.Clear()
	if q.Len() != 0 {
		t.Error("clear left reports pending")
	}
}
