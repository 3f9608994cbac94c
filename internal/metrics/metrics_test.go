package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gather(t *testing.T, reg *prometheus.Registry, name string) []*dto.Metric {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return mf.GetMetric()
		}
	}
	t.Fatalf("metric %s not found", name)
	return nil
}

func TestSweepCompleted(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.SweepCompleted(3, 20*time.Millisecond)
	c.SweepCompleted(0, 5*time.Millisecond)

	if v := gather(t, reg, "remindme_sweeps_total")[0].GetCounter().GetValue(); v != 2 {
		t.Errorf("sweeps_total = %v, want 2", v)
	}
	if v := gather(t, reg, "remindme_sweep_matched_events_total")[0].GetCounter().GetValue(); v != 3 {
		t.Errorf("sweep_matched_events_total = %v, want 3", v)
	}
	if n := gather(t, reg, "remindme_sweep_duration_seconds")[0].GetHistogram().GetSampleCount(); n != 2 {
		t.Errorf("sweep_duration sample count = %d, want 2", n)
	}
}

func TestReminderCountersByKind(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.ReminderSent("countdown")
	c.ReminderSent("countdown")
	c.ReminderSent("today")
	c.ReminderFailed("fallback")

	got := map[string]float64{}
	for _, m := range gather(t, reg, "remindme_reminders_sent_total") {
		got[m.GetLabel()[0].GetValue()] = m.GetCounter().GetValue()
	}
	if got["countdown"] != 2 || got["today"] != 1 {
		t.Errorf("reminders_sent_total = %v", got)
	}

	failed := gather(t, reg, "remindme_reminders_failed_total")
	if len(failed) != 1 || failed[0].GetLabel()[0].GetValue() != "fallback" {
		t.Errorf("unexpected reminders_failed_total: %v", failed)
	}
}

func TestEventAndStoreCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.EventCreated()
	c.EventDeleted()
	c.EventDeleted()
	c.WizardOutcome("created")
	c.StoreError("list")

	if v := gather(t, reg, "remindme_events_created_total")[0].GetCounter().GetValue(); v != 1 {
		t.Errorf("events_created_total = %v, want 1", v)
	}
	if v := gather(t, reg, "remindme_events_deleted_total")[0].GetCounter().GetValue(); v != 2 {
		t.Errorf("events_deleted_total = %v, want 2", v)
	}
	if v := gather(t, reg, "remindme_wizard_outcomes_total")[0].GetCounter().GetValue(); v != 1 {
		t.Errorf("wizard_outcomes_total = %v, want 1", v)
	}
	if v := gather(t, reg, "remindme_store_errors_total")[0].GetCounter().GetValue(); v != 1 {
		t.Errorf("store_errors_total = %v, want 1", v)
	}
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.EventCreated()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "remindme_events_created_total 1") {
		t.Errorf("response should contain remindme_events_created_total, got:\n%s", body)
	}
}

func TestNop_SatisfiesRecorder(t *testing.T) {
	var r Recorder = Nop{}
	r.SweepCompleted(1, time.Second)
	r.ReminderSent("today")
	r.StoreError("get")
}
