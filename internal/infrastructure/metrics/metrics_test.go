package metrics

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func intPtr(v int) *int { return &v }

func TestObserveStatus(t *testing.T) {
	m := New()

	m.ObserveStatus("S1", "276", "INACTIVE_CHARGED", false, intPtr(100))
	m.ObserveStatus("S1", "276", "FULL_CLEAN_RUNNING", true, nil)

	if got := testutil.ToFloat64(m.statusMessages.WithLabelValues("S1", "276")); got != 2 {
		t.Errorf("status_messages_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.running.WithLabelValues("S1", "276")); got != 1 {
		t.Errorf("vacuum_running = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.battery.WithLabelValues("S1", "276")); got != 100 {
		t.Errorf("battery_percent = %v, want 100 kept from first message", got)
	}

	// only the current state has a series
	if n := testutil.CollectAndCount(m.state); n != 1 {
		t.Errorf("vacuum_state series = %d, want 1", n)
	}
	if got := testutil.ToFloat64(m.state.WithLabelValues("S1", "276", "FULL_CLEAN_RUNNING")); got != 1 {
		t.Errorf("vacuum_state{FULL_CLEAN_RUNNING} = %v, want 1", got)
	}
}

func TestObserveStatus_EmptyStateKeepsSeries(t *testing.T) {
	m := New()

	m.ObserveStatus("S1", "N223", "FULL_CLEAN_PAUSED", false, nil)
	m.ObserveStatus("S1", "N223", "", false, intPtr(40))

	if n := testutil.CollectAndCount(m.state); n != 1 {
		t.Errorf("vacuum_state series = %d, want 1", n)
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveStatus("S1", "276", "INACTIVE_CHARGING", false, intPtr(55))
	if err := m.RegisterSessionGauges(
		func() float64 { return 2 },
		func() float64 { return 1 },
	); err != nil {
		t.Fatalf("RegisterSessionGauges() error = %v", err)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	for _, want := range []string{
		`dysonvac_battery_percent{product_type="276",serial="S1"} 55`,
		`dysonvac_sessions 2`,
		`dysonvac_sessions_connected 1`,
		`dysonvac_vacuum_state{product_type="276",serial="S1",state="INACTIVE_CHARGING"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("scrape missing %q", want)
		}
	}
}

func TestRegisterSessionGauges_Twice(t *testing.T) {
	m := New()
	one := func() float64 { return 1 }

	if err := m.RegisterSessionGauges(one, one); err != nil {
		t.Fatalf("first RegisterSessionGauges() error = %v", err)
	}
	if err := m.RegisterSessionGauges(one, one); err == nil {
		t.Error("second RegisterSessionGauges() should fail")
	}
}

func TestServe(t *testing.T) {
	m := New()

	ctx, cancel := context.WithCancel(context.Background())
	done, err := m.Serve(ctx, "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Serve() error = %v", err)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("server error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServe_BadAddress(t *testing.T) {
	if _, err := New().Serve(context.Background(), "not-an-address"); err == nil {
		t.Error("Serve() should fail for an invalid address")
	}
}
