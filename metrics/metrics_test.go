package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/movepad/controller"
)

// gather returns every metric of the named family keyed by its first label
// value ("" for unlabeled series).
func gather(t *testing.T, m *Metrics, name string) map[string]*dto.Metric {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	out := make(map[string]*dto.Metric)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, metric := range f.GetMetric() {
			key := ""
			if labels := metric.GetLabel(); len(labels) > 0 {
				key = labels[0].GetValue()
			}
			out[key] = metric
		}
	}
	return out
}

func TestSwitchPressed(t *testing.T) {
	m := New("")
	m.SwitchPressed(0)
	m.SwitchPressed(0)
	m.SwitchPressed(4)

	got := gather(t, m, "movepad_presses_total")
	require.Len(t, got, 2)
	assert.Equal(t, 2.0, got["0"].GetCounter().GetValue())
	assert.Equal(t, 1.0, got["4"].GetCounter().GetValue())
}

func TestActionDone(t *testing.T) {
	m := New("")
	m.ActionDone(controller.ActionProjectile, 140*time.Millisecond)
	m.ActionDone(controller.ActionToggleFacing, 0)

	actions := gather(t, m, "movepad_actions_total")
	assert.Equal(t, 1.0, actions["projectile"].GetCounter().GetValue())
	assert.Equal(t, 1.0, actions["toggle-facing"].GetCounter().GetValue())

	durations := gather(t, m, "movepad_script_duration_seconds")
	require.Contains(t, durations, "projectile")
	assert.NotContains(t, durations, "toggle-facing")
	h := durations["projectile"].GetHistogram()
	assert.Equal(t, uint64(1), h.GetSampleCount())
	assert.InDelta(t, 0.14, h.GetSampleSum(), 1e-9)
}

func TestReportCounters(t *testing.T) {
	m := New("")
	m.ReportSent()
	m.ReportSent()
	m.ReportDropped()
	m.ReportFailed(errors.New("write failed"))

	tests := []struct {
		name string
		want float64
	}{
		{"movepad_reports_sent_total", 2},
		{"movepad_reports_dropped_total", 1},
		{"movepad_report_errors_total", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := gather(t, m, tt.name)
			require.Contains(t, got, "")
			assert.Equal(t, tt.want, got[""].GetCounter().GetValue())
		})
	}
}

func TestFlushWritesTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movepad.prom")
	m := New(path)
	m.SwitchPressed(1)
	m.ActionDone(controller.ActionAntiAir, 110*time.Millisecond)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `movepad_presses_total{switch="1"} 1`)
	assert.Contains(t, text, `movepad_actions_total{action="anti-air"} 1`)
	assert.Contains(t, text, "movepad_script_duration_seconds_count{action=\"anti-air\"} 1")
}

func TestFlushWithoutTextfile(t *testing.T) {
	assert.NoError(t, New("").Flush())
}

func TestFlushBadPath(t *testing.T) {
	m := New(filepath.Join(t.TempDir(), "missing", "movepad.prom"))
	assert.Error(t, m.Flush())
}
