package metrics

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/manikin/internal/conformance"
	"github.com/roach88/manikin/internal/core"
	"github.com/roach88/manikin/internal/world"
)

var discard = world.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

// exercise sends one nested commit and one failure of each kind.
func exercise(t *testing.T, w core.World) core.World {
	t.Helper()
	a, b, c := conformance.CID(1), conformance.CID(2), conformance.CID(3)

	v, err := w.Send(a, conformance.SendSetMember{Member: 5, Other: b})
	require.NoError(t, err)
	v, err = v.Send(a, conformance.RequirePositive{Member: -1})
	require.Error(t, err)
	v, err = v.Send(b, conformance.FailPost{})
	require.Error(t, err)
	v, err = v.Send(c, conformance.FailEffect{})
	require.Error(t, err)
	return v.World
}

func TestObserver_CountsOutcomes(t *testing.T) {
	o := NewObserver()
	exercise(t, world.NewMutable(discard, world.WithObserver(o)))

	assert.Equal(t, 1.0, testutil.ToFloat64(o.dispatches.WithLabelValues("SetMember", "committed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.dispatches.WithLabelValues("SendSetMember", "committed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.dispatches.WithLabelValues("RequirePositive", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.dispatches.WithLabelValues("FailPost", "rolled_back")))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.dispatches.WithLabelValues("FailEffect", "rolled_back")))

	expected := `
# HELP manikin_world_contract_errors_total Failed dispatches by contract error kind.
# TYPE manikin_world_contract_errors_total counter
manikin_world_contract_errors_total{kind="HANDLER_FAULT"} 1
manikin_world_contract_errors_total{kind="POSTCONDITION_VIOLATION"} 1
manikin_world_contract_errors_total{kind="PRECONDITION_VIOLATION"} 1
`
	require.NoError(t, testutil.CollectAndCompare(o, strings.NewReader(expected), "manikin_world_contract_errors_total"))
}

func TestObserver_DepthHistogram(t *testing.T) {
	o := NewObserver()
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(o))

	exercise(t, world.NewSnapshot(discard, world.WithObserver(o)))

	families, err := reg.Gather()
	require.NoError(t, err)

	var depth *dto.Histogram
	for _, mf := range families {
		if mf.GetName() == "manikin_world_dispatch_depth" {
			require.Len(t, mf.GetMetric(), 1)
			depth = mf.GetMetric()[0].GetHistogram()
		}
	}
	require.NotNil(t, depth, "depth histogram not gathered")

	assert.Equal(t, uint64(5), depth.GetSampleCount())
	assert.Equal(t, 1.0, depth.GetSampleSum())
	require.NotEmpty(t, depth.GetBucket())
	assert.Equal(t, 0.0, depth.GetBucket()[0].GetUpperBound())
	assert.Equal(t, uint64(4), depth.GetBucket()[0].GetCumulativeCount())
}

func TestObserver_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(NewObserver()))
	assert.Error(t, reg.Register(NewObserver()))
}

func TestWorldCollector(t *testing.T) {
	w := exercise(t, world.NewSnapshot(discard))
	c := NewWorldCollector("snapshot", func() core.World { return w })

	expected := `
# HELP manikin_world_identifiers Identifiers holding committed state.
# TYPE manikin_world_identifiers gauge
manikin_world_identifiers{store="snapshot"} 2
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected)))

	empty := NewWorldCollector("mutable", func() core.World { return nil })
	assert.Equal(t, 0, testutil.CollectAndCount(empty))
}
