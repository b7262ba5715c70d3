package refcollect_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Daltonhensley19/refcollect"
)

func TestBasicMetricsCollector(t *testing.T) {
	mc := &refcollect.BasicMetricsCollector{}
	a := newArena(t, refcollect.WithMetricsCollector(mc))

	root, _ := buildChain(t, a, 3)
	require.NoError(t, a.MarkUnreachable(root, 1))
	require.Error(t, a.MarkUnreachable(root, 9))

	_, err := a.Sweep()
	require.NoError(t, err)
	_, err = a.Sweep()
	require.NoError(t, err)

	stats := mc.GetStats()
	assert.Equal(t, int64(3), stats.AllocCount)
	assert.Zero(t, stats.AllocErrors)
	assert.Equal(t, int64(2), stats.MarkCount)
	assert.Equal(t, int64(1), stats.MarkErrors)
	assert.Equal(t, int64(2), stats.SweepCount)
	assert.Zero(t, stats.SweepErrors)
	assert.Equal(t, int64(2), stats.SweepReclaimed)
	assert.GreaterOrEqual(t, stats.SweepAvgNanos, int64(0))
}

func TestBasicMetricsCollector_AllocErrors(t *testing.T) {
	mc := &refcollect.BasicMetricsCollector{}
	a := newArena(t,
		refcollect.WithMetricsCollector(mc),
		refcollect.WithMemoryLimit(refcollect.ObjectSize),
	)

	_, err := a.AddRoots(2)
	require.ErrorIs(t, err, refcollect.ErrOutOfMemory)

	stats := mc.GetStats()
	assert.Equal(t, int64(2), stats.AllocCount)
	assert.Equal(t, int64(1), stats.AllocErrors)
}

func logRecords(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var records []map[string]any
	dec := json.NewDecoder(buf)
	for dec.More() {
		var rec map[string]any
		require.NoError(t, dec.Decode(&rec))
		records = append(records, rec)
	}
	return records
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := refcollect.NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	a, err := refcollect.New(refcollect.WithLogger(logger), refcollect.WithInitialRoots(1))
	require.NoError(t, err)

	require.ErrorIs(t, a.MarkUnreachable(3, 0), refcollect.ErrInvalidRoot)
	require.NoError(t, a.MarkUnreachable(0, 0))
	_, err = a.Sweep()
	require.NoError(t, err)
	require.NoError(t, a.Close())

	records := logRecords(t, &buf)
	require.Len(t, records, 3)

	assert.Equal(t, "WARN", records[0]["level"])
	assert.Equal(t, "operation rejected", records[0]["msg"])
	assert.Equal(t, "mark", records[0]["op"])

	assert.Equal(t, "sweep completed", records[1]["msg"])
	assert.EqualValues(t, 1, records[1]["reclaimed"])
	assert.EqualValues(t, 1, records[1]["roots_emptied"])

	assert.Equal(t, "teardown completed", records[2]["msg"])
	assert.EqualValues(t, 0, records[2]["reclaimed"])
}

func TestLogger_Leak(t *testing.T) {
	var buf bytes.Buffer
	logger := refcollect.NewLogger(slog.NewJSONHandler(&buf, nil))

	a, err := refcollect.New(refcollect.WithLogger(logger), refcollect.WithInitialRoots(2), refcollect.WithLeak())
	require.NoError(t, err)
	require.NoError(t, a.Close())

	records := logRecords(t, &buf)
	require.Len(t, records, 1)
	assert.Equal(t, "teardown skipped, arena leaked", records[0]["msg"])
	assert.EqualValues(t, 2, records[0]["abandoned"])
}

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := refcollect.NewLogger(slog.NewJSONHandler(&buf, nil)).WithRoot(4).WithCount(2)
	logger.Info("hello")

	records := logRecords(t, &buf)
	require.Len(t, records, 1)
	assert.EqualValues(t, 4, records[0]["root"])
	assert.EqualValues(t, 2, records[0]["count"])
}

func TestWithLogger_Nil(t *testing.T) {
	a, err := refcollect.New(refcollect.WithLogger(nil), refcollect.WithMetricsCollector(nil))
	require.NoError(t, err)
	assert.NoError(t, a.Close())
}
