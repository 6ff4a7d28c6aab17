package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/blendbench/pkg/types"
)

// testTable builds a small two-blend record table for a branch.
func testTable(branch, setID string, runtime float64) *types.RecordTable {
	table := types.NewRecordTable(branch, setID)
	table.Append(
		types.Measurement{
			BlendID:   "blend1",
			BandDiff:  map[string]float64{"g": 0.5, "r": -0.5},
			RuntimeMS: runtime, Iterations: 10, InitLogL: -100, LogL: -40,
		},
		types.Measurement{
			BlendID: "blend1", SourceIndex: 1,
			BandDiff:  map[string]float64{"g": 1.5, "r": 0.25},
			RuntimeMS: runtime, Iterations: 10, InitLogL: -100, LogL: -40,
		},
		types.Measurement{
			BlendID:   "blend2",
			BandDiff:  map[string]float64{"g": -0.75, "r": 2},
			RuntimeMS: runtime, Iterations: 12, InitLogL: -90, LogL: -35,
		},
	)
	return table
}

func attachedStore(t *testing.T, dataDir string) *Store {
	t.Helper()
	s := New(dataDir)
	require.NoError(t, s.Attach())
	t.Cleanup(func() { s.Detach() })
	return s
}

func TestStoreLifecycle(t *testing.T) {
	s := New(t.TempDir())

	_, err := s.Branches()
	assert.ErrorIs(t, err, ErrDetached)

	_, err = s.MetricColumn("set1", "pr-101", types.MetricRuntime)
	assert.ErrorIs(t, err, ErrDetached)

	require.NoError(t, s.Attach())
	assert.ErrorIs(t, s.Attach(), ErrAlreadyAttached)

	require.NoError(t, s.Detach())
	assert.NoError(t, s.Detach()) // idempotent
}

func TestSaveTableDuplicateGuard(t *testing.T) {
	s := attachedStore(t, t.TempDir())

	require.NoError(t, s.SaveTable(testTable("pr-101", "set1", 10), false))

	// Re-saving without overwrite fails, naming the branch and set.
	err := s.SaveTable(testTable("pr-101", "set1", 20), false)
	require.ErrorIs(t, err, types.ErrBranchExists)
	assert.ErrorContains(t, err, "pr-101")
	assert.ErrorContains(t, err, "set1")

	// The stored data is untouched.
	col, err := s.MetricColumn("set1", "pr-101", types.MetricRuntime)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 10, 10}, col)
}

func TestSaveTableOverwriteReplacesData(t *testing.T) {
	s := attachedStore(t, t.TempDir())

	require.NoError(t, s.SaveTable(testTable("pr-101", "set1", 10), false))
	require.NoError(t, s.SaveTable(testTable("pr-101", "set1", 20), true))

	col, err := s.MetricColumn("set1", "pr-101", types.MetricRuntime)
	require.NoError(t, err)
	assert.Equal(t, []float64{20, 20, 20}, col)

	// Overwriting does not duplicate the branch in the merge order.
	branches, err := s.Branches()
	require.NoError(t, err)
	assert.Equal(t, []string{"pr-101"}, branches)
}

func TestLoadTableRoundTrip(t *testing.T) {
	s := attachedStore(t, t.TempDir())
	want := testTable("pr-101", "set1", 10)
	require.NoError(t, s.SaveTable(want, false))

	got, err := s.LoadTable("set1", "pr-101")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = s.LoadTable("set1", "pr-404")
	assert.ErrorIs(t, err, types.ErrBranchUnknown)
}

func TestBranchesKeepMergeOrder(t *testing.T) {
	s := attachedStore(t, t.TempDir())

	for _, branch := range []string{"pr-99", "pr-100", "pr-101"} {
		require.NoError(t, s.SaveTable(testTable(branch, "set1", 10), false))
	}

	branches, err := s.Branches()
	require.NoError(t, err)
	assert.Equal(t, []string{"pr-99", "pr-100", "pr-101"}, branches)
}

func TestIndexRebuiltOnAttach(t *testing.T) {
	dataDir := t.TempDir()

	s := New(dataDir)
	require.NoError(t, s.Attach())
	require.NoError(t, s.SaveTable(testTable("pr-101", "set1", 10), false))
	require.NoError(t, s.Detach())

	// A fresh store over the same directory rebuilds the index from the
	// JSONL source of truth.
	s2 := attachedStore(t, dataDir)
	col, err := s2.MetricColumn("set1", "pr-101", types.DiffMetricName("g"))
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 1.5, -0.75}, col)

	n, err := s2.RowCount("set1", "pr-101")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestMetricColumnErrors(t *testing.T) {
	s := attachedStore(t, t.TempDir())
	require.NoError(t, s.SaveTable(testTable("pr-101", "set1", 10), false))

	_, err := s.MetricColumn("set1", "pr-404", types.MetricRuntime)
	assert.ErrorIs(t, err, types.ErrBranchUnknown)

	_, err = s.MetricColumn("set1", "pr-101", "z diff")
	assert.ErrorIs(t, err, types.ErrUnknownMetric)
}

func TestSaveTableValidation(t *testing.T) {
	s := attachedStore(t, t.TempDir())

	assert.ErrorIs(t, s.SaveTable(types.NewRecordTable("", "set1"), false), types.ErrEmptyBranch)
	assert.ErrorIs(t, s.SaveTable(types.NewRecordTable("pr-101", ""), false), types.ErrEmptySetID)
}

func TestRunLog(t *testing.T) {
	s := attachedStore(t, t.TempDir())

	runs, err := s.Runs()
	require.NoError(t, err)
	assert.Empty(t, runs)

	started := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveRun(&types.Run{RunID: "r1", Branch: "pr-100", SetID: "set1", StartedAt: started, SceneCount: 3, RowCount: 6, Saved: true}))
	require.NoError(t, s.SaveRun(&types.Run{RunID: "r2", Branch: "pr-101", SetID: "set1", StartedAt: started.Add(time.Hour)}))

	runs, err = s.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "r1", runs[0].RunID)
	assert.True(t, runs[0].Saved)
	assert.Equal(t, "r2", runs[1].RunID)
	assert.True(t, runs[1].StartedAt.Equal(started.Add(time.Hour)))
}

func TestSetIDs(t *testing.T) {
	s := attachedStore(t, t.TempDir())
	require.NoError(t, s.SaveTable(testTable("pr-101", "set2", 10), false))
	require.NoError(t, s.SaveTable(testTable("pr-102", "set1", 10), true))

	ids, err := s.SetIDs()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"set1", "set2"}, ids)
}
