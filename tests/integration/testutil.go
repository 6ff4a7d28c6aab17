// Package integration provides CLI integration tests for blendbench.
package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/mesh-intelligence/blendbench/pkg/scene"
)

var (
	// benchBin is the path to the built blendbench binary.
	benchBin string
	// buildErr captures any build error.
	buildErr error
)

// BuildError wraps a build error with output.
type BuildError struct {
	Err    error
	Output string
}

func (e *BuildError) Error() string {
	return e.Err.Error() + ": " + e.Output
}

// FindProjectRoot finds the project root by walking up and looking for go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// SetBenchBin sets the path to the blendbench binary (called from TestMain).
func SetBenchBin(path string) {
	benchBin = path
}

// SetBuildErr sets the build error (called from TestMain).
func SetBuildErr(err error) {
	buildErr = err
}

// TestEnv provides an isolated test environment with its own config, data,
// and blend directories.
type TestEnv struct {
	t         *testing.T
	TempDir   string
	ConfigDir string
	DataDir   string
	BlendDir  string
}

// NewTestEnv creates a new isolated test environment. The config.yaml it
// writes narrows the band list to g and r so scene fixtures stay small.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	if buildErr != nil {
		t.Fatalf("failed to build blendbench: %v", buildErr)
	}
	if benchBin == "" {
		t.Fatal("blendbench binary not built (benchBin is empty)")
	}

	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, "config")
	dataDir := filepath.Join(tempDir, "data")
	blendDir := filepath.Join(tempDir, "blends")

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	configContent := "data_dir: " + dataDir + "\nblend_dir: " + blendDir + "\nbands: [g, r]\n"
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	return &TestEnv{
		t:         t,
		TempDir:   tempDir,
		ConfigDir: configDir,
		DataDir:   dataDir,
		BlendDir:  blendDir,
	}
}

// CmdResult holds the result of a blendbench command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunBench executes the blendbench CLI with the given arguments.
func (e *TestEnv) RunBench(args ...string) CmdResult {
	e.t.Helper()

	allArgs := append([]string{"--config-dir", e.ConfigDir}, args...)
	cmd := exec.Command(benchBin, allArgs...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			e.t.Fatalf("failed to run blendbench: %v", err)
		}
	}

	return CmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// MustRunBench executes the blendbench CLI and fails the test if it
// returns non-zero.
func (e *TestEnv) MustRunBench(args ...string) CmdResult {
	e.t.Helper()
	result := e.RunBench(args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("blendbench %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}

// WriteBlendSet writes n synthetic single-source blend scenes into the
// set directory, each with a bright pixel at (3, 3) in bands g and r.
func (e *TestEnv) WriteBlendSet(setID string, n int) {
	e.t.Helper()

	setDir := filepath.Join(e.BlendDir, setID)
	if err := os.MkdirAll(setDir, 0o755); err != nil {
		e.t.Fatalf("failed to create set dir: %v", err)
	}

	for i := 0; i < n; i++ {
		blendID := "blend" + string(rune('a'+i))
		s := fixtureScene(blendID)
		if err := scene.Save(filepath.Join(setDir, scene.Filename(blendID)), s); err != nil {
			e.t.Fatalf("failed to write scene %s: %v", blendID, err)
		}
	}
}

// fixtureScene builds an 8x8 two-band scene with one source: a bright
// pixel at (3, 3) over a flat background, unit variance everywhere.
func fixtureScene(blendID string) *scene.Scene {
	const size = 8

	plane := func(peak float64) scene.Image {
		data := make([][]float64, size)
		for y := range data {
			data[y] = make([]float64, size)
		}
		data[3][3] = peak
		return scene.Image{Data: data}
	}
	variance := func() scene.Image {
		data := make([][]float64, size)
		for y := range data {
			data[y] = make([]float64, size)
			for x := range data[y] {
				data[y][x] = 1.0
			}
		}
		return scene.Image{Data: data}
	}

	return &scene.Scene{
		BlendID: blendID,
		Bands:   []string{"g", "r"},
		Images: map[string]scene.Image{
			"g": plane(100),
			"r": plane(150),
		},
		Variance: map[string]scene.Image{
			"g": variance(),
			"r": variance(),
		},
		Centers: []scene.Center{{Y: 3, X: 3}},
		Matched: []scene.CatalogEntry{
			{Y: 3.2, X: 3.4, TrueMag: map[string]float64{"g": 21.5, "r": 21.0}},
		},
	}
}

// ParseJSON parses JSON output into the target type.
func ParseJSON[T any](t *testing.T, jsonStr string) T {
	t.Helper()
	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		t.Fatalf("failed to parse JSON %q: %v", jsonStr, err)
	}
	return result
}

// Run mirrors the run record emitted by `run --json` and stored in the
// run log.
type Run struct {
	RunID      string  `json:"run_id"`
	Branch     string  `json:"branch"`
	SetID      string  `json:"set_id"`
	Duration   float64 `json:"duration_ms"`
	SceneCount int     `json:"scene_count"`
	RowCount   int     `json:"row_count"`
	Saved      bool    `json:"saved"`
}

// Summary mirrors one branch summary emitted by `summary --json`.
type Summary struct {
	Branch      string  `json:"branch"`
	Count       int     `json:"count"`
	Mean        float64 `json:"mean"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Q1          float64 `json:"q1"`
	Median      float64 `json:"median"`
	Q3          float64 `json:"q3"`
	WhiskerLow  float64 `json:"whisker_low"`
	WhiskerHigh float64 `json:"whisker_high"`
}

// PlotData mirrors the document emitted by `plotdata`.
type PlotData struct {
	SetID    string `json:"set_id"`
	Metric   string `json:"metric"`
	Units    string `json:"units"`
	LogScale bool   `json:"log_scale"`
	Scatter  []struct {
		Branch  string    `json:"branch"`
		Samples []float64 `json:"samples"`
	} `json:"scatter"`
	Summaries []Summary `json:"summaries"`
}
