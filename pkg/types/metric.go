package types

import "strings"

// diffSuffix is appended to a band name to form its flux-difference metric
// name, e.g. "g diff".
const diffSuffix = " diff"

// Metric describes one named scalar tracked per revision.
type Metric struct {
	Name  string // metric name, also the record-table column name
	Units string // display units for plot axes
	Abs   bool   // values are error magnitudes; summarize |v|
}

// DiffMetricName returns the flux-difference metric name for a band.
func DiffMetricName(band string) string {
	return band + diffSuffix
}

// BandFromDiffMetric extracts the band name from a "<band> diff" metric
// name. The second return is false if the name is not a diff metric.
func BandFromDiffMetric(metric string) (string, bool) {
	band, ok := strings.CutSuffix(metric, diffSuffix)
	if !ok || band == "" || strings.ContainsRune(band, ' ') {
		return "", false
	}
	return band, true
}

// Metrics returns the full metric registry for the given band list, in
// display order: timing and solver metrics first, then one flux-difference
// metric per band.
func Metrics(bands []string) []Metric {
	metrics := []Metric{
		{Name: MetricInitTime, Units: "time (ms)"},
		{Name: MetricRuntime, Units: "time/source (ms)"},
		{Name: MetricIterations, Units: "iterations"},
		{Name: MetricInitLogL, Units: "logL", Abs: true},
		{Name: MetricLogL, Units: "logL", Abs: true},
	}
	for _, band := range bands {
		metrics = append(metrics, Metric{
			Name:  DiffMetricName(band),
			Units: "truth-model",
			Abs:   true,
		})
	}
	return metrics
}

// MetricByName looks up a metric definition for the given band list.
// The second return is false when the name is not in the registry.
func MetricByName(bands []string, name string) (Metric, bool) {
	for _, m := range Metrics(bands) {
		if m.Name == name {
			return m, true
		}
	}
	return Metric{}, false
}
