package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trendSnapshot(ts time.Time, decls int, avgComplexity, docPct float64, flagged int) Snapshot {
	return Snapshot{
		ProjectKey:        "proj",
		RunID:             ts.Format("150405"),
		SchemaVersion:     SchemaVersion,
		Timestamp:         ts,
		FileCount:         decls / 2,
		DeclarationCount:  decls,
		LOC:               decls * 10,
		AvgComplexity:     avgComplexity,
		DocCoveragePct:    docPct,
		FlaggedComplexity: flagged,
	}
}

func TestBuildTrendReportEmpty(t *testing.T) {
	_, err := BuildTrendReport(nil, time.Hour)
	require.Error(t, err)
}

func TestBuildTrendReportDeltas(t *testing.T) {
	base := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	snaps := []Snapshot{
		trendSnapshot(base, 100, 2.0, 50.0, 4),
		trendSnapshot(base.Add(time.Hour), 110, 2.5, 55.0, 6),
		trendSnapshot(base.Add(2*time.Hour), 99, 2.4, 54.0, 5),
	}

	report, err := BuildTrendReport(snaps, 0)
	require.NoError(t, err)

	assert.Equal(t, 3, report.ScanCount)
	assert.Equal(t, base, report.Since)
	assert.Equal(t, base.Add(2*time.Hour), report.Until)
	require.Len(t, report.Points, 3)

	first := report.Points[0]
	assert.Equal(t, 0, first.DeltaDeclarations)
	assert.Equal(t, 0.0, first.DeclGrowthPct)

	second := report.Points[1]
	assert.Equal(t, 10, second.DeltaDeclarations)
	assert.Equal(t, 100, second.DeltaLOC)
	assert.InDelta(t, 0.5, second.DeltaAvgComplexity, 1e-9)
	assert.InDelta(t, 5.0, second.DeltaDocCoverage, 1e-9)
	assert.InDelta(t, 10.0, second.DeclGrowthPct, 1e-9)

	third := report.Points[2]
	assert.Equal(t, -11, third.DeltaDeclarations)
	assert.InDelta(t, -10.0, third.DeclGrowthPct, 1e-9)
}

func TestBuildTrendReportMovingAverages(t *testing.T) {
	base := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	snaps := []Snapshot{
		trendSnapshot(base, 100, 2.0, 40.0, 2),
		trendSnapshot(base.Add(time.Hour), 100, 2.0, 50.0, 4),
		trendSnapshot(base.Add(5*time.Hour), 100, 2.0, 60.0, 6),
	}

	report, err := BuildTrendReport(snaps, 2*time.Hour)
	require.NoError(t, err)

	// second point averages both snapshots inside the 2h window
	assert.InDelta(t, 3.0, report.Points[1].AvgFlagged, 1e-9)
	assert.InDelta(t, 45.0, report.Points[1].AvgDocPct, 1e-9)

	// third point is 4h after the second, outside the window
	assert.InDelta(t, 6.0, report.Points[2].AvgFlagged, 1e-9)
	assert.InDelta(t, 60.0, report.Points[2].AvgDocPct, 1e-9)
	assert.InDelta(t, 2.0, report.Points[2].WindowHours, 1e-9)
}

func TestBuildTrendReportZeroWindowUsesPointValues(t *testing.T) {
	base := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	snaps := []Snapshot{
		trendSnapshot(base, 100, 2.0, 40.0, 2),
		trendSnapshot(base.Add(time.Minute), 100, 2.0, 80.0, 8),
	}

	report, err := BuildTrendReport(snaps, 0)
	require.NoError(t, err)
	assert.InDelta(t, 8.0, report.Points[1].AvgFlagged, 1e-9)
	assert.InDelta(t, 80.0, report.Points[1].AvgDocPct, 1e-9)
}
