package history

import (
	"fmt"
	"math"
	"time"
)

type TrendPoint struct {
	Timestamp         time.Time
	RunID             string
	FileCount         int
	DeclarationCount  int
	LOC               int
	MaxComplexity     int
	AvgComplexity     float64
	MaxNesting        int
	DocCoveragePct    float64
	ExplicitReturnPct float64
	FlaggedComplexity int

	DeltaFiles         int
	DeltaDeclarations  int
	DeltaLOC           int
	DeltaAvgComplexity float64
	DeltaDocCoverage   float64
	DeclGrowthPct      float64

	AvgFlagged  float64
	AvgDocPct   float64
	WindowHours float64
}

type TrendReport struct {
	SchemaVersion int
	Since         time.Time
	Until         time.Time
	Window        string
	ScanCount     int
	Points        []TrendPoint
}

// BuildTrendReport turns a chronological snapshot series into per-scan
// deltas plus moving averages over the given window.
func BuildTrendReport(snapshots []Snapshot, window time.Duration) (TrendReport, error) {
	if len(snapshots) == 0 {
		return TrendReport{}, fmt.Errorf("no snapshots available")
	}

	points := make([]TrendPoint, 0, len(snapshots))
	for i, current := range snapshots {
		point := TrendPoint{
			Timestamp:         current.Timestamp,
			RunID:             current.RunID,
			FileCount:         current.FileCount,
			DeclarationCount:  current.DeclarationCount,
			LOC:               current.LOC,
			MaxComplexity:     current.MaxComplexity,
			AvgComplexity:     current.AvgComplexity,
			MaxNesting:        current.MaxNesting,
			DocCoveragePct:    current.DocCoveragePct,
			ExplicitReturnPct: current.ExplicitReturnPct,
			FlaggedComplexity: current.FlaggedComplexity,
		}

		if i > 0 {
			prev := snapshots[i-1]
			point.DeltaFiles = current.FileCount - prev.FileCount
			point.DeltaDeclarations = current.DeclarationCount - prev.DeclarationCount
			point.DeltaLOC = current.LOC - prev.LOC
			point.DeltaAvgComplexity = current.AvgComplexity - prev.AvgComplexity
			point.DeltaDocCoverage = current.DocCoveragePct - prev.DocCoveragePct
			if prev.DeclarationCount > 0 {
				point.DeclGrowthPct = (float64(point.DeltaDeclarations) / float64(prev.DeclarationCount)) * 100
			}
		}

		avgFlagged, avgDoc := movingAverages(snapshots, i, window)
		point.AvgFlagged = round2(avgFlagged)
		point.AvgDocPct = round2(avgDoc)
		point.WindowHours = round2(window.Hours())
		points = append(points, point)
	}

	return TrendReport{
		SchemaVersion: SchemaVersion,
		Since:         snapshots[0].Timestamp,
		Until:         snapshots[len(snapshots)-1].Timestamp,
		Window:        window.String(),
		ScanCount:     len(points),
		Points:        points,
	}, nil
}

func movingAverages(snapshots []Snapshot, index int, window time.Duration) (float64, float64) {
	if window <= 0 {
		return float64(snapshots[index].FlaggedComplexity), snapshots[index].DocCoveragePct
	}

	cutoff := snapshots[index].Timestamp.Add(-window)
	var flaggedTotal int
	var docTotal float64
	count := 0
	for i := index; i >= 0; i-- {
		if snapshots[i].Timestamp.Before(cutoff) {
			break
		}
		flaggedTotal += snapshots[i].FlaggedComplexity
		docTotal += snapshots[i].DocCoveragePct
		count++
	}
	if count == 0 {
		return 0, 0
	}
	return float64(flaggedTotal) / float64(count), docTotal / float64(count)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
