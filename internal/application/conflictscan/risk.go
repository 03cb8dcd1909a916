package conflictscan

import (
	"github.com/hukumtek/LexIntel/internal/analysis/conflict"
	"github.com/hukumtek/LexIntel/pkg/types/common"
)

// severityWeight scales a conflict's contribution to the compatibility
// penalty.  High-severity contradictions dominate; low-severity overlaps
// barely move the score.
func severityWeight(s common.Severity) float64 {
	switch s {
	case common.SeverityHigh:
		return 1.0
	case common.SeverityMedium:
		return 0.6
	default:
		return 0.3
	}
}

// compatibilityScore derives a 0-1 score from a detection result.  1.0 means
// no conflicts; every flag subtracts its severity-weighted overlap relative
// to the number of clauses scanned.
func compatibilityScore(res *conflict.Result) float64 {
	if res.ClausesScanned == 0 || len(res.Conflicts) == 0 {
		return 1.0
	}

	penalty := 0.0
	for _, flag := range res.Conflicts {
		penalty += severityWeight(flag.Severity) * flag.OverlapScore
	}
	score := 1.0 - penalty/float64(res.ClausesScanned)
	if score < 0 {
		return 0
	}
	return score
}

// riskLevel bands a scan.  A contradiction with high severity on a poorly
// compatible version is critical; otherwise the worst severity seen decides.
func riskLevel(res *conflict.Result, compatibility float64) common.RiskLevel {
	var hasHigh, hasMedium, hardContradiction bool
	for _, flag := range res.Conflicts {
		switch flag.Severity {
		case common.SeverityHigh:
			hasHigh = true
			if flag.Type == common.ConflictContradiction {
				hardContradiction = true
			}
		case common.SeverityMedium:
			hasMedium = true
		}
	}

	switch {
	case hardContradiction && compatibility < 0.5:
		return common.RiskCritical
	case hasHigh:
		return common.RiskHigh
	case hasMedium:
		return common.RiskMedium
	default:
		return common.RiskLow
	}
}
