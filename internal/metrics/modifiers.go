// # internal/metrics/modifiers.go
package metrics

import "github.com/bitblends/scalametrics-sub000/internal/lang"

// AnalyzeModifiers maps a declaration's modifier set to a ModifierInfo and
// applies the implicit-conversion heuristic.
//
// The heuristic flags a declaration as a likely conversion when it carries
// an explicit given-conversion modifier, or when it is an evidence-provided
// def with exactly one non-evidence value parameter and a return type that
// is not Unit. This is a known-imperfect classification kept stable because
// downstream consumers depend on it.
func AnalyzeModifiers(d *lang.Declaration) ModifierInfo {
	info := ModifierInfo{
		Evidence:        d.Modifiers.Has(lang.ModEvidence),
		Inline:          d.Modifiers.Has(lang.ModInline),
		GivenInstance:   d.Modifiers.Has(lang.ModGivenInstance),
		GivenConversion: d.Modifiers.Has(lang.ModGivenConversion),
		Abstract:        d.Modifiers.Has(lang.ModAbstract),
	}

	if info.GivenConversion {
		info.LikelyConversion = true
		return info
	}
	if !info.Evidence || d.Kind != lang.DeclDef {
		return info
	}
	if countNonEvidenceParams(d.ParamLists) != 1 {
		return info
	}
	if d.ExplicitReturnType && d.ReturnTypeName == "Unit" {
		return info
	}
	info.LikelyConversion = true
	return info
}

func countNonEvidenceParams(lists []lang.ParamList) int {
	n := 0
	for _, list := range lists {
		if list.Evidence {
			continue
		}
		n += len(list.Params)
	}
	return n
}
