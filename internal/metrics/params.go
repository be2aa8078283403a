// # internal/metrics/params.go
package metrics

import "github.com/bitblends/scalametrics-sub000/internal/lang"

// AnalyzeParams summarizes a declaration's parameter clauses: totals per
// category plus evidence-clause accounting.
func AnalyzeParams(lists []lang.ParamList) ParamCounts {
	var counts ParamCounts
	counts.Lists = len(lists)

	for _, list := range lists {
		if list.Evidence {
			counts.EvidenceLists++
			counts.EvidenceParams += len(list.Params)
		}
		for _, p := range list.Params {
			counts.Total++
			if p.HasDefault {
				counts.Defaulted++
			}
			if p.ByName {
				counts.ByName++
			}
			if p.Vararg {
				counts.Vararg++
			}
			if p.Inline {
				counts.InlineParams++
			}
		}
	}
	return counts
}
