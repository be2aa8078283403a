// # internal/metrics/returntype.go
package metrics

import "github.com/bitblends/scalametrics-sub000/internal/lang"

// AnalyzeReturnType reports whether a declaration spells out its return
// type and, when it does not, falls back to best-effort inference over the
// body. The inference result is a heuristic signal, not a verified type.
func AnalyzeReturnType(d *lang.Declaration) ReturnTypeInfo {
	if d.ExplicitReturnType {
		return ReturnTypeInfo{Explicit: true, TypeName: d.ReturnTypeName}
	}
	return ReturnTypeInfo{InferredType: InferType(d.Body)}
}
