package rangedetect

import "sort"

// ApplyNesting attaches children to parent whose bounds lie fully within
// parent's [Low, High] and whose timeframe is strictly finer (spec §4.2:
// an H1 range may contain an M15 range may contain an M5 range). Children
// are sorted coarsest-to-finest timeframe. Children that do not nest are
// dropped silently — they belong to a different structural leg.
func ApplyNesting(parent *RangeStructure, children []*RangeStructure) {
	if parent == nil {
		return
	}
	var nested []*RangeStructure
	for _, c := range children {
		if c == nil || c == parent {
			continue
		}
		if !c.Timeframe.Less(parent.Timeframe) {
			continue // child must be a strictly finer timeframe
		}
		if c.High <= parent.High && c.Low >= parent.Low {
			nested = append(nested, c)
		}
	}
	sort.Slice(nested, func(i, j int) bool {
		return nested[j].Timeframe.Less(nested[i].Timeframe)
	})
	parent.Nested = nested
}

// DeepestNested returns the finest-timeframe range in r's nesting chain,
// following the last (finest) entry of the coarsest-to-finest Nested slice
// recursively, or r itself if it has no nested children.
func DeepestNested(r *RangeStructure) *RangeStructure {
	if r == nil || len(r.Nested) == 0 {
		return r
	}
	return DeepestNested(r.Nested[len(r.Nested)-1])
}
