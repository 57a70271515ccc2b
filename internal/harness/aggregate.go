package harness

import (
	"fmt"
)

// Aggregate groups raw samples by (function, parameter signature) in
// first-seen order, computes summary statistics per group and joins in the
// per-function configuration, the per-function tags and the run metadata.
// Both per-function joins are many-to-one; a function identity missing from
// either side is data corruption and fails with ErrJoinIntegrity. Run
// metadata is broadcast onto every row.
func Aggregate(samples []RawSample, configs map[string]EffectiveConfig, tags map[string]map[string]any, meta map[string]any) (*Table, error) {
	if len(samples) == 0 {
		return nil, ErrNoBenchmarks
	}

	type groupKey struct {
		function string
		sig      string
		declared bool
	}
	groups := make(map[groupKey][]float64)
	var order []groupKey
	params := make(map[groupKey]*string)

	for _, s := range samples {
		key := groupKey{function: s.Function}
		if s.Parameters != nil {
			key.sig = *s.Parameters
			key.declared = true
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
			params[key] = s.Parameters
		}
		groups[key] = append(groups[key], s.Seconds)
	}

	records := make([]Record, 0, len(order))
	for _, key := range order {
		cfg, ok := configs[key.function]
		if !ok {
			return nil, fmt.Errorf("%w: no configuration recorded for function %q", ErrJoinIntegrity, key.function)
		}
		fnTags, ok := tags[key.function]
		if !ok {
			return nil, fmt.Errorf("%w: no tags recorded for function %q", ErrJoinIntegrity, key.function)
		}

		rec := summarize(groups[key])
		rec.Function = key.function
		rec.Parameters = params[key]
		rec.EffectiveConfig = cfg
		if len(fnTags) > 0 {
			rec.Tags = fnTags
		}
		rec.Meta = meta
		records = append(records, rec)
	}

	return &Table{Records: records}, nil
}
