package plan

import (
	"encoding/json"
	"strings"

	cerrors "github.com/layercake-project/layercake/pkg/errors"
	"github.com/layercake-project/layercake/pkg/filter"
	"github.com/layercake-project/layercake/pkg/transform"
)

// legacyTransformNode is the v1 wire shape for a Transform node's
// config: a single transform rather than an ordered list.
type legacyTransformNode struct {
	TransformType   transform.Kind  `json:"transformType"`
	TransformConfig json.RawMessage `json:"transformConfig"`
}

type v2TransformNode struct {
	Transforms []transform.Spec `json:"transforms"`
}

// MigrateTransformSpecs accepts a Transform node's raw on-wire config in
// either the legacy v1 shape (a single transformType/transformConfig
// pair) or the current v2 shape (`transforms: [...]`), and normalizes
// to the v2 ordered list. Migrating from v1 appends an explicit
// AggregateEdges transform, preserving the legacy implicit-aggregation
// behavior (spec §9). Once normalized, only the v2 shape exists
// internally — this function is the entire migration boundary.
func MigrateTransformSpecs(raw json.RawMessage) ([]transform.Spec, error) {
	var probe struct {
		Transforms    json.RawMessage `json:"transforms"`
		TransformType json.RawMessage `json:"transformType"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, cerrors.Wrap(cerrors.KindValidation, cerrors.CodeInvalidTransformParam, "transform_node", err,
			"decode transform node config")
	}

	if probe.Transforms != nil {
		var v2 v2TransformNode
		if err := json.Unmarshal(raw, &v2); err != nil {
			return nil, cerrors.Wrap(cerrors.KindValidation, cerrors.CodeInvalidTransformParam, "transform_node", err,
				"decode v2 transform list")
		}
		return v2.Transforms, nil
	}

	if probe.TransformType != nil {
		var legacy legacyTransformNode
		if err := json.Unmarshal(raw, &legacy); err != nil {
			return nil, cerrors.Wrap(cerrors.KindValidation, cerrors.CodeInvalidTransformParam, "transform_node", err,
				"decode v1 transform config")
		}
		spec, err := migrateLegacySpec(legacy)
		if err != nil {
			return nil, err
		}
		return []transform.Spec{spec, {Kind: transform.KindAggregateEdges}}, nil
	}

	return nil, cerrors.New(cerrors.KindValidation, cerrors.CodeInvalidTransformParam, "transform_node",
		"transform node config has neither a v1 transformType nor a v2 transforms list")
}

// migrateLegacySpec reads a v1 transformConfig's numeric fields into the
// v2 Spec shape. v1 configs only ever used one numeric parameter at a
// time, so reading every field that happens to be present is safe: the
// fields Apply does not consult for this Kind are simply ignored.
func migrateLegacySpec(legacy legacyTransformNode) (transform.Spec, error) {
	spec := transform.Spec{Kind: legacy.TransformType}
	if len(legacy.TransformConfig) == 0 {
		return spec, nil
	}
	var fields map[string]int
	if err := json.Unmarshal(legacy.TransformConfig, &fields); err != nil {
		return transform.Spec{}, cerrors.Wrap(cerrors.KindValidation, cerrors.CodeInvalidTransformParam, "transform_node", err,
			"decode v1 transformConfig")
	}
	spec.Depth = fields["depth"]
	spec.Width = fields["width"]
	spec.MaxLength = fields["max_length"]
	spec.WrapWidth = fields["wrap_width"]
	spec.Threshold = fields["threshold"]
	return spec, nil
}

// legacyFilterWire is the oldest on-wire Filter node shape: a list of
// named filters, where a query filter's config is nested three levels
// deep under params.query_config. Grounded on
// layercake-core/src/plan_dag/filter.rs's LegacyGraphFilter.
type legacyFilterWire struct {
	Filters []legacyGraphFilter `json:"filters"`
}

type legacyGraphFilter struct {
	Kind   string              `json:"kind"`
	Params *legacyFilterParams `json:"params"`
}

type legacyFilterParams struct {
	QueryConfig *filter.Config `json:"query_config"`
}

// legacyFilterQueryWire is the intermediate v1 shape: a single `query`
// field holding the filter config directly, without the wrapping array.
type legacyFilterQueryWire struct {
	Query *filter.Config `json:"query"`
}

// MigrateFilterConfig accepts a Filter node's raw on-wire config in any
// of the historical shapes — a `filters` array with a query kind nested
// under params.query_config, a bare `query` field, or the current v2
// flat filter.Config — and returns a normalized v2 [filter.Config].
// Normalization mirrors QueryFilterConfig::normalized() in the original
// source: an empty Targets defaults to [Nodes], an empty RuleGroup
// defaults to {combinator: And, rules: []}, and an empty
// FieldMetadataVersion defaults to "v1".
func MigrateFilterConfig(raw json.RawMessage) (filter.Config, error) {
	var queryWire legacyFilterQueryWire
	if err := json.Unmarshal(raw, &queryWire); err == nil && queryWire.Query != nil {
		return normalizeFilterConfig(*queryWire.Query), nil
	}

	var wire legacyFilterWire
	if err := json.Unmarshal(raw, &wire); err == nil {
		for _, f := range wire.Filters {
			if !isLegacyQueryFilter(f.Kind) {
				continue
			}
			if f.Params != nil && f.Params.QueryConfig != nil {
				return normalizeFilterConfig(*f.Params.QueryConfig), nil
			}
		}
	}

	var cfg filter.Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return filter.Config{}, cerrors.Wrap(cerrors.KindValidation, cerrors.CodeInvalidRuleGroup, "filter_node", err,
			"decode filter node config")
	}
	return normalizeFilterConfig(cfg), nil
}

func isLegacyQueryFilter(kind string) bool {
	return strings.EqualFold(kind, "query") || strings.EqualFold(kind, "queryText")
}

func normalizeFilterConfig(cfg filter.Config) filter.Config {
	if len(cfg.Targets) == 0 {
		cfg.Targets = []filter.Target{filter.TargetNodes}
	}
	if cfg.Mode == "" {
		cfg.Mode = filter.ModeInclude
	}
	if cfg.LinkPruning == "" {
		cfg.LinkPruning = filter.PruneAutoDropDangling
	}
	if cfg.RuleGroup.Combinator == "" && len(cfg.RuleGroup.Rules) == 0 {
		cfg.RuleGroup = filter.RuleGroup{Combinator: filter.CombinatorAnd, Rules: []filter.RuleNode{}}
	}
	if cfg.FieldMetadataVersion == "" {
		cfg.FieldMetadataVersion = "v1"
	}
	return cfg
}
