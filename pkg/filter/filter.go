package filter

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	cerrors "github.com/layercake-project/layercake/pkg/errors"
)

// Target names one of the three entity collections a filter can select
// over.
type Target string

// Supported targets.
const (
	TargetNodes  Target = "nodes"
	TargetEdges  Target = "edges"
	TargetLayers Target = "layers"
)

// Mode decides whether matched entities survive or are dropped.
type Mode string

// Supported modes.
const (
	ModeInclude Mode = "include"
	ModeExclude Mode = "exclude"
)

// LinkPruning decides the fate of edges (and, for DropOrphanNodes,
// non-partition nodes) once a filter has dropped entities.
type LinkPruning string

// Supported link-pruning policies.
const (
	PruneAutoDropDangling LinkPruning = "auto_drop_dangling"
	PruneRetainEdges      LinkPruning = "retain_edges"
	PruneDropOrphanNodes  LinkPruning = "drop_orphan_nodes"
)

// Combinator joins sibling rules/groups within a [RuleGroup].
type Combinator string

// Supported combinators.
const (
	CombinatorAnd Combinator = "and"
	CombinatorOr  Combinator = "or"
)

// Operator is a leaf rule's comparison. Numeric-only operators are
// `<`,`<=`,`>`,`>=`,`between`; text-only are `contains`, `beginsWith`,
// `endsWith`. `=`, `!=`, and `in` apply to any coerced type.
type Operator string

// Supported operators.
const (
	OpEqual      Operator = "="
	OpNotEqual   Operator = "!="
	OpLess       Operator = "<"
	OpLessEq     Operator = "<="
	OpGreater    Operator = ">"
	OpGreaterEq  Operator = ">="
	OpBetween    Operator = "between"
	OpIn         Operator = "in"
	OpContains   Operator = "contains"
	OpBeginsWith Operator = "beginsWith"
	OpEndsWith   Operator = "endsWith"
)

// Rule is a single leaf predicate: `field operator value`. Field must
// begin with one of the target prefixes "node.", "edge.", "layer.", or an
// attribute-path prefix "attrs." (nodes/edges) / "properties." (layers).
type Rule struct {
	Field    string `json:"field"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value"`
}

// RuleGroup is an internal node of the rule tree: a combinator over a
// mixed list of leaf [Rule]s and nested RuleGroups.
type RuleGroup struct {
	Combinator Combinator `json:"combinator"`
	Not        bool       `json:"not,omitempty"`
	Rules      []RuleNode `json:"rules"`
}

// RuleNode is exactly one of Rule or Group, mirroring the tagged-union
// shape of the on-wire rule tree (`Rule | RuleGroup`).
type RuleNode struct {
	Rule  *Rule
	Group *RuleGroup
}

// MarshalJSON emits the wrapped Rule or Group directly, with no envelope,
// matching the on-wire shape.
func (n RuleNode) MarshalJSON() ([]byte, error) {
	if n.Group != nil {
		return json.Marshal(n.Group)
	}
	return json.Marshal(n.Rule)
}

// UnmarshalJSON distinguishes a leaf Rule from a nested RuleGroup by the
// presence of a "combinator" key.
func (n *RuleNode) UnmarshalJSON(data []byte) error {
	var probe struct {
		Combinator *Combinator `json:"combinator"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.Combinator != nil {
		var g RuleGroup
		if err := json.Unmarshal(data, &g); err != nil {
			return err
		}
		n.Group = &g
		return nil
	}
	var r Rule
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	n.Rule = &r
	return nil
}

// Config is the full configuration of a Filter node, per spec §4.3.
type Config struct {
	Targets             []Target    `json:"targets"`
	Mode                Mode        `json:"mode"`
	LinkPruning         LinkPruning `json:"link_pruning"`
	RuleGroup           RuleGroup   `json:"rule_group"`
	FieldMetadataVersion string     `json:"field_metadata_version"`
}

// pathSegmentRe sanitizes a JSON-path segment to the allow-list from
// spec §4.3: "path segments are sanitized to [A-Za-z0-9_]+ and
// dot-joined."
var pathSegmentRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Compiled is the result of [Compile]: a validated rule tree ready for
// [EvaluateNodes], [EvaluateEdges], [EvaluateLayers], or a Graph
// Repository's parameterized query translation.
type Compiled struct {
	Config Config
}

// Compile validates cfg's rule tree: every leaf field must carry a
// recognized prefix, and any attrs./properties. path must sanitize
// cleanly. It does not evaluate anything; that is [EvaluateNodes] /
// [EvaluateEdges] / [EvaluateLayers]'s job. A malformed rule group fails
// with a Validation/InvalidRuleGroup error naming the offending path, per
// §4.3's failure semantics.
func Compile(cfg Config) (*Compiled, error) {
	if len(cfg.Targets) == 0 {
		return nil, cerrors.New(cerrors.KindValidation, cerrors.CodeInvalidRuleGroup, "targets",
			"filter config must name at least one target")
	}
	if cfg.Mode != ModeInclude && cfg.Mode != ModeExclude {
		return nil, cerrors.New(cerrors.KindValidation, cerrors.CodeInvalidRuleGroup, "mode",
			"unknown filter mode %q", cfg.Mode)
	}
	if err := validateGroup(cfg.RuleGroup, "rule_group"); err != nil {
		return nil, err
	}
	return &Compiled{Config: cfg}, nil
}

func validateGroup(rg RuleGroup, path string) error {
	if rg.Combinator != CombinatorAnd && rg.Combinator != CombinatorOr && rg.Combinator != "" {
		return cerrors.New(cerrors.KindValidation, cerrors.CodeInvalidRuleGroup, path,
			"unknown combinator %q", rg.Combinator)
	}
	for i, child := range rg.Rules {
		childPath := fmt.Sprintf("%s.rules[%d]", path, i)
		switch {
		case child.Rule != nil:
			if err := validateRule(*child.Rule, childPath); err != nil {
				return err
			}
		case child.Group != nil:
			if err := validateGroup(*child.Group, childPath); err != nil {
				return err
			}
		default:
			return cerrors.New(cerrors.KindValidation, cerrors.CodeInvalidRuleGroup, childPath,
				"rule node is neither a rule nor a group")
		}
	}
	return nil
}

func validateRule(r Rule, path string) error {
	if r.Field == "" {
		return cerrors.New(cerrors.KindValidation, cerrors.CodeInvalidRuleGroup, path, "rule field is empty")
	}
	prefix, rest, ok := splitField(r.Field)
	if !ok {
		return cerrors.New(cerrors.KindValidation, cerrors.CodeInvalidRuleGroup, path,
			"field %q has no recognized target prefix", r.Field)
	}
	if prefix == prefixAttrs || prefix == prefixProperties {
		for _, seg := range strings.Split(rest, ".") {
			if seg == "" || !pathSegmentRe.MatchString(seg) {
				return cerrors.New(cerrors.KindValidation, cerrors.CodeInvalidRuleGroup, path,
					"attribute path %q contains an invalid segment %q", rest, seg)
			}
		}
	}
	return nil
}

const (
	prefixNode       = "node."
	prefixEdge       = "edge."
	prefixLayer      = "layer."
	prefixAttrs      = "attrs."
	prefixProperties = "properties."
)

// splitField strips a recognized prefix from field and returns the
// prefix and the remainder.
func splitField(field string) (prefix, rest string, ok bool) {
	for _, p := range []string{prefixNode, prefixEdge, prefixLayer, prefixAttrs, prefixProperties} {
		if strings.HasPrefix(field, p) {
			return p, strings.TrimPrefix(field, p), true
		}
	}
	return "", "", false
}
