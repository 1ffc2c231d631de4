package filter

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/layercake-project/layercake/pkg/graph"
)

// fieldKind is the declared type of a column, used to coerce rule
// values and to reject operators that don't apply (e.g. `<` on text).
type fieldKind int

const (
	kindText fieldKind = iota
	kindNumber
	kindBool
	kindMissing
)

// fieldValue is a coerced column value ready for comparison.
type fieldValue struct {
	kind fieldKind
	text string
	num  float64
	b    bool
}

// Warning is a non-fatal evaluation note: an unknown or type-mismatched
// operator that was skipped rather than aborting the filter, per §4.3.
type Warning struct {
	Path    string
	Message string
}

func (w Warning) String() string { return fmt.Sprintf("%s: %s", w.Path, w.Message) }

// EvaluateNodes evaluates rg against nodes and returns the set of
// matching node ids, plus any non-fatal warnings.
func EvaluateNodes(nodes []graph.Node, rg RuleGroup) (map[string]bool, []Warning) {
	out := make(map[string]bool)
	var warnings []Warning
	for _, n := range nodes {
		ok, ws := matchGroup(rg, nodeAccessor(n), "rule_group")
		warnings = append(warnings, ws...)
		if ok {
			out[n.ID] = true
		}
	}
	return out, warnings
}

// EvaluateEdges evaluates rg against edges and returns the set of
// matching edge ids.
func EvaluateEdges(edges []graph.Edge, rg RuleGroup) (map[string]bool, []Warning) {
	out := make(map[string]bool)
	var warnings []Warning
	for _, e := range edges {
		ok, ws := matchGroup(rg, edgeAccessor(e), "rule_group")
		warnings = append(warnings, ws...)
		if ok {
			out[e.ID] = true
		}
	}
	return out, warnings
}

// EvaluateLayers evaluates rg against layers and returns the set of
// matching layer ids.
func EvaluateLayers(layers []graph.Layer, rg RuleGroup) (map[string]bool, []Warning) {
	out := make(map[string]bool)
	var warnings []Warning
	for _, l := range layers {
		ok, ws := matchGroup(rg, layerAccessor(l), "rule_group")
		warnings = append(warnings, ws...)
		if ok {
			out[l.ID] = true
		}
	}
	return out, warnings
}

// accessor resolves a rule's field (with its prefix already known to the
// caller's target) to a typed value. Fields whose prefix does not apply
// to this row's target (e.g. an "edge.weight" rule evaluated against a
// node row) resolve to kindMissing and are treated as non-matching,
// contributing false without aborting the group — this is the
// implementer's documented resolution for cross-target rule groups.
type accessor func(field string) fieldValue

func matchGroup(rg RuleGroup, acc accessor, path string) (bool, []Warning) {
	combinator := rg.Combinator
	if combinator == "" {
		combinator = CombinatorAnd
	}
	var warnings []Warning
	result := combinator == CombinatorAnd
	for i, child := range rg.Rules {
		childPath := fmt.Sprintf("%s.rules[%d]", path, i)
		var ok bool
		var ws []Warning
		switch {
		case child.Rule != nil:
			var w *Warning
			ok, w = matchRule(*child.Rule, acc, childPath)
			if w != nil {
				ws = append(ws, *w)
			}
		case child.Group != nil:
			ok, ws = matchGroup(*child.Group, acc, childPath)
		}
		warnings = append(warnings, ws...)
		if combinator == CombinatorAnd {
			result = result && ok
		} else {
			result = result || ok
		}
	}
	if len(rg.Rules) == 0 {
		result = true
	}
	if rg.Not {
		result = !result
	}
	return result, warnings
}

func matchRule(r Rule, acc accessor, path string) (bool, *Warning) {
	val := acc(r.Field)
	if val.kind == kindMissing {
		return false, nil
	}

	switch r.Operator {
	case OpEqual, OpNotEqual, OpIn:
		// any type
	case OpLess, OpLessEq, OpGreater, OpGreaterEq, OpBetween:
		if val.kind != kindNumber {
			return false, &Warning{Path: path, Message: fmt.Sprintf("operator %q requires a numeric field, got %v", r.Operator, val.kind)}
		}
	case OpContains, OpBeginsWith, OpEndsWith:
		if val.kind != kindText {
			return false, &Warning{Path: path, Message: fmt.Sprintf("operator %q requires a text field, got %v", r.Operator, val.kind)}
		}
	default:
		return false, &Warning{Path: path, Message: fmt.Sprintf("unknown operator %q", r.Operator)}
	}

	switch r.Operator {
	case OpEqual:
		return valueEquals(val, r.Value), nil
	case OpNotEqual:
		return !valueEquals(val, r.Value), nil
	case OpIn:
		list, ok := r.Value.([]any)
		if !ok {
			return false, &Warning{Path: path, Message: "in operator requires a value list"}
		}
		for _, v := range list {
			if valueEquals(val, v) {
				return true, nil
			}
		}
		return false, nil
	case OpLess, OpLessEq, OpGreater, OpGreaterEq:
		n, ok := toFloat(r.Value)
		if !ok {
			return false, &Warning{Path: path, Message: "operator requires a numeric value"}
		}
		switch r.Operator {
		case OpLess:
			return val.num < n, nil
		case OpLessEq:
			return val.num <= n, nil
		case OpGreater:
			return val.num > n, nil
		default:
			return val.num >= n, nil
		}
	case OpBetween:
		list, ok := r.Value.([]any)
		if !ok || len(list) != 2 {
			return false, &Warning{Path: path, Message: "between operator requires a 2-value list"}
		}
		lo, ok1 := toFloat(list[0])
		hi, ok2 := toFloat(list[1])
		if !ok1 || !ok2 {
			return false, &Warning{Path: path, Message: "between operator requires numeric bounds"}
		}
		return val.num >= lo && val.num <= hi, nil
	case OpContains:
		s, _ := r.Value.(string)
		return strings.Contains(val.text, s), nil
	case OpBeginsWith:
		s, _ := r.Value.(string)
		return strings.HasPrefix(val.text, s), nil
	case OpEndsWith:
		s, _ := r.Value.(string)
		return strings.HasSuffix(val.text, s), nil
	}
	return false, nil
}

func valueEquals(val fieldValue, raw any) bool {
	switch val.kind {
	case kindNumber:
		n, ok := toFloat(raw)
		return ok && n == val.num
	case kindBool:
		b, ok := raw.(bool)
		return ok && b == val.b
	default:
		s, ok := raw.(string)
		return ok && s == val.text
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func textField(s string) fieldValue   { return fieldValue{kind: kindText, text: s} }
func numberField(n float64) fieldValue { return fieldValue{kind: kindNumber, num: n} }
func boolField(b bool) fieldValue     { return fieldValue{kind: kindBool, b: b} }

func nodeAccessor(n graph.Node) accessor {
	return func(field string) fieldValue {
		prefix, rest, ok := splitField(field)
		if !ok {
			return fieldValue{kind: kindMissing}
		}
		switch prefix {
		case prefixNode:
			switch rest {
			case "id":
				return textField(n.ID)
			case "label":
				return textField(n.Label)
			case "layer":
				return textField(n.Layer)
			case "is_partition":
				return boolField(n.IsPartition)
			case "belongs_to":
				return textField(n.BelongsTo)
			case "weight":
				return numberField(float64(n.Weight))
			case "comment":
				return textField(n.Comment)
			case "dataset":
				return textField(n.Dataset)
			default:
				return fieldValue{kind: kindMissing}
			}
		case prefixAttrs:
			return attrField(n.Attributes, rest)
		default:
			return fieldValue{kind: kindMissing}
		}
	}
}

func edgeAccessor(e graph.Edge) accessor {
	return func(field string) fieldValue {
		prefix, rest, ok := splitField(field)
		if !ok {
			return fieldValue{kind: kindMissing}
		}
		switch prefix {
		case prefixEdge:
			switch rest {
			case "id":
				return textField(e.ID)
			case "source":
				return textField(e.Source)
			case "target":
				return textField(e.Target)
			case "label":
				return textField(e.Label)
			case "layer":
				return textField(e.Layer)
			case "weight":
				return numberField(float64(e.Weight))
			case "comment":
				return textField(e.Comment)
			case "dataset":
				return textField(e.Dataset)
			default:
				return fieldValue{kind: kindMissing}
			}
		case prefixAttrs:
			return attrField(e.Attributes, rest)
		default:
			return fieldValue{kind: kindMissing}
		}
	}
}

func layerAccessor(l graph.Layer) accessor {
	return func(field string) fieldValue {
		prefix, rest, ok := splitField(field)
		if !ok {
			return fieldValue{kind: kindMissing}
		}
		switch prefix {
		case prefixLayer:
			switch rest {
			case "id":
				return textField(l.ID)
			case "label":
				return textField(l.Label)
			case "background_color":
				return textField(l.BackgroundColor)
			case "text_color":
				return textField(l.TextColor)
			case "border_color":
				return textField(l.BorderColor)
			case "alias":
				return textField(l.Alias)
			case "dataset":
				return textField(l.Dataset)
			default:
				return fieldValue{kind: kindMissing}
			}
		case prefixProperties:
			return attrField(l.Attributes, rest)
		default:
			return fieldValue{kind: kindMissing}
		}
	}
}

// attrField evaluates a sanitized JSON path against an attribute map
// using gjson, the idiomatic tool for ad hoc JSON-path lookups against a
// marshaled document.
func attrField(attrs map[string]any, path string) fieldValue {
	if attrs == nil {
		return fieldValue{kind: kindMissing}
	}
	data, err := json.Marshal(attrs)
	if err != nil {
		return fieldValue{kind: kindMissing}
	}
	res := gjson.GetBytes(data, path)
	if !res.Exists() {
		return fieldValue{kind: kindMissing}
	}
	switch res.Type {
	case gjson.Number:
		return numberField(res.Float())
	case gjson.True, gjson.False:
		return boolField(res.Bool())
	default:
		return textField(res.String())
	}
}
