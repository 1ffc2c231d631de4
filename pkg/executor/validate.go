package executor

import (
	"errors"

	cerrors "github.com/layercake-project/layercake/pkg/errors"
	"github.com/layercake-project/layercake/pkg/filter"
	"github.com/layercake-project/layercake/pkg/plan"
)

// ValidatePlanDAG implements spec §6's `validate_plan_dag(plan_dag) →
// {errors[], warnings[]}`. It runs [plan.Validate] and additionally
// compiles every Filter node's rule group through [filter.Compile], so
// a structurally malformed rule tree is caught here rather than
// surfacing only at execution time.
func (e *Executor) ValidatePlanDAG(d plan.DAG) cerrors.List {
	list := plan.Validate(d)
	for id, node := range d.Nodes {
		if node.Kind != plan.KindFilter || node.Filter == nil {
			continue
		}
		if _, err := filter.Compile(*node.Filter); err != nil {
			var cerr *cerrors.Error
			if errors.As(err, &cerr) {
				list.Add(cerr)
				continue
			}
			list.Add(cerrors.Wrap(cerrors.KindValidation, cerrors.CodeInvalidRuleGroup, id, err, "invalid filter config"))
		}
	}
	return list
}
