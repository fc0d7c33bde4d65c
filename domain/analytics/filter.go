package analytics

import (
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"
)

var ErrFilterNotBoolean = errors.New("filter must evaluate to a boolean")

// RowFilter is a compiled CEL predicate over dataset columns, e.g.
// `severity == "CRITICAL" && !pdpc_notified`. resolved_date is "" when
// unset.
type RowFilter struct {
	expr string
	prg  cel.Program
}

func rowEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("response_time_hours", cel.DoubleType),
		cel.Variable("incident_id", cel.StringType),
		cel.Variable("business_unit", cel.StringType),
		cel.Variable("breach_type", cel.StringType),
		cel.Variable("root_cause", cel.StringType),
		cel.Variable("severity", cel.StringType),
		cel.Variable("status", cel.StringType),
		cel.Variable("pdpc_required", cel.BoolType),
		cel.Variable("pdpc_notified", cel.BoolType),
		cel.Variable("dpo_guidance", cel.BoolType),
		cel.Variable("discovered_date", cel.StringType),
		cel.Variable("resolved_date", cel.StringType),
		cel.Variable("affected_records", cel.IntType),
	)
}

func NewRowFilter(expr string) (*RowFilter, error) {
	env, err := rowEnv()
	if err != nil {
		return nil, fmt.Errorf("filter env: %w", err)
	}
	ast, iss := env.Compile(expr)
	if iss.Err() != nil {
		return nil, fmt.Errorf("compile filter: %w", iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("%w: got %s", ErrFilterNotBoolean, ast.OutputType())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("filter program: %w", err)
	}
	return &RowFilter{expr: expr, prg: prg}, nil
}

func (f *RowFilter) String() string {
	return f.expr
}

func activation(r Row) map[string]any {
	resolved := ""
	if r.ResolvedDate != nil {
		resolved = *r.ResolvedDate
	}
	return map[string]any{
		"response_time_hours": r.ResponseTimeHours,
		"incident_id":         r.IncidentID,
		"business_unit":       r.BusinessUnit,
		"breach_type":         r.BreachType,
		"root_cause":          r.RootCause,
		"severity":            r.Severity,
		"status":              r.Status,
		"pdpc_required":       r.PDPCRequired,
		"pdpc_notified":       r.PDPCNotified,
		"dpo_guidance":        r.DPOGuidance,
		"discovered_date":     r.DiscoveredDate,
		"resolved_date":       resolved,
		"affected_records":    r.AffectedRecords,
	}
}

func (f *RowFilter) Match(r Row) (bool, error) {
	out, _, err := f.prg.Eval(activation(r))
	if err != nil {
		return false, fmt.Errorf("evaluate filter: %w", err)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, ErrFilterNotBoolean
	}
	return b, nil
}

// Apply keeps the rows the filter matches, in order.
func (f *RowFilter) Apply(rows []Row) ([]Row, error) {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		ok, err := f.Match(r)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.IncidentID, err)
		}
		if ok {
			out = append(out, r)
		}
	}
	return out, nil
}
