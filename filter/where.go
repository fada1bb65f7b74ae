// ABOUTME: Expression predicates for ad-hoc list filtering
// ABOUTME: Compiles expr-lang expressions evaluated against an entity's field map

package filter

import (
	"fmt"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
	"github.com/harperreed/dealdesk/models"
)

// Where is a compiled boolean expression over entity fields, for example
// `value > 1000 && stage == "proposal"`. Field names follow the JSON keys;
// Id is also available. Fields an entity lacks evaluate to nil.
type Where struct {
	source  string
	program *exprvm.Program
}

// CompileWhere compiles src. An empty src matches everything.
func CompileWhere(src string) (*Where, error) {
	if src == "" {
		return &Where{}, nil
	}
	program, err := exprlang.Compile(src,
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid where expression %q: %w", src, err)
	}
	return &Where{source: src, program: program}, nil
}

// String returns the expression source.
func (w *Where) String() string {
	return w.source
}

// Match evaluates the expression against fields.
func (w *Where) Match(fields map[string]any) (bool, error) {
	if w.program == nil {
		return true, nil
	}
	out, err := exprlang.Run(w.program, fields)
	if err != nil {
		return false, fmt.Errorf("where %q: %w", w.source, err)
	}
	ok, isBool := out.(bool)
	if !isBool {
		return false, fmt.Errorf("where %q: result is %T, not bool", w.source, out)
	}
	return ok, nil
}

// ApplyWhere keeps the items for which w matches. Each item's Id is
// exposed to the expression as Id.
func ApplyWhere[T interface{ RecordID() int64 }](items []T, w *Where) ([]T, error) {
	if w == nil || w.program == nil {
		return items, nil
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		fields, err := models.ToFields(item)
		if err != nil {
			return nil, err
		}
		fields["Id"] = item.RecordID()

		ok, err := w.Match(fields)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, item)
		}
	}
	return out, nil
}
