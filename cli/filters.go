// ABOUTME: Shared --query, facet and --where flags for list commands
// ABOUTME: Runs the filter engine, then the compiled where expression
package cli

import (
	"flag"

	"github.com/harperreed/dealdesk/filter"
)

type listFilter struct {
	query  *string
	where  *string
	facets map[string]*string
}

// addListFlags registers --query, --where and one flag per facet key.
func addListFlags(fs *flag.FlagSet, facets ...string) *listFilter {
	f := &listFilter{
		query:  fs.String("query", "", "Case-insensitive search term"),
		where:  fs.String("where", "", `Filter expression, e.g. 'value > 1000 && stage == "lead"'`),
		facets: make(map[string]*string, len(facets)),
	}
	for _, key := range facets {
		f.facets[key] = fs.String(key, "", "Filter by "+key+" (exact match)")
	}
	return f
}

func (f *listFilter) facetValues() map[string]string {
	values := make(map[string]string, len(f.facets))
	for key, v := range f.facets {
		values[key] = *v
	}
	return values
}

// applyList filters items through engine, then the --where expression.
func applyList[T interface{ RecordID() int64 }](items []T, engine *filter.Engine[T], f *listFilter) ([]T, error) {
	matched := engine.Apply(items, *f.query, f.facetValues())

	where, err := filter.CompileWhere(*f.where)
	if err != nil {
		return nil, err
	}
	return filter.ApplyWhere(matched, where)
}
