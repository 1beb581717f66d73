package jobads

import (
	"jobads-sync/core/reconcile"
	"jobads-sync/core/utils"
	"jobads-sync/feature/jobads/models"
)

// Placeholder is stored for any projected field missing from the source.
const Placeholder = " "

// Field maps a column to the nested key path it is read from.
type Field struct {
	Column string
	Path   []string
}

// Fields is the projection table. Adding a column means adding it here and
// to models.JobAd.
var Fields = []Field{
	{Column: "email", Path: []string{"application_details", "email"}},
	{Column: "city", Path: []string{"workplace_address", "municipality"}},
	{Column: "occupation", Path: []string{"occupation", "label"}},
}

// Lookup walks doc along path. Any missing key, null, or non-object
// intermediate yields Placeholder.
func Lookup(doc map[string]any, path ...string) string {
	var cur any = doc
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return Placeholder
		}
		if cur, ok = m[key]; !ok {
			return Placeholder
		}
	}
	if cur == nil {
		return Placeholder
	}
	if _, ok := cur.(map[string]any); ok {
		return Placeholder
	}
	return utils.ToString(cur)
}

// Values returns the projected column values of doc.
func Values(doc map[string]any) map[string]any {
	out := make(map[string]any, len(Fields))
	for _, f := range Fields {
		out[f.Column] = Lookup(doc, f.Path...)
	}
	return out
}

// Project builds the stored row for rec.
func Project(rec reconcile.Record) models.JobAd {
	v := Values(rec.Doc)
	return models.JobAd{
		ID:         rec.ID,
		Email:      v["email"].(string),
		City:       v["city"].(string),
		Occupation: v["occupation"].(string),
	}
}

// Columns returns every stored column, id first.
func Columns() []string {
	cols := []string{"id"}
	for _, f := range Fields {
		cols = append(cols, f.Column)
	}
	return cols
}
