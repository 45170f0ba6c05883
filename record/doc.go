// Package record defines the dataset record model: ordered field-name to
// value mappings over a finite set of value kinds, the adapter that
// converts raw provider values into them, and batch collation.
//
// Values are tagged variants. The recognized kinds are null, bool, int,
// float, string, bytes, list, and nested record; anything else passes
// through untouched as a foreign value so that provider types unknown to
// this package remain usable instead of crashing the pipeline.
//
//	rec, err := adapter.Adapt(map[string]any{"label": 1, "text": "hi"})
//	label, _ := rec.Get("label")
//	n, _ := label.AsInt()
package record
