package record

import "github.com/datakit-go/datastream/errors"

// Collate groups consecutive records into one batch record: each field
// becomes a List of that field's values across the group. All records
// must share the schema of the first; a missing field is an error, not
// a silent hole.
func Collate(records []*Record) (*Record, error) {
	if len(records) == 0 {
		return nil, errors.InvalidInput("records", "cannot collate an empty group")
	}

	fields := records[0].Fields()
	batch := New()
	for _, name := range fields {
		column := make([]Value, len(records))
		for i, rec := range records {
			v, ok := rec.Get(name)
			if !ok {
				return nil, errors.MissingField(name).WithDetail("record_index", i)
			}
			column[i] = v
		}
		batch.Set(name, List(column...))
	}
	return batch, nil
}

// BatchLen returns the number of records collated into a batch record,
// or 0 for an empty record.
func BatchLen(batch *Record) int {
	if batch == nil || batch.Len() == 0 {
		return 0
	}
	first, _ := batch.Get(batch.Fields()[0])
	if items, ok := first.AsList(); ok {
		return len(items)
	}
	return 0
}
