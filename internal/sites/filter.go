package sites

// Invalid pairs a record with the reason it cannot produce a card.
type Invalid struct {
	Record Record
	Err    error
}

// Partition splits records into those that validate and those that don't,
// preserving input order in both.
func Partition(records []Record) (valid []Record, invalid []Invalid) {
	for _, r := range records {
		if err := r.Validate(); err != nil {
			invalid = append(invalid, Invalid{Record: r, Err: err})
			continue
		}
		valid = append(valid, r)
	}
	return valid, invalid
}

// URLs returns the URL of every record, in order.
func URLs(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.URL
	}
	return out
}
