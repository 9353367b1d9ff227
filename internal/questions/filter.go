package questions

// Filters selects questions by facet. An empty value matches everything.
type Filters struct {
	Grade   string
	Subject string
	Topic   string
}

// NormalizeFilterValue maps the "all" selector value to no filter.
func NormalizeFilterValue(v string) string {
	if v == AllValue {
		return ""
	}
	return v
}

// Normalized returns f with every "all" sentinel replaced by no filter.
func (f Filters) Normalized() Filters {
	return Filters{
		Grade:   NormalizeFilterValue(f.Grade),
		Subject: NormalizeFilterValue(f.Subject),
		Topic:   NormalizeFilterValue(f.Topic),
	}
}

// Match reports whether q satisfies every non-empty facet of f.
func (f Filters) Match(q Question) bool {
	f = f.Normalized()
	return (f.Grade == "" || q.Grade == f.Grade) &&
		(f.Subject == "" || q.Subject == f.Subject) &&
		(f.Topic == "" || q.Topic == f.Topic)
}

// Filter returns the questions in all that match f, preserving order.
func Filter(all []Question, f Filters) []Question {
	out := make([]Question, 0, len(all))
	for _, q := range all {
		if f.Match(q) {
			out = append(out, q)
		}
	}
	return out
}
