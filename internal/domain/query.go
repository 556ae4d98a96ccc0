package domain

// Conference properties a query plan may reference.
const (
	PropertyName           = "name"
	PropertyCity           = "city"
	PropertyTopics         = "topics"
	PropertyMonth          = "month"
	PropertyMaxAttendees   = "maxAttendees"
	PropertySeatsAvailable = "seatsAvailable"
)

// Comparison operators of a compiled predicate.
const (
	OpEqual          = "="
	OpGreater        = ">"
	OpGreaterOrEqual = ">="
	OpLess           = "<"
	OpLessOrEqual    = "<="
	OpNotEqual       = "!="
)

// ConferenceFilter is one user-supplied (field, operator, value) triple, e.g.
// {"MONTH", "GT", "6"}.
type ConferenceFilter struct {
	Field    string
	Operator string
	Value    string
}

// Predicate is a validated comparison on a conference property. Value is an
// int for numeric properties and a string otherwise.
type Predicate struct {
	Property string
	Operator string
	Value    any
}

// IsInequality reports whether the predicate is a range condition.
func (p Predicate) IsInequality() bool {
	return p.Operator != OpEqual
}

// ConferenceQuery is a compiled plan: the conjunction of Predicates, sorted
// ascending by each property of OrderBy in turn.
type ConferenceQuery struct {
	Predicates         []Predicate
	InequalityProperty string
	OrderBy            []string
}
