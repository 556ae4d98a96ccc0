package services

import (
	"fmt"
	"strconv"
	"strings"

	"conferencecentral/internal/domain"
)

// filterFields maps request field names to conference properties.
var filterFields = map[string]string{
	"CITY":          domain.PropertyCity,
	"TOPIC":         domain.PropertyTopics,
	"MONTH":         domain.PropertyMonth,
	"MAX_ATTENDEES": domain.PropertyMaxAttendees,
}

// filterOperators maps request operator names to comparison operators.
var filterOperators = map[string]string{
	"EQ":   domain.OpEqual,
	"GT":   domain.OpGreater,
	"GTEQ": domain.OpGreaterOrEqual,
	"LT":   domain.OpLess,
	"LTEQ": domain.OpLessOrEqual,
	"NE":   domain.OpNotEqual,
}

var numericProperties = map[string]bool{
	domain.PropertyMonth:          true,
	domain.PropertyMaxAttendees:   true,
	domain.PropertySeatsAvailable: true,
}

// CompileConferenceQuery validates filters and turns them into a query plan.
// At most one property may carry inequality predicates; when one does, results
// are ordered by it first and by name second.
func CompileConferenceQuery(filters []domain.ConferenceFilter) (*domain.ConferenceQuery, error) {
	q := &domain.ConferenceQuery{Predicates: make([]domain.Predicate, 0, len(filters))}

	for _, f := range filters {
		property, ok := filterFields[strings.TrimSpace(f.Field)]
		if !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidField, f.Field)
		}
		op, ok := filterOperators[strings.TrimSpace(f.Operator)]
		if !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidOperator, f.Operator)
		}

		p := domain.Predicate{Property: property, Operator: op, Value: f.Value}
		if p.IsInequality() {
			if q.InequalityProperty != "" && q.InequalityProperty != property {
				return nil, fmt.Errorf("%w: %s and %s", domain.ErrMultipleInequalityFields, q.InequalityProperty, property)
			}
			q.InequalityProperty = property
		}
		q.Predicates = append(q.Predicates, p)
	}

	for i, p := range q.Predicates {
		if !numericProperties[p.Property] {
			continue
		}
		raw := strings.TrimSpace(p.Value.(string))
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q", domain.ErrNumericCoercion, p.Property, raw)
		}
		q.Predicates[i].Value = n
	}

	if q.InequalityProperty != "" {
		q.OrderBy = []string{q.InequalityProperty, domain.PropertyName}
	} else {
		q.OrderBy = []string{domain.PropertyName}
	}
	return q, nil
}
