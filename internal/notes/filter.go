package notes

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// DateRange bounds a timestamp field inclusively. Both ends are required
// and must be RFC 3339 instants.
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// CreatorFilter narrows the creator dimension. SelectAll leaves it
// unconstrained and activates the per-user creator-match aggregation;
// otherwise Selected is an explicit set of user ids.
type CreatorFilter struct {
	SelectAll bool     `json:"selectAll"`
	Selected  []string `json:"selected"`
}

// FilterSpec is the request-scoped, partially populated filter for the
// search path. Every dimension is optional.
type FilterSpec struct {
	CreatedAt  *DateRange     `json:"createdAt"`
	UpdatedAt  *DateRange     `json:"updatedAt"`
	Categories []string       `json:"categories"`
	Creators   *CreatorFilter `json:"creators"`
}

// FilterError reports a filter dimension that could not be compiled.
// The web layer maps it to a validation failure.
type FilterError struct {
	Field  string
	Reason string
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("filter %s: %s", e.Field, e.Reason)
}

// compiledFilter separates the creator dimension from every other
// predicate so the creator-match aggregation can reuse the rest
// unchanged.
type compiledFilter struct {
	conditions []bson.M
	creator    bson.M
	selectAll  bool
}

// compileFilter translates a FilterSpec into predicate
// fragments, combined by the planner with logical AND. A nil spec
// compiles the same as an empty one: no range or category predicates and
// the default creator scope. When the creators dimension is absent the
// search narrows to the requester's own notes; explicit selection
// narrows to the selected set; selectAll adds no creator predicate at
// all.
func compileFilter(spec *FilterSpec, requester bson.ObjectID) (compiledFilter, error) {
	var out compiledFilter
	if spec == nil {
		spec = &FilterSpec{}
	}

	if spec.CreatedAt != nil {
		pred, err := rangePredicate("createdAt", spec.CreatedAt)
		if err != nil {
			return out, err
		}
		out.conditions = append(out.conditions, pred)
	}
	if spec.UpdatedAt != nil {
		pred, err := rangePredicate("updatedAt", spec.UpdatedAt)
		if err != nil {
			return out, err
		}
		out.conditions = append(out.conditions, pred)
	}
	if spec.Categories != nil {
		ids, err := parseIDs("categories", spec.Categories)
		if err != nil {
			return out, err
		}
		out.conditions = append(out.conditions, bson.M{"category": bson.M{"$in": ids}})
	}

	switch {
	case spec.Creators == nil:
		out.creator = bson.M{"creator": requester}
	case spec.Creators.SelectAll:
		out.selectAll = true
	default:
		ids, err := parseIDs("creators.selected", spec.Creators.Selected)
		if err != nil {
			return out, err
		}
		out.creator = bson.M{"creator": bson.M{"$in": ids}}
	}
	return out, nil
}

func rangePredicate(field string, r *DateRange) (bson.M, error) {
	from, err := time.Parse(time.RFC3339, r.From)
	if err != nil {
		return nil, &FilterError{Field: field, Reason: "invalid from date"}
	}
	to, err := time.Parse(time.RFC3339, r.To)
	if err != nil {
		return nil, &FilterError{Field: field, Reason: "invalid to date"}
	}
	return bson.M{field: bson.M{"$gte": from, "$lte": to}}, nil
}

func parseIDs(field string, raw []string) (bson.A, error) {
	ids := make(bson.A, 0, len(raw))
	for _, item := range raw {
		id, err := bson.ObjectIDFromHex(item)
		if err != nil {
			return nil, &FilterError{Field: field, Reason: fmt.Sprintf("invalid id %q", item)}
		}
		ids = append(ids, id)
	}
	return ids, nil
}
