package qdrant

import (
	qdrant "github.com/qdrant/go-client/qdrant"
)

// FilterCondition is the interface for all filter conditions.
type FilterCondition interface {
	ToQdrantCondition() []*qdrant.Condition
}

// TextCondition matches a keyword payload field exactly.
type TextCondition struct {
	Key   string
	Value string
}

func (c TextCondition) ToQdrantCondition() []*qdrant.Condition {
	if c.Value == "" {
		return nil
	}
	return []*qdrant.Condition{qdrant.NewMatch(c.Key, c.Value)}
}

// FilterSet supports Must (AND), Should (OR), and MustNot (NOT) clauses.
//
//	filters := &FilterSet{
//	    Must: []FilterCondition{TextCondition{Key: "category", Value: "shoes"}},
//	}
type FilterSet struct {
	Must    []FilterCondition
	Should  []FilterCondition
	MustNot []FilterCondition
}

// buildFilter constructs a Qdrant filter, or nil when no condition is set.
func buildFilter(filters *FilterSet) *qdrant.Filter {
	if filters == nil {
		return nil
	}

	filter := &qdrant.Filter{
		Must:    buildConditions(filters.Must),
		Should:  buildConditions(filters.Should),
		MustNot: buildConditions(filters.MustNot),
	}
	if len(filter.Must) == 0 && len(filter.Should) == 0 && len(filter.MustNot) == 0 {
		return nil
	}
	return filter
}

func buildConditions(conds []FilterCondition) []*qdrant.Condition {
	var out []*qdrant.Condition
	for _, c := range conds {
		out = append(out, c.ToQdrantCondition()...)
	}
	return out
}
