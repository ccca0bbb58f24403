/*
 * Copyright 2021. Go-Sharding Author All Rights Reserved.
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 *
 *  File author: Anders Xiao
 */

package condition

import (
	"errors"

	"github.com/endink/go-sharding-router/core"
	"github.com/endink/go-sharding-router/core/comparison"
	"github.com/endink/go-sharding-router/routing/rerrors"
	"github.com/endink/go-sharding-router/rule"
	"github.com/endink/go-sharding-router/statement"
)

// maxAlternatives bounds the disjunctive normal form, larger predicates route without conditions.
const maxAlternatives = 1024

func whereConditions(r *rule.ShardingRule, stmt *statement.Bound, params []interface{}) (*Conditions, error) {
	if stmt.Where == nil {
		return NewConditions(), nil
	}
	alternatives, ok := toDNF(stmt.Where)
	if !ok {
		logger.Warnf("predicate has more than %d alternatives, routing without sharding conditions", maxAlternatives)
		return NewConditions(), nil
	}

	b := &whereBuilder{rule: r, stmt: stmt, params: params}
	result := make([]*Condition, 0, len(alternatives))
	for _, predicates := range alternatives {
		cond, err := b.build(predicates)
		if err != nil {
			return nil, err
		}
		// one unrestricted alternative makes every shard a candidate
		if cond == nil {
			return NewConditions(), nil
		}
		result = append(result, cond)
	}
	return NewConditions(result...), nil
}

// toDNF rewrites the predicate into alternatives of AND-ed predicates.
func toDNF(e statement.Expr) ([][]statement.Expr, bool) {
	switch v := e.(type) {
	case *statement.AndExpr:
		groups := [][]statement.Expr{{}}
		for _, item := range v.Items {
			sub, ok := toDNF(item)
			if !ok || len(groups)*len(sub) > maxAlternatives {
				return nil, false
			}
			next := make([][]statement.Expr, 0, len(groups)*len(sub))
			for _, g := range groups {
				for _, s := range sub {
					merged := make([]statement.Expr, 0, len(g)+len(s))
					merged = append(append(merged, g...), s...)
					next = append(next, merged)
				}
			}
			groups = next
		}
		return groups, true
	case *statement.OrExpr:
		var groups [][]statement.Expr
		for _, item := range v.Items {
			sub, ok := toDNF(item)
			if !ok || len(groups)+len(sub) > maxAlternatives {
				return nil, false
			}
			groups = append(groups, sub...)
		}
		return groups, true
	}
	return [][]statement.Expr{{e}}, true
}

type whereBuilder struct {
	rule   *rule.ShardingRule
	stmt   *statement.Bound
	params []interface{}
}

// build merges the predicates of one alternative per sharding column, nil means the
// alternative does not restrict any sharding column.
func (b *whereBuilder) build(predicates []statement.Expr) (*Condition, error) {
	var order []string
	values := make(map[string]*Value)
	for _, p := range predicates {
		v, alwaysFalse, err := b.valueOf(p)
		if err != nil {
			return nil, err
		}
		if alwaysFalse {
			return AlwaysFalseCondition(), nil
		}
		if v == nil {
			continue
		}
		key := v.Table + "." + v.Column
		existing, ok := values[key]
		if !ok {
			order = append(order, key)
			values[key] = v
			continue
		}
		merged, err := intersect(existing, v)
		if err != nil {
			return nil, rerrors.WrapUnroutable(err, "can not compare values of sharding column '%s'", key)
		}
		if merged == nil {
			return AlwaysFalseCondition(), nil
		}
		values[key] = merged
	}
	if len(order) == 0 {
		return nil, nil
	}
	cond := &Condition{Values: make([]*Value, len(order))}
	for i, key := range order {
		cond.Values[i] = values[key]
	}
	return cond, nil
}

func (b *whereBuilder) valueOf(p statement.Expr) (*Value, bool, error) {
	switch e := p.(type) {
	case *statement.CompareExpr:
		table, column := b.owner(e.Column)
		if table == "" || !e.Value.IsResolvable() {
			return nil, false, nil
		}
		v, err := b.resolve(e.Value)
		if err != nil {
			return nil, false, err
		}
		if e.Op == statement.OpEQ {
			return &Value{Table: table, Column: column, Values: []interface{}{v}}, false, nil
		}
		if v == nil {
			return nil, false, rerrors.Unroutable("sharding column '%s' can not be compared with null", column)
		}
		rng, err := compareRange(e.Op, v)
		if err != nil {
			// values which can not be ordered do not restrict the route
			return nil, false, nil
		}
		return &Value{Table: table, Column: column, Range: rng}, false, nil
	case *statement.InExpr:
		table, column := b.owner(e.Column)
		if table == "" || e.Not {
			return nil, false, nil
		}
		list := make([]interface{}, 0, len(e.Values))
		for _, item := range e.Values {
			if !item.IsResolvable() {
				return nil, false, nil
			}
			v, err := b.resolve(item)
			if err != nil {
				return nil, false, err
			}
			if !containsValue(list, v) {
				list = append(list, v)
			}
		}
		return &Value{Table: table, Column: column, Values: list}, false, nil
	case *statement.BetweenExpr:
		table, column := b.owner(e.Column)
		if table == "" || e.Not || !e.Low.IsResolvable() || !e.High.IsResolvable() {
			return nil, false, nil
		}
		low, err := b.resolve(e.Low)
		if err != nil {
			return nil, false, err
		}
		high, err := b.resolve(e.High)
		if err != nil {
			return nil, false, err
		}
		if low == nil || high == nil {
			return nil, false, rerrors.Unroutable("between bounds of sharding column '%s' can not be null", column)
		}
		rng, err := core.NewRange(low, high)
		if errors.Is(err, core.ErrRangeInvalidBound) {
			return nil, true, nil
		}
		if err != nil {
			return nil, false, nil
		}
		return &Value{Table: table, Column: column, Range: rng}, false, nil
	}
	return nil, false, nil
}

// owner finds the sharding table of a column, an unqualified column belongs to the first
// table using it as sharding column.
func (b *whereBuilder) owner(col statement.ColumnRef) (string, string) {
	column := core.TrimAndLower(col.Name)
	if col.Table != "" {
		table, ok := b.stmt.ResolveTable(col.Table)
		if ok && b.rule.IsShardingColumn(table, column) {
			return table, column
		}
		return "", ""
	}
	for _, table := range b.stmt.TableNames() {
		if b.rule.IsShardingColumn(table, column) {
			return table, column
		}
	}
	return "", ""
}

func (b *whereBuilder) resolve(v statement.Value) (interface{}, error) {
	value, err := v.Resolve(b.params)
	if err != nil {
		return nil, rerrors.WrapUnroutable(err, "resolve sharding value fault")
	}
	return normalize(value), nil
}

func compareRange(op statement.CompareOp, v interface{}) (core.Range, error) {
	switch op {
	case statement.OpGT:
		return core.GreaterThan(v)
	case statement.OpGE:
		return core.AtLeast(v)
	case statement.OpLT:
		return core.LessThan(v)
	default:
		return core.AtMost(v)
	}
}

// intersect returns nil when no value satisfies both sides.
func intersect(a *Value, b *Value) (*Value, error) {
	switch {
	case a.IsRange() && b.IsRange():
		rng, err := a.Range.Intersect(b.Range)
		if err != nil || rng == nil {
			return nil, err
		}
		return &Value{Table: a.Table, Column: a.Column, Range: rng}, nil
	case a.IsRange():
		return filterByRange(b, a.Range)
	case b.IsRange():
		return filterByRange(a, b.Range)
	}
	var list []interface{}
	for _, v := range a.Values {
		if containsValue(b.Values, v) {
			list = append(list, v)
		}
	}
	if len(list) == 0 {
		return nil, nil
	}
	return &Value{Table: a.Table, Column: a.Column, Values: list}, nil
}

func filterByRange(list *Value, rng core.Range) (*Value, error) {
	var values []interface{}
	for _, v := range list.Values {
		if v == nil {
			continue
		}
		ok, err := rng.Contains(v)
		if err != nil {
			return nil, err
		}
		if ok {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return nil, nil
	}
	return &Value{Table: list.Table, Column: list.Column, Values: values}, nil
}

func containsValue(list []interface{}, v interface{}) bool {
	for _, item := range list {
		if item == nil && v == nil {
			return true
		}
		if item != nil && v != nil && comparison.Equal(item, v) {
			return true
		}
	}
	return false
}
