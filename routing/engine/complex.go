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

package engine

import (
	"github.com/endink/go-sharding-router/core"
	"github.com/endink/go-sharding-router/routing/condition"
	"github.com/endink/go-sharding-router/routing/rerrors"
	"github.com/endink/go-sharding-router/routing/route"
	"github.com/endink/go-sharding-router/rule"
	"github.com/endink/go-sharding-router/statement"
	"github.com/scylladb/go-set/strset"
)

var _ RouteEngine = &Complex{}

// Complex routes every group of bound tables on its own, then joins the groups by the
// cartesian product of their units inside each common data source.
type Complex struct {
	Tables     []string
	Conditions *condition.Conditions
	Hint       *statement.HintValueContext
}

func (e *Complex) Type() Type {
	return TypeComplex
}

func (e *Complex) Route(r *rule.ShardingRule) (*route.Context, error) {
	var routed []*route.Context
	done := strset.New()
	for _, t := range e.Tables {
		if done.Has(t) {
			continue
		}
		group := []string{t}
		for _, other := range e.Tables {
			if other != t && !done.Has(other) && r.IsBound(other, t) {
				group = append(group, other)
			}
		}
		done.Add(group...)
		standard := &Standard{LogicTable: t, Tables: group, Conditions: e.Conditions, Hint: e.Hint}
		ctx, err := standard.Route(r)
		if err != nil {
			return nil, err
		}
		// a table matching no data node leaves nothing to join
		if ctx.IsEmpty() {
			return route.NewContext(), nil
		}
		routed = append(routed, ctx)
	}
	if len(routed) == 1 {
		return routed[0], nil
	}
	return cartesian(r, e.Tables, routed)
}

func cartesian(r *rule.ShardingRule, tables []string, routed []*route.Context) (*route.Context, error) {
	dataSources := strset.New(routed[0].DataSourceNames()...)
	for _, ctx := range routed[1:] {
		dataSources = strset.Intersection(dataSources, strset.New(ctx.DataSourceNames()...))
	}
	if dataSources.IsEmpty() {
		return nil, rerrors.Unsupported("tables %v have no common data source to join in", tables)
	}

	limit := r.Props().MaxCartesianCombinations
	result := route.NewContext()
	total := 0
	// topology order keeps the result stable
	for _, ds := range r.DataSourceNames() {
		if !dataSources.Has(ds) {
			continue
		}
		options := make([][]interface{}, len(routed))
		count := 1
		for i, ctx := range routed {
			for _, u := range ctx.Units() {
				if u.DataSource.ActualName == ds {
					options[i] = append(options[i], u.Tables)
				}
			}
			count *= len(options[i])
		}
		total += count
		if limit > 0 && total > limit {
			logger.Warnf("cartesian route of tables %v exceeds %d combinations", tables, limit)
			return nil, rerrors.Unsupported("cartesian route of tables %v produces more than %d units", tables, limit)
		}
		for _, combination := range core.Permute(options) {
			var mappers []route.Mapper
			for _, group := range combination {
				mappers = append(mappers, group.([]route.Mapper)...)
			}
			result.Add(route.NewUnit(ds, mappers...))
		}
	}
	for _, ctx := range routed {
		for _, nodes := range ctx.OriginalDataNodes() {
			result.AddOriginalDataNodes(nodes)
		}
	}
	return result, nil
}
