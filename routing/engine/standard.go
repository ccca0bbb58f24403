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
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var _ RouteEngine = &Standard{}

// Standard routes a driving table and the tables bound to it, bound tables follow the
// physical table index of the driving table.
type Standard struct {
	LogicTable string
	// Tables are the sharding tables of the statement, the driving table included.
	Tables     []string
	Conditions *condition.Conditions
	Hint       *statement.HintValueContext
}

func (e *Standard) Type() Type {
	return TypeStandard
}

func (e *Standard) Route(r *rule.ShardingRule) (*route.Context, error) {
	table, ok := r.ShardingTable(e.LogicTable)
	if !ok {
		return nil, rerrors.Unsupported("table '%s' is not a sharding table", e.LogicTable)
	}
	bound := e.boundTables(r)
	ctx := route.NewContext()
	for _, values := range e.shardingValues(append([]string{table.Name}, bound...)) {
		nodes, err := routeDataNodes(r, table, values, e.Hint)
		if err != nil {
			return nil, err
		}
		for _, node := range nodes {
			mappers := []route.Mapper{{LogicName: table.Name, ActualName: node.Table}}
			for _, t := range bound {
				actual, err := r.BindingActualTable(node.DataSource, t, table.Name, node.Table)
				if err != nil {
					return nil, rerrors.WrapUnroutable(err, "route binding table '%s' fault", t)
				}
				mappers = append(mappers, route.Mapper{LogicName: t, ActualName: actual})
			}
			ctx.Add(route.NewUnit(node.DataSource, mappers...))
		}
		ctx.AddOriginalDataNodes(nodes)
	}
	return ctx, nil
}

func (e *Standard) boundTables(r *rule.ShardingRule) []string {
	var bound []string
	for _, t := range e.Tables {
		if t != e.LogicTable && r.IsBound(t, e.LogicTable) {
			bound = append(bound, t)
		}
	}
	return bound
}

// shardingValues returns one set of values per satisfiable condition, empty conditions give a
// single empty set which selects every data node.
func (e *Standard) shardingValues(tables []string) []*core.ShardingValues {
	if e.Conditions.IsEmpty() {
		return []*core.ShardingValues{core.NewShardingValues(tables[0])}
	}
	var result []*core.ShardingValues
	for _, cond := range e.Conditions.Conditions {
		if cond.IsAlwaysFalse() {
			continue
		}
		result = append(result, cond.ShardingValues(tables...))
	}
	return result
}

// routeDataNodes routes every combination of scalar values on its own, so the actual tables
// of a data source are only sharded by the values routed to that data source.
func routeDataNodes(r *rule.ShardingRule, table *core.ShardingTable, values *core.ShardingValues, hint *statement.HintValueContext) ([]*core.DataNode, error) {
	combinations, err := expandScalars(values, r.Props().MaxCartesianCombinations)
	if err != nil {
		return nil, err
	}
	var nodes []*core.DataNode
	seen := strset.New()
	for _, v := range combinations {
		routed, err := routeCombination(r, table, v, hint)
		if err != nil {
			return nil, err
		}
		for _, node := range routed {
			if key := node.String(); !seen.Has(key) {
				seen.Add(key)
				nodes = append(nodes, node)
			}
		}
	}
	return nodes, nil
}

// routeCombination shards the data sources first, then the actual tables of every chosen data source.
func routeCombination(r *rule.ShardingRule, table *core.ShardingTable, values *core.ShardingValues, hint *statement.HintValueContext) ([]*core.DataNode, error) {
	dbValues := withHints(values, hint.DatabaseHints(table.Name))
	dataSources, err := table.DatabaseStrategy.Shard(table.GetDataSources(), dbValues)
	if err != nil {
		return nil, rerrors.WrapUnroutable(err, "route data source of table '%s' fault", table.Name)
	}
	tableValues := withHints(values, hint.TableHints(table.Name))
	var nodes []*core.DataNode
	for _, ds := range dataSources {
		if _, ok := r.DataSource(ds); !ok {
			return nil, rerrors.Unroutable("data source '%s' of table '%s' is not configured", ds, table.Name)
		}
		actualTables, err := table.TableStrategy.Shard(table.GetActualTables(ds), tableValues)
		if err != nil {
			return nil, rerrors.WrapUnroutable(err, "route actual table of table '%s' in data source '%s' fault", table.Name, ds)
		}
		for _, actual := range actualTables {
			nodes = append(nodes, &core.DataNode{DataSource: ds, Table: actual})
		}
	}
	return nodes, nil
}

// expandScalars splits scalar value lists into single value combinations, ranges and hints are
// shared by every combination. The limit bounds the product of two or more columns only, a
// single column list expands linearly.
func expandScalars(values *core.ShardingValues, limit int) ([]*core.ShardingValues, error) {
	columns := maps.Keys(values.ScalarValues)
	slices.Sort(columns)
	capped := limit > 0 && len(columns) > 1
	count := 1
	lists := make([][]interface{}, len(columns))
	for i, c := range columns {
		lists[i] = values.ScalarValues[c]
		count *= len(lists[i])
		if capped && count > limit {
			return nil, rerrors.Unsupported("sharding values of table '%s' produce more than %d combinations", values.TableName, limit)
		}
	}
	if count <= 1 {
		return []*core.ShardingValues{values}, nil
	}
	result := make([]*core.ShardingValues, 0, count)
	for _, row := range core.Permute(lists) {
		v := core.NewShardingValues(values.TableName)
		for i, c := range columns {
			v.AddScalar(c, row[i])
		}
		for c, rng := range values.RangeValues {
			v.SetRange(c, rng)
		}
		v.HintValues = values.HintValues
		result = append(result, v)
	}
	return result, nil
}

func withHints(values *core.ShardingValues, hints []interface{}) *core.ShardingValues {
	if len(hints) == 0 {
		return values
	}
	v := *values
	v.HintValues = hints
	return &v
}
