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

package rule

import (
	"fmt"

	"github.com/endink/go-sharding-router/config"
	"github.com/endink/go-sharding-router/core"
	"github.com/scylladb/go-set/strset"
	"golang.org/x/exp/slices"
)

// DataSource is a logical data source and its physical placement.
type DataSource struct {
	Name     string
	Instance string
	Group    string
}

// ShardingRule is an immutable snapshot of the sharding topology, safe for concurrent readers.
type ShardingRule struct {
	dataSources     []*DataSource
	dataSourceMap   map[string]*DataSource
	tables          map[string]*core.ShardingTable
	broadcastTables *strset.Set
	bindingGroups   [][]string
	bindingIndex    map[string]int
	props           config.Props
}

func (r *ShardingRule) Props() config.Props {
	return r.props
}

func (r *ShardingRule) ShardingTable(name string) (*core.ShardingTable, bool) {
	t, ok := r.tables[core.TrimAndLower(name)]
	return t, ok
}

func (r *ShardingRule) IsShardingTable(name string) bool {
	_, ok := r.tables[core.TrimAndLower(name)]
	return ok
}

func (r *ShardingRule) IsBroadcastTable(name string) bool {
	return r.broadcastTables.Has(core.TrimAndLower(name))
}

// IsManagedTable reports whether the rule knows the table as sharding or broadcast table.
func (r *ShardingRule) IsManagedTable(name string) bool {
	return r.IsShardingTable(name) || r.IsBroadcastTable(name)
}

// ShardingLogicTableNames keeps the sharding tables of candidates in the given order.
func (r *ShardingRule) ShardingLogicTableNames(candidates []string) []string {
	return r.filter(candidates, r.IsShardingTable)
}

// ShardingRuleTableNames keeps the sharding and broadcast tables of candidates in the given order.
func (r *ShardingRule) ShardingRuleTableNames(candidates []string) []string {
	return r.filter(candidates, r.IsManagedTable)
}

func (r *ShardingRule) BroadcastTableNames(candidates []string) []string {
	return r.filter(candidates, r.IsBroadcastTable)
}

func (r *ShardingRule) filter(candidates []string, accept func(string) bool) []string {
	var result []string
	seen := strset.New()
	for _, c := range candidates {
		name := core.TrimAndLower(c)
		if !seen.Has(name) && accept(name) {
			seen.Add(name)
			result = append(result, name)
		}
	}
	return result
}

func (r *ShardingRule) IsAllShardingTables(tables []string) bool {
	if len(tables) == 0 {
		return false
	}
	for _, t := range tables {
		if !r.IsShardingTable(t) {
			return false
		}
	}
	return true
}

func (r *ShardingRule) IsAllBroadcastTables(tables []string) bool {
	if len(tables) == 0 {
		return false
	}
	for _, t := range tables {
		if !r.IsBroadcastTable(t) {
			return false
		}
	}
	return true
}

// IsAllBindingTables reports whether every table belongs to one and the same binding group.
func (r *ShardingRule) IsAllBindingTables(tables []string) bool {
	if len(tables) == 0 {
		return false
	}
	group, ok := r.bindingIndex[core.TrimAndLower(tables[0])]
	if !ok {
		return false
	}
	for _, t := range tables[1:] {
		if g, found := r.bindingIndex[core.TrimAndLower(t)]; !found || g != group {
			return false
		}
	}
	return true
}

// FindBindingGroup returns the configured binding group containing table.
func (r *ShardingRule) FindBindingGroup(table string) ([]string, bool) {
	g, ok := r.bindingIndex[core.TrimAndLower(table)]
	if !ok {
		return nil, false
	}
	return append([]string(nil), r.bindingGroups[g]...), true
}

func (r *ShardingRule) IsBound(a string, b string) bool {
	if core.TrimAndLower(a) == core.TrimAndLower(b) {
		return r.IsShardingTable(a)
	}
	return r.IsAllBindingTables([]string{a, b})
}

// BindingActualTable maps the actual table chosen for the driving table onto a bound table,
// both tables share the position of the actual table inside the data source.
func (r *ShardingRule) BindingActualTable(dataSource string, logicTable string, drivingLogicTable string, drivingActualTable string) (string, error) {
	if !r.IsBound(logicTable, drivingLogicTable) {
		return "", fmt.Errorf("table '%s' is not bound to table '%s'", logicTable, drivingLogicTable)
	}
	driving, _ := r.ShardingTable(drivingLogicTable)
	bound, _ := r.ShardingTable(logicTable)
	idx := driving.ActualTableIndex(dataSource, drivingActualTable)
	if idx < 0 {
		return "", fmt.Errorf("actual table '%s.%s' is not a data node of table '%s'", dataSource, drivingActualTable, drivingLogicTable)
	}
	actual, ok := bound.ActualTableAt(dataSource, idx)
	if !ok {
		return "", fmt.Errorf("can not find binding actual table of '%s' for '%s.%s'", logicTable, dataSource, drivingActualTable)
	}
	return actual, nil
}

func (r *ShardingRule) ShardingColumns(table string) []string {
	if t, ok := r.ShardingTable(table); ok {
		return t.GetShardingColumns()
	}
	return nil
}

func (r *ShardingRule) IsShardingColumn(table string, column string) bool {
	if t, ok := r.ShardingTable(table); ok {
		return t.IsShardingColumn(column)
	}
	return false
}

// DataSources returns every data source in lexicographic name order.
func (r *ShardingRule) DataSources() []*DataSource {
	return append([]*DataSource(nil), r.dataSources...)
}

func (r *ShardingRule) DataSource(name string) (*DataSource, bool) {
	ds, ok := r.dataSourceMap[name]
	return ds, ok
}

func (r *ShardingRule) DataSourceNames() []string {
	names := make([]string, len(r.dataSources))
	for i, ds := range r.dataSources {
		names[i] = ds.Name
	}
	return names
}

// Instances returns the distinct physical instances in lexicographic order.
func (r *ShardingRule) Instances() []string {
	set := strset.New()
	for _, ds := range r.dataSources {
		set.Add(ds.Instance)
	}
	list := set.List()
	slices.Sort(list)
	return list
}

func (r *ShardingRule) DataSourceGroups() []string {
	set := strset.New()
	for _, ds := range r.dataSources {
		set.Add(ds.Group)
	}
	list := set.List()
	slices.Sort(list)
	return list
}

// InstanceDataSources picks the first data source of every distinct instance.
func (r *ShardingRule) InstanceDataSources() []string {
	return r.representatives(func(ds *DataSource) string { return ds.Instance })
}

// GroupDataSources picks the first data source of every distinct data source group.
func (r *ShardingRule) GroupDataSources() []string {
	return r.representatives(func(ds *DataSource) string { return ds.Group })
}

func (r *ShardingRule) representatives(key func(*DataSource) string) []string {
	var result []string
	seen := strset.New()
	for _, ds := range r.dataSources {
		k := key(ds)
		if !seen.Has(k) {
			seen.Add(k)
			result = append(result, ds.Name)
		}
	}
	return result
}
