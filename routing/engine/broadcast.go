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
	"github.com/endink/go-sharding-router/routing/route"
	"github.com/endink/go-sharding-router/rule"
)

var (
	_ RouteEngine = &TableBroadcast{}
	_ RouteEngine = &DatabaseBroadcast{}
	_ RouteEngine = &InstanceBroadcast{}
	_ RouteEngine = &DataSourceGroupBroadcast{}
)

// TableBroadcast routes to every data node of every table, a broadcast table lives in
// every data source. Without tables every data source receives the statement.
type TableBroadcast struct {
	Tables []string
}

func (e *TableBroadcast) Type() Type {
	return TypeTableBroadcast
}

func (e *TableBroadcast) Route(r *rule.ShardingRule) (*route.Context, error) {
	ctx := route.NewContext()
	if len(e.Tables) == 0 {
		return dataSourceUnits(r.DataSourceNames()), nil
	}
	for _, name := range e.Tables {
		var nodes []*core.DataNode
		if table, ok := r.ShardingTable(name); ok {
			nodes = table.GetDataNodes()
		} else {
			for _, ds := range r.DataSourceNames() {
				nodes = append(nodes, &core.DataNode{DataSource: ds, Table: name})
			}
		}
		for _, node := range nodes {
			ctx.Add(route.NewUnit(node.DataSource, route.Mapper{LogicName: name, ActualName: node.Table}))
		}
		ctx.AddOriginalDataNodes(nodes)
	}
	return ctx, nil
}

// DatabaseBroadcast routes to every data source without table mappings.
type DatabaseBroadcast struct {
}

func (e *DatabaseBroadcast) Type() Type {
	return TypeDatabaseBroadcast
}

func (e *DatabaseBroadcast) Route(r *rule.ShardingRule) (*route.Context, error) {
	return dataSourceUnits(r.DataSourceNames()), nil
}

// InstanceBroadcast routes to one data source of every physical instance.
type InstanceBroadcast struct {
}

func (e *InstanceBroadcast) Type() Type {
	return TypeInstanceBroadcast
}

func (e *InstanceBroadcast) Route(r *rule.ShardingRule) (*route.Context, error) {
	return dataSourceUnits(r.InstanceDataSources()), nil
}

// DataSourceGroupBroadcast routes to one data source of every data source group.
type DataSourceGroupBroadcast struct {
}

func (e *DataSourceGroupBroadcast) Type() Type {
	return TypeDataSourceGroupBroadcast
}

func (e *DataSourceGroupBroadcast) Route(r *rule.ShardingRule) (*route.Context, error) {
	return dataSourceUnits(r.GroupDataSources()), nil
}

func dataSourceUnits(dataSources []string) *route.Context {
	ctx := route.NewContext()
	for _, ds := range dataSources {
		ctx.Add(route.NewUnit(ds))
	}
	return ctx
}
