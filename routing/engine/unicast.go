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
	"github.com/endink/go-sharding-router/routing/rerrors"
	"github.com/endink/go-sharding-router/routing/route"
	"github.com/endink/go-sharding-router/rule"
	"github.com/scylladb/go-set/strset"
)

var (
	_ RouteEngine = &Unicast{}
	_ RouteEngine = &Ignore{}
)

// Unicast routes to exactly one data source: the first one, in name order, hosting every table.
type Unicast struct {
	Tables []string
}

func (e *Unicast) Type() Type {
	return TypeUnicast
}

func (e *Unicast) Route(r *rule.ShardingRule) (*route.Context, error) {
	candidates := r.DataSourceNames()
	for _, name := range e.Tables {
		if table, ok := r.ShardingTable(name); ok {
			hosts := strset.New(table.GetDataSources()...)
			candidates = filterStrings(candidates, func(s string) bool { return hosts.Has(s) })
		}
	}
	if len(candidates) == 0 {
		return nil, rerrors.Unsupported("tables %v are not located in one data source", e.Tables)
	}
	ds := candidates[0]
	mappers := make([]route.Mapper, 0, len(e.Tables))
	for _, name := range e.Tables {
		actual := name
		if table, ok := r.ShardingTable(name); ok {
			actual = table.GetActualTables(ds)[0]
		}
		mappers = append(mappers, route.Mapper{LogicName: name, ActualName: actual})
	}
	ctx := route.NewContext()
	ctx.Add(route.NewUnit(ds, mappers...))
	return ctx, nil
}

func filterStrings(list []string, keep func(string) bool) []string {
	var result []string
	for _, s := range list {
		if keep(s) {
			result = append(result, s)
		}
	}
	return result
}

// Ignore leaves the statement unrouted, it runs unchanged against its own tables.
type Ignore struct {
}

func (e *Ignore) Type() Type {
	return TypeIgnore
}

func (e *Ignore) Route(_ *rule.ShardingRule) (*route.Context, error) {
	return route.NewContext(), nil
}
