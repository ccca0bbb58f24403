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

//配置参考：https://shardingsphere.apache.org/document/legacy/4.x/document/cn/manual/sharding-jdbc/configuration/config-yaml/

package core

import (
	"fmt"

	"github.com/scylladb/go-set/strset"
)

type ShardingTable struct {
	Name              string
	TableStrategy     ShardingStrategy
	DatabaseStrategy  ShardingStrategy
	SingleShardInsert bool
	dataNodes         []*DataNode
	dataSources       []string
	tables            map[string][]string
	actualTables      *strset.Set
}

// NewShardingTable creates a table over its actual data nodes, the node order is kept.
func NewShardingTable(name string, dataNodes []*DataNode) (*ShardingTable, error) {
	if len(dataNodes) == 0 {
		return nil, fmt.Errorf("sharding table '%s' has no actual data nodes", name)
	}
	t := &ShardingTable{
		Name:             TrimAndLower(name),
		TableStrategy:    NoneShardingStrategy,
		DatabaseStrategy: NoneShardingStrategy,
		tables:           make(map[string][]string),
		actualTables:     strset.New(),
	}
	seen := strset.New()
	for _, n := range dataNodes {
		key := n.String()
		if seen.Has(key) {
			return nil, fmt.Errorf("duplicate data node '%s' in sharding table '%s'", key, name)
		}
		seen.Add(key)
		if _, ok := t.tables[n.DataSource]; !ok {
			t.dataSources = append(t.dataSources, n.DataSource)
		}
		t.tables[n.DataSource] = append(t.tables[n.DataSource], n.Table)
		t.actualTables.Add(n.Table)
		t.dataNodes = append(t.dataNodes, n)
	}
	return t, nil
}

func (t *ShardingTable) GetDataNodes() []*DataNode {
	nodes := make([]*DataNode, len(t.dataNodes))
	copy(nodes, t.dataNodes)
	return nodes
}

//get all of the configured data sources in configuration order
func (t *ShardingTable) GetDataSources() []string {
	return append([]string(nil), t.dataSources...)
}

//get actual tables of the data source in configuration order
func (t *ShardingTable) GetActualTables(dataSource string) []string {
	return append([]string(nil), t.tables[dataSource]...)
}

func (t *ShardingTable) HasActualTable(table string) bool {
	return t.actualTables.Has(table)
}

func (t *ShardingTable) HasDataNode(dataSource string, table string) bool {
	return t.ActualTableIndex(dataSource, table) >= 0
}

// ActualTableIndex is the position of the actual table inside its data source, -1 if absent.
func (t *ShardingTable) ActualTableIndex(dataSource string, table string) int {
	for i, name := range t.tables[dataSource] {
		if name == table {
			return i
		}
	}
	return -1
}

func (t *ShardingTable) ActualTableAt(dataSource string, index int) (string, bool) {
	tables := t.tables[dataSource]
	if index < 0 || index >= len(tables) {
		return "", false
	}
	return tables[index], true
}

func (t *ShardingTable) HasDbShardingColumn(column string) bool {
	return containsColumn(t.DatabaseStrategy.GetShardingColumns(), column)
}

func (t *ShardingTable) HasTableShardingColumn(column string) bool {
	return containsColumn(t.TableStrategy.GetShardingColumns(), column)
}

func (t *ShardingTable) IsShardingColumn(column string) bool {
	return t.HasDbShardingColumn(column) || t.HasTableShardingColumn(column)
}

// GetShardingColumns returns database columns first then table columns, without duplicates.
func (t *ShardingTable) GetShardingColumns() []string {
	var columns []string
	columns = append(columns, t.DatabaseStrategy.GetShardingColumns()...)
	columns = append(columns, t.TableStrategy.GetShardingColumns()...)
	return DistinctSliceAndTrim(columns)
}

func (t *ShardingTable) IsDbSharding() bool {
	return t.DatabaseStrategy != NoneShardingStrategy
}

func (t *ShardingTable) IsTableSharding() bool {
	return t.TableStrategy != NoneShardingStrategy
}

func containsColumn(columns []string, column string) bool {
	c := TrimAndLower(column)
	for _, s := range columns {
		if s == c {
			return true
		}
	}
	return false
}
