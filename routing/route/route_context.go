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

package route

import (
	"sort"
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/endink/go-sharding-router/core"
)

// Mapper maps a logic name to the physical name used in one route unit.
type Mapper struct {
	LogicName  string `yaml:"logic"`
	ActualName string `yaml:"actual"`
}

func (m Mapper) String() string {
	if m.LogicName == m.ActualName {
		return m.LogicName
	}
	return m.LogicName + "->" + m.ActualName
}

// Unit is one physical execution target.
type Unit struct {
	DataSource Mapper   `yaml:"data-source"`
	Tables     []Mapper `yaml:"tables,omitempty"`
}

func NewUnit(dataSource string, tables ...Mapper) *Unit {
	return &Unit{DataSource: Mapper{LogicName: dataSource, ActualName: dataSource}, Tables: tables}
}

// Key identifies the unit by data source and table mapping, the order of the mappers is ignored.
func (u *Unit) Key() string {
	tables := make([]string, len(u.Tables))
	for i, t := range u.Tables {
		tables[i] = t.LogicName + ":" + t.ActualName
	}
	sort.Strings(tables)
	return u.DataSource.LogicName + ":" + u.DataSource.ActualName + "|" + strings.Join(tables, ",")
}

func (u *Unit) ActualTable(logicTable string) (string, bool) {
	for _, t := range u.Tables {
		if t.LogicName == logicTable {
			return t.ActualName, true
		}
	}
	return "", false
}

func (u *Unit) LogicTables() []string {
	names := make([]string, len(u.Tables))
	for i, t := range u.Tables {
		names[i] = t.LogicName
	}
	return names
}

func (u *Unit) String() string {
	if len(u.Tables) == 0 {
		return u.DataSource.String()
	}
	tables := make([]string, len(u.Tables))
	for i, t := range u.Tables {
		tables[i] = t.String()
	}
	return u.DataSource.String() + "[" + strings.Join(tables, ", ") + "]"
}

// Context is the route result of a statement: unique units in the order they were routed.
type Context struct {
	units             *linkedhashmap.Map
	originalDataNodes [][]*core.DataNode
}

func NewContext() *Context {
	return &Context{units: linkedhashmap.New()}
}

// Add appends the unit unless an identical unit is present.
func (c *Context) Add(u *Unit) bool {
	key := u.Key()
	if _, found := c.units.Get(key); found {
		return false
	}
	c.units.Put(key, u)
	return true
}

func (c *Context) Contains(u *Unit) bool {
	_, found := c.units.Get(u.Key())
	return found
}

func (c *Context) Units() []*Unit {
	values := c.units.Values()
	result := make([]*Unit, len(values))
	for i, v := range values {
		result[i] = v.(*Unit)
	}
	return result
}

func (c *Context) Len() int {
	return c.units.Size()
}

func (c *Context) IsEmpty() bool {
	return c.units.Empty()
}

func (c *Context) IsSingleRouting() bool {
	return c.units.Size() == 1
}

// DataSourceNames returns the distinct actual data sources in route order.
func (c *Context) DataSourceNames() []string {
	var names []string
	seen := make(map[string]struct{})
	for _, u := range c.Units() {
		if _, ok := seen[u.DataSource.ActualName]; !ok {
			seen[u.DataSource.ActualName] = struct{}{}
			names = append(names, u.DataSource.ActualName)
		}
	}
	return names
}

func (c *Context) LogicTables() []string {
	var names []string
	seen := make(map[string]struct{})
	for _, u := range c.Units() {
		for _, t := range u.Tables {
			if _, ok := seen[t.LogicName]; !ok {
				seen[t.LogicName] = struct{}{}
				names = append(names, t.LogicName)
			}
		}
	}
	return names
}

// ActualTables returns the actual tables of the logic table routed to the data source.
func (c *Context) ActualTables(dataSource string, logicTable string) []string {
	var tables []string
	for _, u := range c.Units() {
		if u.DataSource.ActualName != dataSource {
			continue
		}
		if actual, ok := u.ActualTable(logicTable); ok {
			tables = append(tables, actual)
		}
	}
	return core.DistinctSliceAndTrim(tables)
}

// Equal reports whether both contexts hold the same units regardless of order.
func (c *Context) Equal(other *Context) bool {
	if other == nil || c.Len() != other.Len() {
		return false
	}
	for _, u := range c.Units() {
		if !other.Contains(u) {
			return false
		}
	}
	return true
}

// AddOriginalDataNodes records the data nodes one sharding condition was routed to.
func (c *Context) AddOriginalDataNodes(nodes []*core.DataNode) {
	c.originalDataNodes = append(c.originalDataNodes, nodes)
}

func (c *Context) OriginalDataNodes() [][]*core.DataNode {
	return c.originalDataNodes
}

func (c *Context) String() string {
	units := c.Units()
	parts := make([]string, len(units))
	for i, u := range units {
		parts[i] = u.String()
	}
	return strings.Join(parts, "; ")
}
