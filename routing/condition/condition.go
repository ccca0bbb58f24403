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
	"fmt"
	"strings"

	"github.com/endink/go-sharding-router/core"
)

// Value is what one sharding column of one table may hold: a list of values or a range.
type Value struct {
	Table  string
	Column string
	Values []interface{}
	Range  core.Range
}

func (v *Value) IsRange() bool {
	return v.Range != nil
}

func (v *Value) String() string {
	if v.IsRange() {
		return fmt.Sprintf("%s.%s in %s", v.Table, v.Column, v.Range)
	}
	return fmt.Sprintf("%s.%s in %v", v.Table, v.Column, v.Values)
}

// Condition is the set of sharding values one row (or one AND group of the WHERE clause) must satisfy.
type Condition struct {
	Values      []*Value
	alwaysFalse bool
}

func AlwaysFalseCondition() *Condition {
	return &Condition{alwaysFalse: true}
}

func (c *Condition) IsAlwaysFalse() bool {
	return c.alwaysFalse
}

// ShardingValues collects the values owned by the given tables, the first table names the result.
func (c *Condition) ShardingValues(tables ...string) *core.ShardingValues {
	var name string
	if len(tables) > 0 {
		name = tables[0]
	}
	result := core.NewShardingValues(name)
	for _, v := range c.Values {
		if !containsTable(tables, v.Table) {
			continue
		}
		if v.IsRange() {
			result.SetRange(v.Column, v.Range)
		} else {
			result.AddScalar(v.Column, v.Values...)
		}
	}
	return result
}

func (c *Condition) String() string {
	if c.alwaysFalse {
		return "false"
	}
	parts := make([]string, len(c.Values))
	for i, v := range c.Values {
		parts[i] = v.String()
	}
	return strings.Join(parts, " AND ")
}

// Conditions are the alternatives of a statement, empty conditions do not restrict routing at all.
type Conditions struct {
	Conditions []*Condition
}

func NewConditions(conditions ...*Condition) *Conditions {
	return &Conditions{Conditions: conditions}
}

func (c *Conditions) IsEmpty() bool {
	return c == nil || len(c.Conditions) == 0
}

// IsAlwaysFalse is true when there are conditions and none of them can be satisfied.
func (c *Conditions) IsAlwaysFalse() bool {
	if c.IsEmpty() {
		return false
	}
	for _, cond := range c.Conditions {
		if !cond.alwaysFalse {
			return false
		}
	}
	return true
}

// FirstTable is the owner of the first value of the first condition.
func (c *Conditions) FirstTable() (string, bool) {
	if c.IsEmpty() || len(c.Conditions[0].Values) == 0 {
		return "", false
	}
	return c.Conditions[0].Values[0].Table, true
}

func (c *Conditions) String() string {
	if c.IsEmpty() {
		return "<none>"
	}
	parts := make([]string, len(c.Conditions))
	for i, cond := range c.Conditions {
		parts[i] = "(" + cond.String() + ")"
	}
	return strings.Join(parts, " OR ")
}

func containsTable(tables []string, table string) bool {
	for _, t := range tables {
		if t == table {
			return true
		}
	}
	return false
}
