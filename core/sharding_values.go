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

package core

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ShardingValues holds the resolved sharding values of one logic table for one sharding condition.
type ShardingValues struct {
	TableName    string
	ScalarValues map[string][]interface{} //key: column, value: values
	RangeValues  map[string]Range
	HintValues   []interface{}
}

func NewShardingValues(tableName string) *ShardingValues {
	return &ShardingValues{
		TableName:    tableName,
		ScalarValues: make(map[string][]interface{}),
		RangeValues:  make(map[string]Range),
	}
}

func ShardingValuesForSingleScalar(tableName string, column string, value interface{}) *ShardingValues {
	v := NewShardingValues(tableName)
	v.AddScalar(column, value)
	return v
}

func (values *ShardingValues) AddScalar(column string, v ...interface{}) {
	values.ScalarValues[column] = append(values.ScalarValues[column], v...)
}

func (values *ShardingValues) SetRange(column string, r Range) {
	values.RangeValues[column] = r
}

func (values *ShardingValues) IsEmpty() bool {
	return len(values.ScalarValues) == 0 && len(values.RangeValues) == 0 && len(values.HintValues) == 0
}

func (values *ShardingValues) HasScalar(column string) bool {
	_, ok := values.ScalarValues[column]
	return ok
}

func (values *ShardingValues) HasRange(column string) bool {
	_, ok := values.RangeValues[column]
	return ok
}

func (values *ShardingValues) HasColumn(column string) bool {
	return values.HasScalar(column) || values.HasRange(column)
}

// Columns returns the columns carrying a value, sorted.
func (values *ShardingValues) Columns() []string {
	cols := maps.Keys(values.ScalarValues)
	for c := range values.RangeValues {
		if !values.HasScalar(c) {
			cols = append(cols, c)
		}
	}
	slices.Sort(cols)
	return cols
}
