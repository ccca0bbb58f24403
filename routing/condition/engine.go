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
	"github.com/endink/go-sharding-router/core"
	"github.com/endink/go-sharding-router/core/comparison"
	"github.com/endink/go-sharding-router/logging"
	"github.com/endink/go-sharding-router/routing/rerrors"
	"github.com/endink/go-sharding-router/rule"
	"github.com/endink/go-sharding-router/statement"
)

var logger = logging.GetLogger("condition")

// New extracts the sharding conditions of the statement: one per inserted row, one per
// OR alternative of the WHERE clause.
func New(r *rule.ShardingRule, qc *statement.QueryContext) (*Conditions, error) {
	stmt := qc.Statement
	switch stmt.Kind {
	case statement.KindInsert:
		return insertConditions(r, stmt, qc.Params)
	case statement.KindUpdate, statement.KindDelete, statement.KindSelect:
		return whereConditions(r, stmt, qc.Params)
	}
	return NewConditions(), nil
}

// FromAssignments builds the condition the SET clause of an update would route to,
// nil means no sharding column is assigned.
func FromAssignments(r *rule.ShardingRule, stmt *statement.Bound, params []interface{}) (*Conditions, error) {
	tables := stmt.TableNames()
	if len(tables) == 0 {
		return nil, nil
	}
	table := tables[0]
	cond := &Condition{}
	for _, a := range stmt.Assignments {
		if a.Column.Table != "" {
			if owner, ok := stmt.ResolveTable(a.Column.Table); !ok || owner != table {
				continue
			}
		}
		column := core.TrimAndLower(a.Column.Name)
		if !r.IsShardingColumn(table, column) {
			continue
		}
		if !a.Value.IsResolvable() {
			return nil, rerrors.Unsupported("sharding column '%s' of table '%s' can not be assigned by expression '%s'", column, table, a.Value.Expression)
		}
		v, err := a.Value.Resolve(params)
		if err != nil {
			return nil, rerrors.WrapUnroutable(err, "resolve value of sharding column '%s' fault", column)
		}
		cond.Values = append(cond.Values, &Value{Table: table, Column: column, Values: []interface{}{normalize(v)}})
	}
	if len(cond.Values) == 0 {
		return nil, nil
	}
	return NewConditions(cond), nil
}

func insertConditions(r *rule.ShardingRule, stmt *statement.Bound, params []interface{}) (*Conditions, error) {
	if len(stmt.Tables) == 0 {
		return NewConditions(), nil
	}
	table := core.TrimAndLower(stmt.Tables[0].Name)
	st, ok := r.ShardingTable(table)
	if !ok {
		return NewConditions(), nil
	}
	if stmt.InsertSelect != nil {
		return whereConditions(r, stmt.InsertSelect, params)
	}

	columns, rows := stmt.InsertColumns, stmt.InsertRows
	if len(stmt.Assignments) > 0 {
		columns = make([]string, len(stmt.Assignments))
		row := make([]statement.Value, len(stmt.Assignments))
		for i, a := range stmt.Assignments {
			columns[i], row[i] = a.Column.Name, a.Value
		}
		rows = [][]statement.Value{row}
	}
	if len(columns) == 0 {
		return nil, rerrors.Unsupported("insert into sharding table '%s' requires a column list", table)
	}

	result := make([]*Condition, 0, len(rows))
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, rerrors.Unsupported("column count doesn't match value count at row %d", i+1)
		}
		cond := &Condition{}
		for j, col := range columns {
			column := core.TrimAndLower(col)
			if !st.IsShardingColumn(column) {
				continue
			}
			if !row[j].IsResolvable() {
				return nil, rerrors.Unroutable("value '%s' of sharding column '%s' at row %d is not a constant", row[j].Expression, column, i+1)
			}
			v, err := row[j].Resolve(params)
			if err != nil {
				return nil, rerrors.WrapUnroutable(err, "resolve value of sharding column '%s' at row %d fault", column, i+1)
			}
			cond.Values = append(cond.Values, &Value{Table: table, Column: column, Values: []interface{}{normalize(v)}})
		}
		result = append(result, cond)
	}
	return NewConditions(result...), nil
}

func normalize(v interface{}) interface{} {
	if n, ok := comparison.Normalize(v); ok {
		return n
	}
	return v
}
