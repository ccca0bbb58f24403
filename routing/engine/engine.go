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
	"github.com/endink/go-sharding-router/logging"
	"github.com/endink/go-sharding-router/routing/condition"
	"github.com/endink/go-sharding-router/routing/route"
	"github.com/endink/go-sharding-router/rule"
	"github.com/endink/go-sharding-router/statement"
)

var logger = logging.GetLogger("routing")

type Type int

const (
	TypeStandard Type = iota + 1
	TypeComplex
	TypeTableBroadcast
	TypeDatabaseBroadcast
	TypeInstanceBroadcast
	TypeDataSourceGroupBroadcast
	TypeUnicast
	TypeIgnore
)

var typeNames = map[Type]string{
	TypeStandard:                 "Standard",
	TypeComplex:                  "Complex",
	TypeTableBroadcast:           "TableBroadcast",
	TypeDatabaseBroadcast:        "DatabaseBroadcast",
	TypeInstanceBroadcast:        "InstanceBroadcast",
	TypeDataSourceGroupBroadcast: "DataSourceGroupBroadcast",
	TypeUnicast:                  "Unicast",
	TypeIgnore:                   "Ignore",
}

func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return "Unknown"
}

// RouteEngine computes the route of one statement, engines are created per statement.
type RouteEngine interface {
	Type() Type
	Route(r *rule.ShardingRule) (*route.Context, error)
}

// Select classifies the statement and creates the engine routing it, it never mutates its inputs.
func Select(r *rule.ShardingRule, qc *statement.QueryContext, conds *condition.Conditions) RouteEngine {
	stmt := qc.Statement
	tables := stmt.TableNames()
	var e RouteEngine
	switch stmt.Category() {
	case statement.TCL:
		e = &DatabaseBroadcast{}
	case statement.DDL:
		if stmt.Kind.IsCursor() {
			e = selectCursor(r, qc, tables, conds)
		} else {
			e = selectDDL(r, stmt, tables)
		}
	case statement.DAL:
		e = selectDAL(r, stmt, tables)
	case statement.DCL:
		e = selectDCL(r, stmt, tables)
	default:
		e = selectDML(r, qc, tables, conds)
	}
	logger.Debugf("%s statement on tables %v routes by %s", stmt.Kind, tables, e.Type())
	return e
}

func selectCursor(r *rule.ShardingRule, qc *statement.QueryContext, tables []string, conds *condition.Conditions) RouteEngine {
	stmt := qc.Statement
	if stmt.Kind == statement.KindCloseCursor && stmt.Cursor != nil && stmt.Cursor.CloseAll {
		return &DatabaseBroadcast{}
	}
	logicTables := r.ShardingLogicTableNames(tables)
	if isStandard(r, logicTables) {
		return newStandard(r, logicTables, conds, qc.Hint)
	}
	return &Ignore{}
}

func selectDDL(r *rule.ShardingRule, stmt *statement.Bound, tables []string) RouteEngine {
	switch {
	case stmt.Kind.IsFunctionOrProcedure():
		return &DatabaseBroadcast{}
	case stmt.Kind.IsTablespace():
		return &InstanceBroadcast{}
	}
	managed := r.ShardingRuleTableNames(tables)
	if len(tables) > 0 && len(managed) == 0 {
		return &Ignore{}
	}
	return &TableBroadcast{Tables: managed}
}

func selectDAL(r *rule.ShardingRule, stmt *statement.Bound, tables []string) RouteEngine {
	switch {
	case stmt.Kind == statement.KindUse:
		return &Ignore{}
	case stmt.Kind == statement.KindSet, stmt.Kind == statement.KindResetParameter,
		stmt.Kind == statement.KindShowDatabases, stmt.Kind == statement.KindLoad:
		return &DatabaseBroadcast{}
	case stmt.Kind.IsResourceGroup():
		// TODO: DROP and ALTER RESOURCE GROUP need kinds of their own before they can broadcast to instances.
		return &InstanceBroadcast{}
	}
	managed := r.ShardingRuleTableNames(tables)
	if len(tables) > 0 && len(managed) == 0 {
		return &Ignore{}
	}
	switch {
	case stmt.Kind == statement.KindOptimizeTable:
		return &TableBroadcast{Tables: managed}
	case stmt.Kind == statement.KindAnalyzeTable:
		if len(managed) == 0 {
			return &DatabaseBroadcast{}
		}
		return &TableBroadcast{Tables: managed}
	case len(managed) > 0:
		return &Unicast{Tables: managed}
	}
	return &DataSourceGroupBroadcast{}
}

func selectDCL(r *rule.ShardingRule, stmt *statement.Bound, tables []string) RouteEngine {
	if len(stmt.Tables) == 1 && stmt.Tables[0].Name != "*" && !stmt.Wildcard {
		managed := r.ShardingRuleTableNames(tables)
		if len(managed) == 0 {
			return &Ignore{}
		}
		return &TableBroadcast{Tables: managed}
	}
	return &InstanceBroadcast{}
}

func selectDML(r *rule.ShardingRule, qc *statement.QueryContext, tables []string, conds *condition.Conditions) RouteEngine {
	stmt := qc.Statement
	if (stmt.Kind.IsDataModification() && conds.IsAlwaysFalse()) || len(tables) == 0 {
		return &Unicast{Tables: tables}
	}
	logicTables := r.ShardingLogicTableNames(tables)
	if len(logicTables) == 0 {
		broadcast := r.BroadcastTableNames(tables)
		switch {
		case len(broadcast) == 0:
			return &Ignore{}
		case stmt.Kind == statement.KindSelect:
			return &Unicast{Tables: broadcast}
		default:
			return &TableBroadcast{Tables: broadcast}
		}
	}
	if isStandard(r, logicTables) {
		return newStandard(r, logicTables, conds, qc.Hint)
	}
	return &Complex{Tables: logicTables, Conditions: conds, Hint: qc.Hint}
}

// isStandard is true for one sharding table or several tables of one binding group.
func isStandard(r *rule.ShardingRule, logicTables []string) bool {
	if len(logicTables) == 1 {
		return r.IsAllShardingTables(logicTables)
	}
	return len(logicTables) > 1 && r.IsAllBindingTables(logicTables)
}

func newStandard(r *rule.ShardingRule, logicTables []string, conds *condition.Conditions, hint *statement.HintValueContext) *Standard {
	return &Standard{
		LogicTable: drivingTable(conds, logicTables),
		Tables:     logicTables,
		Conditions: conds,
		Hint:       hint,
	}
}

// drivingTable is the owner of the first value of the first condition, or the first table.
func drivingTable(conds *condition.Conditions, logicTables []string) string {
	if t, ok := conds.FirstTable(); ok {
		return t
	}
	return logicTables[0]
}
