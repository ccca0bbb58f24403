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

package validator

import (
	"github.com/endink/go-sharding-router/core"
	"github.com/endink/go-sharding-router/routing/condition"
	"github.com/endink/go-sharding-router/routing/engine"
	"github.com/endink/go-sharding-router/routing/rerrors"
	"github.com/endink/go-sharding-router/routing/route"
	"github.com/endink/go-sharding-router/rule"
	"github.com/endink/go-sharding-router/statement"
)

var (
	_ Validator = &Insert{}
	_ Validator = &Update{}
	_ Validator = &Delete{}
)

// checkMultipleTables accepts statements over sharding tables of one binding group or over no
// sharding table at all.
func checkMultipleTables(r *rule.ShardingRule, stmt *statement.Bound) error {
	tables := stmt.TableNames()
	if len(tables) <= 1 {
		return nil
	}
	allSharding := r.IsAllShardingTables(tables) && r.IsAllBindingTables(tables)
	noSharding := len(r.ShardingLogicTableNames(tables)) == 0
	if !allSharding && !noSharding {
		return rerrors.Unsupported("%s over tables %v which are not bound together is not supported", stmt.Kind, tables)
	}
	return nil
}

// Insert rejects inserts that can not keep the rows of one statement together.
type Insert struct {
}

func (v *Insert) PreValidate(r *rule.ShardingRule, qc *statement.QueryContext, _ *rule.Database, _ *condition.Conditions) error {
	stmt := qc.Statement
	tables := stmt.TableNames()
	if len(tables) == 0 {
		return nil
	}
	table := tables[0]
	for _, a := range stmt.OnDuplicate {
		if r.IsShardingColumn(table, a.Column.Name) {
			return rerrors.Unsupported("sharding column '%s' of table '%s' can not be updated on duplicate key", a.Column.Name, table)
		}
	}
	if stmt.InsertSelect != nil {
		sharding := r.ShardingLogicTableNames(tables)
		if len(sharding) > 1 && !r.IsAllBindingTables(sharding) {
			return rerrors.Unsupported("insert into '%s' selecting from tables %v which are not bound together is not supported", table, sharding)
		}
	}
	return nil
}

// PostValidate requires every row to land on exactly one data node and enforces single shard
// inserts, globally or for the table.
func (v *Insert) PostValidate(r *rule.ShardingRule, qc *statement.QueryContext, _ *rule.Database, ctx *route.Context) error {
	tables := qc.Statement.TableNames()
	if len(tables) == 0 {
		return nil
	}
	table, ok := r.ShardingTable(tables[0])
	if !ok {
		return nil
	}
	if qc.Statement.InsertSelect == nil {
		for i, nodes := range ctx.OriginalDataNodes() {
			if len(nodes) > 1 {
				return rerrors.Unroutable("row %d of insert into '%s' is routed to %d data nodes, values of sharding columns %v are required", i+1, table.Name, len(nodes), r.ShardingColumns(table.Name))
			}
		}
	}
	if ctx.Len() <= 1 {
		return nil
	}
	if r.Props().SingleShardInsert || table.SingleShardInsert {
		return rerrors.Inconsistent("rows of one insert into '%s' are routed to %d data nodes, a single data node is required", table.Name, ctx.Len())
	}
	return nil
}

// Update rejects updates moving rows to another shard and limited updates over several nodes.
type Update struct {
}

func (v *Update) PreValidate(r *rule.ShardingRule, qc *statement.QueryContext, _ *rule.Database, _ *condition.Conditions) error {
	return checkMultipleTables(r, qc.Statement)
}

// PostValidate routes the sharding values of the SET clause and requires the same route as the WHERE clause.
func (v *Update) PostValidate(r *rule.ShardingRule, qc *statement.QueryContext, _ *rule.Database, ctx *route.Context) error {
	stmt := qc.Statement
	tables := stmt.TableNames()
	if len(tables) > 0 && r.IsShardingTable(tables[0]) {
		table := core.TrimAndLower(tables[0])
		conds, err := condition.FromAssignments(r, stmt, qc.Params)
		if err != nil {
			return err
		}
		if conds != nil {
			setRoute, err := (&engine.Standard{LogicTable: table, Tables: []string{table}, Conditions: conds, Hint: qc.Hint}).Route(r)
			if err != nil {
				return err
			}
			if !isSameRoute(ctx, setRoute) {
				return rerrors.Inconsistent("updating sharding value of table '%s' moves rows from [%s] to [%s]", table, ctx, setRoute)
			}
		}
	}
	return checkLimit(stmt, ctx)
}

// Delete rejects limited deletes over several nodes.
type Delete struct {
}

func (v *Delete) PreValidate(r *rule.ShardingRule, qc *statement.QueryContext, _ *rule.Database, _ *condition.Conditions) error {
	return checkMultipleTables(r, qc.Statement)
}

func (v *Delete) PostValidate(_ *rule.ShardingRule, qc *statement.QueryContext, _ *rule.Database, ctx *route.Context) error {
	return checkLimit(qc.Statement, ctx)
}

func checkLimit(stmt *statement.Bound, ctx *route.Context) error {
	if stmt.Limit != nil && ctx.Len() > 1 {
		return rerrors.LimitWithMultiNode("%s with limit is routed to %d data nodes, a single data node is required", stmt.Kind, ctx.Len())
	}
	return nil
}

// isSameRoute compares the units mapping the driving table only, bound tables of the WHERE
// route are not part of the SET route.
func isSameRoute(where *route.Context, set *route.Context) bool {
	if where.Len() != set.Len() {
		return false
	}
	for _, u := range set.Units() {
		found := false
		for _, w := range where.Units() {
			if w.DataSource == u.DataSource && containsMappers(w.Tables, u.Tables) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func containsMappers(all []route.Mapper, sub []route.Mapper) bool {
	for _, m := range sub {
		found := false
		for _, a := range all {
			if a == m {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
