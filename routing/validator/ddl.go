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
	"github.com/endink/go-sharding-router/routing/rerrors"
	"github.com/endink/go-sharding-router/routing/route"
	"github.com/endink/go-sharding-router/rule"
	"github.com/endink/go-sharding-router/statement"
	"github.com/scylladb/go-set/strset"
)

var (
	_ Validator = &CreateTable{}
	_ Validator = &AlterTable{}
	_ Validator = &RenameTable{}
	_ Validator = &DropTable{}
	_ Validator = &CreateIndex{}
	_ Validator = &DropIndex{}
	_ Validator = &CreateView{}
	_ Validator = &Prepare{}
)

func ddlDetail(stmt *statement.Bound) *statement.DDLDetail {
	if stmt.DDL == nil {
		return &statement.DDLDetail{}
	}
	return stmt.DDL
}

func checkMetadata(r *rule.ShardingRule, db *rule.Database) bool {
	return db != nil && r.Props().CheckTableMetadata
}

// checkCoverage requires every data node of every sharding table in the statement to be routed.
func checkCoverage(r *rule.ShardingRule, stmt *statement.Bound, ctx *route.Context) error {
	for _, name := range r.ShardingLogicTableNames(stmt.TableNames()) {
		table, _ := r.ShardingTable(name)
		routed := strset.New()
		for _, u := range ctx.Units() {
			if actual, ok := u.ActualTable(name); ok {
				routed.Add(u.DataSource.ActualName + "." + actual)
			}
		}
		if expected := len(table.GetDataNodes()); routed.Size() != expected {
			return rerrors.Inconsistent("%s on table '%s' is routed to %d of its %d data nodes", stmt.Kind, name, routed.Size(), expected)
		}
	}
	return nil
}

func checkBound(r *rule.ShardingRule, tables []string, what string) error {
	sharding := r.ShardingLogicTableNames(tables)
	if len(sharding) > 1 && !r.IsAllBindingTables(sharding) {
		return rerrors.Unsupported("%s over sharding tables %v which are not bound together is not supported", what, sharding)
	}
	return nil
}

type CreateTable struct {
}

func (v *CreateTable) PreValidate(r *rule.ShardingRule, qc *statement.QueryContext, db *rule.Database, _ *condition.Conditions) error {
	stmt := qc.Statement
	detail := ddlDetail(stmt)
	tables := stmt.TableNames()
	if len(tables) == 0 {
		return nil
	}
	table := tables[0]
	if checkMetadata(r, db) && db.HasTable(table) && !detail.IfNotExists {
		return rerrors.Unsupported("table '%s' already exists", table)
	}
	if len(detail.Columns) > 0 && r.IsShardingTable(table) {
		columns := strset.New(core.TrimAndLowerArray(detail.Columns)...)
		for _, c := range r.ShardingColumns(table) {
			if !columns.Has(c) {
				return rerrors.Unsupported("sharding column '%s' is not defined by table '%s'", c, table)
			}
		}
	}
	return nil
}

// PostValidate requires the table to be created on every data node.
func (v *CreateTable) PostValidate(r *rule.ShardingRule, qc *statement.QueryContext, _ *rule.Database, ctx *route.Context) error {
	return checkCoverage(r, qc.Statement, ctx)
}

type AlterTable struct {
	noopPost
}

func (v *AlterTable) PreValidate(r *rule.ShardingRule, qc *statement.QueryContext, _ *rule.Database, _ *condition.Conditions) error {
	stmt := qc.Statement
	detail := ddlDetail(stmt)
	tables := stmt.TableNames()
	if len(tables) == 0 || !r.IsShardingTable(tables[0]) {
		return nil
	}
	table := tables[0]
	for _, c := range append(append([]string(nil), detail.DroppedColumns...), detail.ChangedColumns...) {
		if r.IsShardingColumn(table, c) {
			return rerrors.Unsupported("sharding column '%s' of table '%s' can not be dropped or changed", c, table)
		}
	}
	if detail.RenameTo != "" {
		return rerrors.Unsupported("sharding table '%s' can not be renamed", table)
	}
	for _, ref := range detail.ReferencedTables {
		if r.IsShardingTable(ref) && !r.IsBound(table, ref) {
			return rerrors.Unsupported("foreign key of table '%s' references sharding table '%s' which is not bound to it", table, ref)
		}
	}
	return nil
}

type RenameTable struct {
	noopPost
}

func (v *RenameTable) PreValidate(r *rule.ShardingRule, qc *statement.QueryContext, _ *rule.Database, _ *condition.Conditions) error {
	stmt := qc.Statement
	for _, name := range stmt.TableNames() {
		if r.IsShardingTable(name) {
			return rerrors.Unsupported("sharding table '%s' can not be renamed", name)
		}
	}
	for _, rn := range ddlDetail(stmt).Renames {
		if r.IsShardingTable(rn.From) || r.IsShardingTable(rn.To) {
			return rerrors.Unsupported("rename '%s' to '%s' touches a sharding table", rn.From, rn.To)
		}
	}
	return nil
}

type DropTable struct {
}

func (v *DropTable) PreValidate(r *rule.ShardingRule, qc *statement.QueryContext, db *rule.Database, _ *condition.Conditions) error {
	stmt := qc.Statement
	if !checkMetadata(r, db) || ddlDetail(stmt).IfExists {
		return nil
	}
	for _, name := range stmt.TableNames() {
		if !db.HasTable(name) {
			return rerrors.Unsupported("unknown table '%s'", name)
		}
	}
	return nil
}

func (v *DropTable) PostValidate(r *rule.ShardingRule, qc *statement.QueryContext, _ *rule.Database, ctx *route.Context) error {
	return checkCoverage(r, qc.Statement, ctx)
}

type CreateIndex struct {
	noopPost
}

// PreValidate requires a unique index of a sharding table to contain every sharding column.
func (v *CreateIndex) PreValidate(r *rule.ShardingRule, qc *statement.QueryContext, _ *rule.Database, _ *condition.Conditions) error {
	stmt := qc.Statement
	detail := ddlDetail(stmt)
	tables := stmt.TableNames()
	if !detail.UniqueIndex || len(tables) == 0 || !r.IsShardingTable(tables[0]) {
		return nil
	}
	columns := strset.New(core.TrimAndLowerArray(detail.IndexColumns)...)
	for _, c := range r.ShardingColumns(tables[0]) {
		if !columns.Has(c) {
			return rerrors.Unsupported("unique index '%s' of table '%s' must contain sharding column '%s'", detail.IndexName, tables[0], c)
		}
	}
	return nil
}

type DropIndex struct {
	noopPre
}

func (v *DropIndex) PostValidate(r *rule.ShardingRule, qc *statement.QueryContext, _ *rule.Database, ctx *route.Context) error {
	return checkCoverage(r, qc.Statement, ctx)
}

type CreateView struct {
	noopPost
}

func (v *CreateView) PreValidate(r *rule.ShardingRule, qc *statement.QueryContext, _ *rule.Database, _ *condition.Conditions) error {
	return checkBound(r, ddlDetail(qc.Statement).ViewTables, "view")
}

type Prepare struct {
	noopPre
}

// PostValidate rejects routes that prepare the statement twice on one data source.
func (v *Prepare) PostValidate(_ *rule.ShardingRule, _ *statement.QueryContext, _ *rule.Database, ctx *route.Context) error {
	seen := strset.New()
	for _, u := range ctx.Units() {
		ds := u.DataSource.ActualName
		if seen.Has(ds) {
			return rerrors.Unsupported("prepare statement is routed to data source '%s' more than once", ds)
		}
		seen.Add(ds)
	}
	return nil
}
