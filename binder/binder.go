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

package binder

import (
	"sort"

	"github.com/endink/go-sharding-router/logging"
	"github.com/endink/go-sharding-router/routing/rerrors"
	"github.com/endink/go-sharding-router/statement"
	"github.com/pingcap/errors"
	"github.com/pingcap/parser/ast"
	driver "github.com/pingcap/tidb/types/parser_driver"
)

var logger = logging.GetLogger("binder")

// Bind parses the sql text and binds it to a statement.
func Bind(sql string) (*statement.Bound, error) {
	node, err := ParseSQL(sql)
	if err != nil {
		return nil, errors.Annotate(err, "parse sql fault")
	}
	return BindNode(node, sql)
}

// BindNode classifies the statement and collects its tables, predicates and values.
func BindNode(node ast.StmtNode, sql string) (*statement.Bound, error) {
	b := &binder{params: paramOrdinals(node), stmt: &statement.Bound{SQL: sql}}
	b.stmt.ParamCount = len(b.params)
	if err := b.bind(node); err != nil {
		return nil, err
	}
	logger.Debugf("statement bound: %s %v", b.stmt.Kind, b.stmt.TableNames())
	return b.stmt, nil
}

// paramOrdinals numbers the '?' markers by their position in the sql text.
func paramOrdinals(node ast.Node) map[int]int {
	var offsets []int
	Walk(func(n ast.Node) bool {
		if p, ok := n.(*driver.ParamMarkerExpr); ok {
			offsets = append(offsets, p.Offset)
		}
		return true
	}, node)
	sort.Ints(offsets)
	ordinals := make(map[int]int, len(offsets))
	for i, offset := range offsets {
		ordinals[offset] = i
	}
	return ordinals
}

type binder struct {
	params map[int]int
	stmt   *statement.Bound
}

func (b *binder) sub() *binder {
	return &binder{params: b.params, stmt: &statement.Bound{SQL: b.stmt.SQL}}
}

func (b *binder) bind(node ast.StmtNode) error {
	switch n := node.(type) {
	case *ast.BeginStmt:
		b.stmt.Kind = statement.KindBegin
	case *ast.CommitStmt:
		b.stmt.Kind = statement.KindCommit
	case *ast.RollbackStmt:
		b.stmt.Kind = statement.KindRollback

	case *ast.SelectStmt:
		b.bindSelect(n)
	case *ast.UnionStmt:
		b.bindUnion(n)
	case *ast.InsertStmt:
		return b.bindInsert(n)
	case *ast.UpdateStmt:
		b.bindUpdate(n)
	case *ast.DeleteStmt:
		b.bindDelete(n)

	case *ast.CreateTableStmt:
		b.bindCreateTable(n)
	case *ast.AlterTableStmt:
		b.bindAlterTable(n)
	case *ast.DropTableStmt:
		b.bindDropTable(n)
	case *ast.RenameTableStmt:
		b.bindRenameTable(n)
	case *ast.TruncateTableStmt:
		b.stmt.Kind = statement.KindTruncateTable
		b.addTableName(n.Table, "")
	case *ast.CreateIndexStmt:
		b.bindCreateIndex(n)
	case *ast.DropIndexStmt:
		b.stmt.Kind = statement.KindDropIndex
		b.addTableName(n.Table, "")
		b.stmt.DDL = &statement.DDLDetail{IfExists: n.IfExists, IndexName: n.IndexName}
	case *ast.CreateViewStmt:
		b.bindCreateView(n)
	case *ast.CreateDatabaseStmt:
		b.stmt.Kind = statement.KindCreateDatabase
		b.stmt.DDL = &statement.DDLDetail{IfNotExists: n.IfNotExists}
	case *ast.AlterDatabaseStmt:
		b.stmt.Kind = statement.KindAlterDatabase
	case *ast.DropDatabaseStmt:
		b.stmt.Kind = statement.KindDropDatabase
		b.stmt.DDL = &statement.DDLDetail{IfExists: n.IfExists}
	case *ast.PrepareStmt:
		return b.bindPrepare(n)

	case *ast.UseStmt:
		b.stmt.Kind = statement.KindUse
	case *ast.SetStmt:
		b.stmt.Kind = statement.KindSet
	case *ast.ShowStmt:
		b.bindShow(n)
	case *ast.LoadDataStmt:
		b.stmt.Kind = statement.KindLoad
		b.addTableName(n.Table, "")
	case *ast.AnalyzeTableStmt:
		b.stmt.Kind = statement.KindAnalyzeTable
		for _, t := range n.TableNames {
			b.addTableName(t, "")
		}
	case *ast.FlushStmt:
		b.stmt.Kind = statement.KindFlush
		for _, t := range n.Tables {
			b.addTableName(t, "")
		}
	case *ast.ExplainStmt:
		b.stmt.Kind = statement.KindExplain
		if n.Stmt != nil {
			b.collectTables(n.Stmt)
		}
	case *ast.KillStmt:
		b.stmt.Kind = statement.KindKill

	case *ast.GrantStmt:
		b.stmt.Kind = statement.KindGrant
		b.bindGrantLevel(n.Level)
	case *ast.RevokeStmt:
		b.stmt.Kind = statement.KindRevoke
		b.bindGrantLevel(n.Level)
	case *ast.CreateUserStmt:
		b.stmt.Kind = statement.KindCreateUser
	case *ast.AlterUserStmt:
		b.stmt.Kind = statement.KindAlterUser
	case *ast.DropUserStmt:
		b.stmt.Kind = statement.KindDropUser
	case *ast.SetPwdStmt:
		b.stmt.Kind = statement.KindSetPassword

	default:
		return rerrors.Unsupported("statement %T is not supported", node)
	}
	return nil
}

func (b *binder) bindSelect(n *ast.SelectStmt) {
	b.stmt.Kind = statement.KindSelect
	if n.From != nil {
		b.collectTables(n.From)
	}
	if n.Where != nil {
		b.collectTables(n.Where)
	}
	if n.Fields != nil {
		b.collectTables(n.Fields)
	}
	if n.Having != nil {
		b.collectTables(n.Having)
	}
	b.stmt.Where = b.expr(n.Where)
	b.stmt.Limit = b.limit(n.Limit)
}

func (b *binder) bindUnion(n *ast.UnionStmt) {
	b.stmt.Kind = statement.KindSelect
	b.stmt.Combine = true
	if n.SelectList != nil {
		b.collectTables(n.SelectList)
	}
	b.stmt.Limit = b.limit(n.Limit)
}

func (b *binder) bindInsert(n *ast.InsertStmt) error {
	b.stmt.Kind = statement.KindInsert
	if n.Table != nil {
		b.collectTables(n.Table)
	}
	for _, c := range n.Columns {
		b.stmt.InsertColumns = append(b.stmt.InsertColumns, c.Name.L)
	}
	for _, list := range n.Lists {
		row := make([]statement.Value, len(list))
		for i, e := range list {
			row[i] = b.value(e)
		}
		b.stmt.InsertRows = append(b.stmt.InsertRows, row)
	}
	b.stmt.Assignments = b.assignments(n.Setlist)
	b.stmt.OnDuplicate = b.assignments(n.OnDuplicate)

	if n.Select != nil {
		selectNode, ok := n.Select.(ast.StmtNode)
		if !ok {
			return rerrors.Unsupported("insert from %T is not supported", n.Select)
		}
		sub := b.sub()
		if err := sub.bind(selectNode); err != nil {
			return err
		}
		b.stmt.InsertSelect = sub.stmt
		for _, t := range sub.stmt.Tables {
			b.addTable(t)
		}
	}
	return nil
}

func (b *binder) bindUpdate(n *ast.UpdateStmt) {
	b.stmt.Kind = statement.KindUpdate
	if n.TableRefs != nil {
		b.collectTables(n.TableRefs)
	}
	if n.Where != nil {
		b.collectTables(n.Where)
	}
	b.stmt.Assignments = b.assignments(n.List)
	b.stmt.Where = b.expr(n.Where)
	b.stmt.Limit = b.limit(n.Limit)
}

func (b *binder) bindDelete(n *ast.DeleteStmt) {
	b.stmt.Kind = statement.KindDelete
	if n.TableRefs != nil {
		b.collectTables(n.TableRefs)
	}
	if n.Where != nil {
		b.collectTables(n.Where)
	}
	b.stmt.Where = b.expr(n.Where)
	b.stmt.Limit = b.limit(n.Limit)
}

func (b *binder) bindPrepare(n *ast.PrepareStmt) error {
	b.stmt.Kind = statement.KindPrepare
	if n.SQLText == "" {
		return nil
	}
	inner, err := Bind(n.SQLText)
	if err != nil {
		return err
	}
	b.stmt.Prepared = inner
	for _, t := range inner.Tables {
		b.addTable(t)
	}
	return nil
}

func (b *binder) bindShow(n *ast.ShowStmt) {
	switch n.Tp {
	case ast.ShowDatabases:
		b.stmt.Kind = statement.KindShowDatabases
	case ast.ShowTables:
		b.stmt.Kind = statement.KindShowTables
	case ast.ShowColumns:
		b.stmt.Kind = statement.KindShowColumns
	default:
		b.stmt.Kind = statement.KindShowOther
	}
	if n.Table != nil {
		b.addTableName(n.Table, "")
	}
}

// bindGrantLevel keeps the table of a table level privilege, other levels have no table.
func (b *binder) bindGrantLevel(level *ast.GrantLevel) {
	if level == nil || level.Level != ast.GrantLevelTable {
		b.stmt.Wildcard = true
		return
	}
	b.stmt.Wildcard = level.TableName == "*"
	b.addTable(statement.TableRef{Schema: level.DBName, Name: level.TableName})
}

func (b *binder) assignments(list []*ast.Assignment) []statement.Assignment {
	if len(list) == 0 {
		return nil
	}
	result := make([]statement.Assignment, len(list))
	for i, a := range list {
		result[i] = statement.Assignment{Column: columnRef(a.Column), Value: b.value(a.Expr)}
	}
	return result
}

func (b *binder) limit(l *ast.Limit) *statement.Limit {
	if l == nil {
		return nil
	}
	result := &statement.Limit{Count: b.value(l.Count)}
	if l.Offset != nil {
		offset := b.value(l.Offset)
		result.Offset = &offset
	}
	return result
}
