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
	"github.com/endink/go-sharding-router/statement"
	"github.com/pingcap/parser/ast"
)

func (b *binder) ddl() *statement.DDLDetail {
	if b.stmt.DDL == nil {
		b.stmt.DDL = &statement.DDLDetail{}
	}
	return b.stmt.DDL
}

func (b *binder) addReference(t *ast.TableName) {
	if t == nil {
		return
	}
	b.addTableName(t, "")
	b.ddl().ReferencedTables = append(b.ddl().ReferencedTables, t.Name.L)
}

func (b *binder) bindCreateTable(n *ast.CreateTableStmt) {
	b.stmt.Kind = statement.KindCreateTable
	b.addTableName(n.Table, "")
	ddl := b.ddl()
	ddl.IfNotExists = n.IfNotExists
	for _, col := range n.Cols {
		if col.Name != nil {
			ddl.Columns = append(ddl.Columns, col.Name.Name.L)
		}
	}
	if n.ReferTable != nil {
		b.addReference(n.ReferTable)
	}
	for _, c := range n.Constraints {
		if c.Tp == ast.ConstraintForeignKey && c.Refer != nil {
			b.addReference(c.Refer.Table)
		}
	}
	if n.Select != nil {
		b.collectTables(n.Select)
	}
}

func (b *binder) bindAlterTable(n *ast.AlterTableStmt) {
	b.stmt.Kind = statement.KindAlterTable
	b.addTableName(n.Table, "")
	ddl := b.ddl()
	for _, spec := range n.Specs {
		switch spec.Tp {
		case ast.AlterTableAddColumns:
			for _, col := range spec.NewColumns {
				ddl.Columns = append(ddl.Columns, col.Name.Name.L)
			}
		case ast.AlterTableDropColumn:
			if spec.OldColumnName != nil {
				ddl.DroppedColumns = append(ddl.DroppedColumns, spec.OldColumnName.Name.L)
			}
		case ast.AlterTableModifyColumn:
			for _, col := range spec.NewColumns {
				ddl.ChangedColumns = append(ddl.ChangedColumns, col.Name.Name.L)
			}
		case ast.AlterTableChangeColumn, ast.AlterTableRenameColumn:
			if spec.OldColumnName != nil {
				ddl.ChangedColumns = append(ddl.ChangedColumns, spec.OldColumnName.Name.L)
			}
		case ast.AlterTableRenameTable:
			if spec.NewTable != nil {
				ddl.RenameTo = spec.NewTable.Name.L
				b.addTableName(spec.NewTable, "")
			}
		case ast.AlterTableAddConstraint:
			if spec.Constraint != nil && spec.Constraint.Tp == ast.ConstraintForeignKey && spec.Constraint.Refer != nil {
				b.addReference(spec.Constraint.Refer.Table)
			}
		}
	}
}

func (b *binder) bindDropTable(n *ast.DropTableStmt) {
	b.stmt.Kind = statement.KindDropTable
	if n.IsView {
		b.stmt.Kind = statement.KindDropView
	}
	for _, t := range n.Tables {
		b.addTableName(t, "")
	}
	b.ddl().IfExists = n.IfExists
}

func (b *binder) bindRenameTable(n *ast.RenameTableStmt) {
	b.stmt.Kind = statement.KindRenameTable
	ddl := b.ddl()
	for _, tt := range n.TableToTables {
		b.addTableName(tt.OldTable, "")
		b.addTableName(tt.NewTable, "")
		ddl.Renames = append(ddl.Renames, statement.Rename{From: tt.OldTable.Name.L, To: tt.NewTable.Name.L})
	}
}

func (b *binder) bindCreateIndex(n *ast.CreateIndexStmt) {
	b.stmt.Kind = statement.KindCreateIndex
	b.addTableName(n.Table, "")
	b.stmt.DDL = &statement.DDLDetail{
		IfNotExists:  n.IfNotExists,
		IndexName:    n.IndexName,
		UniqueIndex:  n.KeyType == ast.IndexKeyTypeUnique,
		IndexColumns: columnNames(n),
	}
}

func (b *binder) bindCreateView(n *ast.CreateViewStmt) {
	b.stmt.Kind = statement.KindCreateView
	b.addTableName(n.ViewName, "")
	if n.Select == nil {
		return
	}
	sub := b.sub()
	sub.collectTables(n.Select)
	ddl := b.ddl()
	for _, t := range sub.stmt.Tables {
		ddl.ViewTables = append(ddl.ViewTables, t.Name)
		b.addTable(t)
	}
}
