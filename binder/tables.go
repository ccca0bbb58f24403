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
	"strings"

	"github.com/endink/go-sharding-router/statement"
	"github.com/pingcap/parser/ast"
)

func (b *binder) addTable(ref statement.TableRef) {
	ref.Name = strings.ToLower(ref.Name)
	ref.Schema = strings.ToLower(ref.Schema)
	ref.Alias = strings.ToLower(ref.Alias)
	if ref.Name == "" {
		return
	}
	for _, t := range b.stmt.Tables {
		if t == ref {
			return
		}
	}
	b.stmt.Tables = append(b.stmt.Tables, ref)
}

func (b *binder) addTableName(t *ast.TableName, alias string) {
	if t == nil {
		return
	}
	b.addTable(statement.TableRef{Schema: t.Schema.L, Name: t.Name.L, Alias: alias})
}

// collectTables adds every table referenced under the nodes, subqueries included.
func (b *binder) collectTables(nodes ...ast.Node) {
	Walk(func(n ast.Node) bool {
		switch x := n.(type) {
		case *ast.TableSource:
			if tn, ok := x.Source.(*ast.TableName); ok {
				b.addTableName(tn, x.AsName.L)
				return false
			}
		case *ast.TableName:
			b.addTableName(x, "")
		}
		return true
	}, nodes...)
}

func columnRef(c *ast.ColumnName) statement.ColumnRef {
	if c == nil {
		return statement.ColumnRef{}
	}
	return statement.ColumnRef{Table: c.Table.L, Name: c.Name.L}
}

func columnNames(nodes ...ast.Node) []string {
	var names []string
	Walk(func(n ast.Node) bool {
		if c, ok := n.(*ast.ColumnName); ok {
			names = append(names, c.Name.L)
		}
		return true
	}, nodes...)
	return names
}
