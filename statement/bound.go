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

package statement

import (
	"fmt"
	"strings"
)

type TableRef struct {
	Schema string
	Name   string
	Alias  string
}

// ColumnRef is a column as written in the statement, Table is the qualifier (a table name or an alias).
type ColumnRef struct {
	Table string
	Name  string
}

func (c ColumnRef) String() string {
	if c.Table == "" {
		return c.Name
	}
	return c.Table + "." + c.Name
}

// Value is a literal, a '?' parameter, or an expression which can not be evaluated here.
type Value struct {
	Literal    interface{}
	ParamIndex int
	IsParam    bool
	Expression string
}

func LiteralValue(v interface{}) Value {
	return Value{Literal: v}
}

func ParamValue(index int) Value {
	return Value{ParamIndex: index, IsParam: true}
}

func ExpressionValue(text string) Value {
	return Value{Expression: text}
}

// IsResolvable is false for expressions.
func (v Value) IsResolvable() bool {
	return v.Expression == ""
}

// Resolve returns the literal or the bound parameter.
func (v Value) Resolve(params []interface{}) (interface{}, error) {
	if !v.IsResolvable() {
		return nil, fmt.Errorf("expression '%s' can not be resolved to a value", v.Expression)
	}
	if !v.IsParam {
		return v.Literal, nil
	}
	if v.ParamIndex < 0 || v.ParamIndex >= len(params) {
		return nil, fmt.Errorf("parameter %d is not bound, %d parameters given", v.ParamIndex+1, len(params))
	}
	return params[v.ParamIndex], nil
}

func (v Value) String() string {
	switch {
	case !v.IsResolvable():
		return v.Expression
	case v.IsParam:
		return fmt.Sprintf("?%d", v.ParamIndex)
	}
	return fmt.Sprint(v.Literal)
}

type Assignment struct {
	Column ColumnRef
	Value  Value
}

type Limit struct {
	Count  Value
	Offset *Value
}

type Cursor struct {
	Name     string
	CloseAll bool
}

type Rename struct {
	From string
	To   string
}

// DDLDetail carries the schema shapes the DDL checks need.
type DDLDetail struct {
	IfExists         bool
	IfNotExists      bool
	Columns          []string
	DroppedColumns   []string
	ChangedColumns   []string
	RenameTo         string
	Renames          []Rename
	ReferencedTables []string
	IndexName        string
	UniqueIndex      bool
	IndexColumns     []string
	ViewTables       []string
}

// Bound is a parsed statement with its tables, predicates and values resolved to names.
type Bound struct {
	SQL    string
	Kind   Kind
	Tables []TableRef
	Where  Expr

	Assignments   []Assignment
	OnDuplicate   []Assignment
	InsertColumns []string
	InsertRows    [][]Value
	InsertSelect  *Bound

	Limit      *Limit
	Cursor     *Cursor
	Combine    bool
	Wildcard   bool
	DDL        *DDLDetail
	// Prepared is the statement a PREPARE defines.
	Prepared   *Bound
	ParamCount int
}

func (b *Bound) Category() Category {
	return b.Kind.Category()
}

// TableNames returns the lower case table names in statement order without duplicates.
func (b *Bound) TableNames() []string {
	names := make([]string, 0, len(b.Tables))
	seen := make(map[string]struct{}, len(b.Tables))
	for _, t := range b.Tables {
		n := strings.ToLower(t.Name)
		if _, ok := seen[n]; !ok {
			seen[n] = struct{}{}
			names = append(names, n)
		}
	}
	return names
}

// ResolveTable maps a column qualifier to the table name, an alias wins over a table name.
func (b *Bound) ResolveTable(qualifier string) (string, bool) {
	q := strings.ToLower(qualifier)
	for _, t := range b.Tables {
		if t.Alias != "" && strings.ToLower(t.Alias) == q {
			return strings.ToLower(t.Name), true
		}
	}
	for _, t := range b.Tables {
		if strings.ToLower(t.Name) == q {
			return q, true
		}
	}
	return "", false
}

// HintValueContext carries sharding values given outside of the SQL text, keyed by logic table.
type HintValueContext struct {
	DatabaseValues map[string][]interface{}
	TableValues    map[string][]interface{}
}

func (h *HintValueContext) DatabaseHints(table string) []interface{} {
	if h == nil {
		return nil
	}
	return h.DatabaseValues[strings.ToLower(table)]
}

func (h *HintValueContext) TableHints(table string) []interface{} {
	if h == nil {
		return nil
	}
	return h.TableValues[strings.ToLower(table)]
}

// QueryContext is one execution of a bound statement.
type QueryContext struct {
	Statement *Bound
	Params    []interface{}
	Hint      *HintValueContext
}

func NewQueryContext(stmt *Bound, params ...interface{}) *QueryContext {
	return &QueryContext{Statement: stmt, Params: params}
}
