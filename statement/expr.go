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

// Expr is a predicate of a WHERE clause, the shapes routing can not use are kept as OpaqueExpr.
type Expr interface {
	String() string
	expr()
}

type CompareOp int

const (
	OpEQ CompareOp = iota
	OpGT
	OpGE
	OpLT
	OpLE
)

var compareOpNames = []string{"=", ">", ">=", "<", "<="}

func (op CompareOp) String() string {
	if op < 0 || int(op) >= len(compareOpNames) {
		return "?"
	}
	return compareOpNames[op]
}

// Reverse gives the operator after swapping both sides, 1 < a becomes a > 1.
func (op CompareOp) Reverse() CompareOp {
	switch op {
	case OpGT:
		return OpLT
	case OpGE:
		return OpLE
	case OpLT:
		return OpGT
	case OpLE:
		return OpGE
	}
	return op
}

type AndExpr struct {
	Items []Expr
}

type OrExpr struct {
	Items []Expr
}

type CompareExpr struct {
	Column ColumnRef
	Op     CompareOp
	Value  Value
}

type InExpr struct {
	Column ColumnRef
	Values []Value
	Not    bool
}

type BetweenExpr struct {
	Column ColumnRef
	Low    Value
	High   Value
	Not    bool
}

type OpaqueExpr struct {
	Text string
}

func (*AndExpr) expr()     {}
func (*OrExpr) expr()      {}
func (*CompareExpr) expr() {}
func (*InExpr) expr()      {}
func (*BetweenExpr) expr() {}
func (*OpaqueExpr) expr()  {}

func (e *AndExpr) String() string {
	return joinExpr(e.Items, " AND ")
}

func (e *OrExpr) String() string {
	return joinExpr(e.Items, " OR ")
}

func (e *CompareExpr) String() string {
	return fmt.Sprintf("%s %s %s", e.Column, e.Op, e.Value)
}

func (e *InExpr) String() string {
	items := make([]string, len(e.Values))
	for i, v := range e.Values {
		items[i] = v.String()
	}
	not := ""
	if e.Not {
		not = "NOT "
	}
	return fmt.Sprintf("%s %sIN (%s)", e.Column, not, strings.Join(items, ", "))
}

func (e *BetweenExpr) String() string {
	not := ""
	if e.Not {
		not = "NOT "
	}
	return fmt.Sprintf("%s %sBETWEEN %s AND %s", e.Column, not, e.Low, e.High)
}

func (e *OpaqueExpr) String() string {
	return e.Text
}

func joinExpr(items []Expr, sep string) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = "(" + item.String() + ")"
	}
	return strings.Join(parts, sep)
}

// And joins the non nil predicates.
func And(items ...Expr) Expr {
	var list []Expr
	for _, item := range items {
		if item != nil {
			list = append(list, item)
		}
	}
	switch len(list) {
	case 0:
		return nil
	case 1:
		return list[0]
	}
	return &AndExpr{Items: list}
}

func Or(items ...Expr) Expr {
	var list []Expr
	for _, item := range items {
		if item != nil {
			list = append(list, item)
		}
	}
	switch len(list) {
	case 0:
		return nil
	case 1:
		return list[0]
	}
	return &OrExpr{Items: list}
}

func Eq(table, column string, v Value) Expr {
	return &CompareExpr{Column: ColumnRef{Table: table, Name: column}, Op: OpEQ, Value: v}
}
