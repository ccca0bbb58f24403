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
	"github.com/pingcap/parser/opcode"
	"github.com/pingcap/tidb/types"
	driver "github.com/pingcap/tidb/types/parser_driver"
)

var compareOps = map[opcode.Op]statement.CompareOp{
	opcode.EQ: statement.OpEQ,
	opcode.GT: statement.OpGT,
	opcode.GE: statement.OpGE,
	opcode.LT: statement.OpLT,
	opcode.LE: statement.OpLE,
}

// expr converts a predicate, anything which can not drive routing becomes an opaque expression.
func (b *binder) expr(node ast.ExprNode) statement.Expr {
	if node == nil {
		return nil
	}
	switch n := node.(type) {
	case *ast.ParenthesesExpr:
		return b.expr(n.Expr)
	case *ast.BinaryOperationExpr:
		switch n.Op {
		case opcode.LogicAnd:
			return &statement.AndExpr{Items: b.flatten(opcode.LogicAnd, n)}
		case opcode.LogicOr:
			return &statement.OrExpr{Items: b.flatten(opcode.LogicOr, n)}
		}
		if op, ok := compareOps[n.Op]; ok {
			if c, ok := n.L.(*ast.ColumnNameExpr); ok && isValue(n.R) {
				return &statement.CompareExpr{Column: columnRef(c.Name), Op: op, Value: b.value(n.R)}
			}
			if c, ok := n.R.(*ast.ColumnNameExpr); ok && isValue(n.L) {
				return &statement.CompareExpr{Column: columnRef(c.Name), Op: op.Reverse(), Value: b.value(n.L)}
			}
		}
	case *ast.PatternInExpr:
		if c, ok := n.Expr.(*ast.ColumnNameExpr); ok && n.Sel == nil {
			values := make([]statement.Value, len(n.List))
			for i, item := range n.List {
				values[i] = b.value(item)
			}
			return &statement.InExpr{Column: columnRef(c.Name), Values: values, Not: n.Not}
		}
	case *ast.BetweenExpr:
		if c, ok := n.Expr.(*ast.ColumnNameExpr); ok {
			return &statement.BetweenExpr{Column: columnRef(c.Name), Low: b.value(n.Left), High: b.value(n.Right), Not: n.Not}
		}
	}
	return &statement.OpaqueExpr{Text: restore(node)}
}

func (b *binder) flatten(op opcode.Op, node ast.ExprNode) []statement.Expr {
	if p, ok := node.(*ast.ParenthesesExpr); ok {
		return b.flatten(op, p.Expr)
	}
	if bin, ok := node.(*ast.BinaryOperationExpr); ok && bin.Op == op {
		return append(b.flatten(op, bin.L), b.flatten(op, bin.R)...)
	}
	return []statement.Expr{b.expr(node)}
}

func isValue(node ast.ExprNode) bool {
	switch n := node.(type) {
	case *driver.ValueExpr, *driver.ParamMarkerExpr:
		return true
	case *ast.UnaryOperationExpr:
		return n.Op == opcode.Minus && isValue(n.V)
	case *ast.ParenthesesExpr:
		return isValue(n.Expr)
	}
	return false
}

// value converts a constant, a '?' marker, or keeps the sql text of anything else.
func (b *binder) value(node ast.ExprNode) statement.Value {
	switch n := node.(type) {
	case *driver.ParamMarkerExpr:
		return statement.ParamValue(b.params[n.Offset])
	case *driver.ValueExpr:
		if v, ok := literal(n); ok {
			return statement.LiteralValue(v)
		}
	case *ast.ParenthesesExpr:
		return b.value(n.Expr)
	case *ast.UnaryOperationExpr:
		if n.Op == opcode.Minus {
			if v, ok := n.V.(*driver.ValueExpr); ok {
				if lit, ok := literal(v); ok {
					if neg, ok := negate(lit); ok {
						return statement.LiteralValue(neg)
					}
				}
			}
		}
	}
	if node == nil {
		return statement.LiteralValue(nil)
	}
	return statement.ExpressionValue(restore(node))
}

func literal(v *driver.ValueExpr) (interface{}, bool) {
	switch v.Kind() {
	case types.KindNull:
		return nil, true
	case types.KindInt64:
		return v.GetInt64(), true
	case types.KindUint64:
		return v.GetUint64(), true
	case types.KindFloat32:
		return float64(v.GetFloat32()), true
	case types.KindFloat64:
		return v.GetFloat64(), true
	case types.KindString, types.KindBytes:
		return v.GetString(), true
	case types.KindMysqlDecimal:
		f, err := v.GetMysqlDecimal().ToFloat64()
		if err != nil {
			return nil, false
		}
		return f, true
	}
	return nil, false
}

func negate(v interface{}) (interface{}, bool) {
	switch x := v.(type) {
	case int64:
		return -x, true
	case uint64:
		return -int64(x), true
	case float64:
		return -x, true
	}
	return nil, false
}
