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

package script

import (
	"fmt"
	"strings"
)

var _ InlineExpression = &inlineExpr{}

// InlineExpression is a groovy-like template such as "ds_${0..1}.t_order_${range(0,3)}"
// or "t_order_${order_id % 4}".
type InlineExpression interface {
	// Flat evaluates every group and returns the distinct results in expression order.
	Flat(variables ...*Variable) ([]string, error)
	// FlatScalar requires the expression to produce exactly one value.
	FlatScalar(variables ...*Variable) (string, error)
	RawExpression() string
	VariableNames() []string
}

type inlineExpr struct {
	expression string
	segments   []*inlineSegmentGroup
	varsNames  []string
}

func (i *inlineExpr) RawExpression() string {
	return i.expression
}

func (i *inlineExpr) VariableNames() []string {
	return append([]string(nil), i.varsNames...)
}

func (i *inlineExpr) FlatScalar(variables ...*Variable) (string, error) {
	list, err := i.Flat(variables...)
	if err != nil {
		return "", err
	}
	if len(list) != 1 {
		return "", i.wrapExecuteError(fmt.Errorf("one value expected but %d returned", len(list)), variables...)
	}
	return list[0], nil
}

func (i *inlineExpr) Flat(variables ...*Variable) ([]string, error) {
	set := make(map[string]struct{})
	list := make([]string, 0)

	for _, g := range i.segments {
		var current []string
		for _, s := range g.segments {
			parts := []string{s.prefix}
			if s.script != nil {
				l, err := s.script.Execute(variables...)
				if err != nil {
					return nil, i.wrapExecuteError(err, variables...)
				}
				parts = flatFill(s.prefix, l...)
			}
			current = outJoin(current, parts)
		}
		for _, c := range current {
			if _, ok := set[c]; !ok {
				set[c] = struct{}{}
				list = append(list, c)
			}
		}
	}
	return list, nil
}

func (i *inlineExpr) wrapExecuteError(e error, vars ...*Variable) error {
	var sb strings.Builder
	sb.WriteString("inline sharding fault.\n")
	sb.WriteString(fmt.Sprintf("Script: %s\n", i.expression))
	sb.WriteString("Variables: ")
	if len(vars) > 0 {
		for idx, v := range vars {
			if idx > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(v.String())
		}
	} else {
		sb.WriteString("<none>")
	}
	sb.WriteString("\nError:\n")
	sb.WriteString(e.Error())

	return fmt.Errorf("%s", sb.String())
}

func NewInlineExpression(expression string, variables ...string) (InlineExpression, error) {
	return NewInlineExpressionWithValidator(expression, nil, variables...)
}

// NewInlineExpressionWithValidator validates every literal prefix with validator.
func NewInlineExpressionWithValidator(expression string, validator SegmentValidator, variables ...string) (InlineExpression, error) {
	expr := &inlineExpr{expression: expression, varsNames: variables}

	segments, err := splitSegments(expression, validator, variables...)
	if err != nil {
		return nil, err
	}
	expr.segments = segments
	return expr, nil
}
