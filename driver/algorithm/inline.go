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

package algorithm

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/endink/go-sharding-router/core"
	"github.com/endink/go-sharding-router/core/script"
)

const (
	InlineType = "INLINE"

	ExpressionProperty      = "algorithm-expression"
	AllowRangeQueryProperty = "allow-range-query"

	// HintVariable is the variable holding a hint value in an inline expression.
	HintVariable = "value"
)

var _ StandardShardingAlgorithm = &Inline{}
var _ ComplexShardingAlgorithm = &Inline{}
var _ HintShardingAlgorithm = &Inline{}

// Inline evaluates an inline expression such as "t_order_${order_id % 4}".
type Inline struct {
	Expression string
	AllowRange bool
	compiled   sync.Map
}

func (i *Inline) GetType() string {
	return InlineType
}

func (i *Inline) Init(props core.Properties) error {
	if err := props.MustHave(ExpressionProperty); err != nil {
		return err
	}
	i.Expression = props.GetString(ExpressionProperty, "")
	allow, err := props.GetBool(AllowRangeQueryProperty, false)
	if err != nil {
		return err
	}
	i.AllowRange = allow
	return nil
}

func (i *Inline) BindColumns(columns []string) error {
	_, err := i.expression(columns...)
	return err
}

func (i *Inline) expression(columns ...string) (script.InlineExpression, error) {
	names := append([]string(nil), columns...)
	sort.Strings(names)
	key := strings.Join(names, ",")
	if v, ok := i.compiled.Load(key); ok {
		return v.(script.InlineExpression), nil
	}
	expr, err := script.NewInlineExpression(i.Expression, names...)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration property '%s' for inline algorithm\n%v", ExpressionProperty, err)
	}
	v, _ := i.compiled.LoadOrStore(key, expr)
	return v.(script.InlineExpression), nil
}

func (i *Inline) DoPreciseSharding(_ []string, column string, value interface{}) (string, error) {
	expr, err := i.expression(column)
	if err != nil {
		return "", err
	}
	return expr.FlatScalar(script.NewVariable(column, value))
}

func (i *Inline) DoRangeSharding(availableTargets []string, column string, r core.Range) ([]string, error) {
	if !i.AllowRange {
		return nil, fmt.Errorf("inline sharding algorithm can not tackle with range query on column '%s' %s, set '%s' to route it to all targets", column, r, AllowRangeQueryProperty)
	}
	return availableTargets, nil
}

func (i *Inline) DoComplexSharding(availableTargets []string, values *core.ShardingValues) ([]string, error) {
	if len(values.RangeValues) > 0 {
		if !i.AllowRange {
			return nil, errors.New("inline sharding algorithm can not tackle with range query")
		}
		return availableTargets, nil
	}
	columns := values.Columns()
	lists := make([][]interface{}, len(columns))
	for idx, c := range columns {
		lists[idx] = values.ScalarValues[c]
	}
	expr, err := i.expression(columns...)
	if err != nil {
		return nil, err
	}

	var result []string
	for _, row := range core.Permute(lists) {
		vars := make([]*script.Variable, len(columns))
		for idx, c := range columns {
			vars[idx] = script.NewVariable(c, row[idx])
		}
		target, err := expr.FlatScalar(vars...)
		if err != nil {
			return nil, err
		}
		result = append(result, target)
	}
	return result, nil
}

func (i *Inline) DoHintSharding(_ []string, values []interface{}) ([]string, error) {
	expr, err := i.expression(HintVariable)
	if err != nil {
		return nil, err
	}
	result := make([]string, 0, len(values))
	for _, v := range values {
		target, err := expr.FlatScalar(script.NewVariable(HintVariable, v))
		if err != nil {
			return nil, err
		}
		result = append(result, target)
	}
	return result, nil
}
