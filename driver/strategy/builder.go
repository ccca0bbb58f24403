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

package strategy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/endink/go-sharding-router/core"
	"github.com/endink/go-sharding-router/driver/algorithm"
)

const (
	ShardingColumnPropertyName  = "sharding-column"
	ShardingColumnsPropertyName = "sharding-columns"
	AlgorithmPropertyName       = "sharding-algorithm-name"
	ExpressionPropertyName      = "algorithm-expression"
)

// Config selects one of the strategies, at most one member may be set.
type Config struct {
	Standard *StandardConfig `yaml:"standard" toml:"standard"`
	Complex  *ComplexConfig  `yaml:"complex" toml:"complex"`
	Hint     *HintConfig     `yaml:"hint" toml:"hint"`
	Inline   *InlineConfig   `yaml:"inline" toml:"inline"`
	None     *NoneConfig     `yaml:"none" toml:"none"`
}

type StandardConfig struct {
	ShardingColumn string `yaml:"sharding-column" toml:"sharding-column"`
	AlgorithmName  string `yaml:"sharding-algorithm-name" toml:"sharding-algorithm-name"`
}

type ComplexConfig struct {
	ShardingColumns string `yaml:"sharding-columns" toml:"sharding-columns"`
	AlgorithmName   string `yaml:"sharding-algorithm-name" toml:"sharding-algorithm-name"`
}

type HintConfig struct {
	AlgorithmName string `yaml:"sharding-algorithm-name" toml:"sharding-algorithm-name"`
}

// InlineConfig is a shortcut declaring an INLINE algorithm in place.
type InlineConfig struct {
	ShardingColumns string `yaml:"sharding-columns" toml:"sharding-columns"`
	Expression      string `yaml:"algorithm-expression" toml:"algorithm-expression"`
	AllowRangeQuery bool   `yaml:"allow-range-query" toml:"allow-range-query"`
}

type NoneConfig struct {
}

// Build creates the strategy, a nil or empty config gives core.NoneShardingStrategy.
func (c *Config) Build(algorithms map[string]algorithm.ShardingAlgorithm) (core.ShardingStrategy, error) {
	if c == nil {
		return core.NoneShardingStrategy, nil
	}
	count := 0
	for _, set := range []bool{c.Standard != nil, c.Complex != nil, c.Hint != nil, c.Inline != nil, c.None != nil} {
		if set {
			count++
		}
	}
	if count > 1 {
		return nil, errors.New("only one of standard, complex, hint, inline or none strategy can be configured")
	}
	var s core.ShardingStrategy
	var err error
	switch {
	case c.Standard != nil:
		s, err = c.Standard.Build(algorithms)
	case c.Complex != nil:
		s, err = c.Complex.Build(algorithms)
	case c.Hint != nil:
		s, err = c.Hint.Build(algorithms)
	case c.Inline != nil:
		s, err = c.Inline.Build()
	default:
		s = core.NoneShardingStrategy
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (c *StandardConfig) Build(algorithms map[string]algorithm.ShardingAlgorithm) (*Standard, error) {
	columns, err := parseColumnsExpression(ShardingColumnPropertyName, c.ShardingColumn)
	if err != nil {
		return nil, err
	}
	if len(columns) != 1 {
		return nil, fmt.Errorf("standard strategy requires exactly one column in '%s'", ShardingColumnPropertyName)
	}
	alg, err := lookupAlgorithm(algorithms, c.AlgorithmName)
	if err != nil {
		return nil, err
	}
	std, ok := alg.(algorithm.StandardShardingAlgorithm)
	if !ok {
		return nil, fmt.Errorf("sharding algorithm '%s' of type '%s' can not be used by standard strategy", c.AlgorithmName, alg.GetType())
	}
	if err = bindColumns(alg, columns); err != nil {
		return nil, err
	}
	return &Standard{Column: columns[0], Algorithm: std}, nil
}

func (c *ComplexConfig) Build(algorithms map[string]algorithm.ShardingAlgorithm) (*Complex, error) {
	columns, err := parseColumnsExpression(ShardingColumnsPropertyName, c.ShardingColumns)
	if err != nil {
		return nil, err
	}
	alg, err := lookupAlgorithm(algorithms, c.AlgorithmName)
	if err != nil {
		return nil, err
	}
	complexAlg, ok := alg.(algorithm.ComplexShardingAlgorithm)
	if !ok {
		return nil, fmt.Errorf("sharding algorithm '%s' of type '%s' can not be used by complex strategy", c.AlgorithmName, alg.GetType())
	}
	if err = bindColumns(alg, columns); err != nil {
		return nil, err
	}
	return &Complex{Columns: columns, Algorithm: complexAlg}, nil
}

func (c *HintConfig) Build(algorithms map[string]algorithm.ShardingAlgorithm) (*Hint, error) {
	alg, err := lookupAlgorithm(algorithms, c.AlgorithmName)
	if err != nil {
		return nil, err
	}
	hintAlg, ok := alg.(algorithm.HintShardingAlgorithm)
	if !ok {
		return nil, fmt.Errorf("sharding algorithm '%s' of type '%s' can not be used by hint strategy", c.AlgorithmName, alg.GetType())
	}
	if err = bindColumns(alg, []string{algorithm.HintVariable}); err != nil {
		return nil, err
	}
	return &Hint{Algorithm: hintAlg}, nil
}

func (c *InlineConfig) Build() (core.ShardingStrategy, error) {
	columns, err := parseColumnsExpression(ShardingColumnsPropertyName, c.ShardingColumns)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(c.Expression) == "" {
		return nil, fmt.Errorf("configuration property '%s' missed for inline strategy", ExpressionPropertyName)
	}
	alg := &algorithm.Inline{Expression: c.Expression, AllowRange: c.AllowRangeQuery}
	if err = alg.BindColumns(columns); err != nil {
		return nil, err
	}
	if len(columns) == 1 {
		return &Standard{Column: columns[0], Algorithm: alg}, nil
	}
	return &Complex{Columns: columns, Algorithm: alg}, nil
}

func lookupAlgorithm(algorithms map[string]algorithm.ShardingAlgorithm, name string) (algorithm.ShardingAlgorithm, error) {
	n := strings.TrimSpace(name)
	if n == "" {
		return nil, fmt.Errorf("configuration property '%s' missed", AlgorithmPropertyName)
	}
	alg, ok := algorithms[n]
	if !ok {
		return nil, fmt.Errorf("sharding algorithm '%s' is not defined", n)
	}
	return alg, nil
}

func bindColumns(alg algorithm.ShardingAlgorithm, columns []string) error {
	if aware, ok := alg.(algorithm.ColumnAware); ok {
		return aware.BindColumns(columns)
	}
	return nil
}

func parseColumnsExpression(property string, columnsExpr string) ([]string, error) {
	columns := core.TrimAndLowerArray(core.SplitAndTrim(columnsExpr, ","))
	if len(columns) == 0 {
		return nil, fmt.Errorf("invalid configuration property '%s' for sharding strategy, have no columns can be parsed", property)
	}

	for _, col := range columns {
		if err := core.ValidateIdentifier(col); err != nil {
			return nil, fmt.Errorf("invalid configuration property '%s' for sharding strategy, invalid column name '%s'", property, col)
		}
	}
	return columns, nil
}
