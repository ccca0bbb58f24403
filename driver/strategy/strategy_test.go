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
	"github.com/endink/go-sharding-router/core"
	"github.com/endink/go-sharding-router/driver/algorithm"
	mock_algorithm "github.com/endink/go-sharding-router/driver/algorithm/mock"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

var tables = []string{"t_order_0", "t_order_1", "t_order_2", "t_order_3"}

func TestStandardPreciseKeepsSourceOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	alg := mock_algorithm.NewMockStandardShardingAlgorithm(ctrl)
	alg.EXPECT().DoPreciseSharding(tables, "order_id", 7).Return("t_order_3", nil)
	alg.EXPECT().DoPreciseSharding(tables, "order_id", 4).Return("t_order_0", nil)
	alg.EXPECT().DoPreciseSharding(tables, "order_id", 8).Return("t_order_0", nil)

	s := &Standard{Column: "order_id", Algorithm: alg}
	values := core.NewShardingValues("t_order")
	values.AddScalar("order_id", 7, 4, 8)

	targets, err := s.Shard(tables, values)
	assert.NoError(t, err)
	assert.Equal(t, []string{"t_order_0", "t_order_3"}, targets)
}

func TestStandardRange(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r, err := core.NewRange(1, 2)
	require.NoError(t, err)

	alg := mock_algorithm.NewMockStandardShardingAlgorithm(ctrl)
	alg.EXPECT().DoRangeSharding(tables, "order_id", r).Return([]string{"t_order_2", "t_order_1"}, nil)

	s := &Standard{Column: "order_id", Algorithm: alg}
	values := core.NewShardingValues("t_order")
	values.SetRange("order_id", r)

	targets, err := s.Shard(tables, values)
	assert.NoError(t, err)
	assert.Equal(t, []string{"t_order_1", "t_order_2"}, targets)
}

func TestStandardErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	alg := mock_algorithm.NewMockStandardShardingAlgorithm(ctrl)
	alg.EXPECT().DoPreciseSharding(tables, "order_id", 1).Return("t_order_9", nil)
	alg.EXPECT().DoPreciseSharding(tables, "order_id", 2).Return("", errors.New("boom"))

	s := &Standard{Column: "order_id", Algorithm: alg}

	_, err := s.Shard(tables, core.ShardingValuesForSingleScalar("t_order", "order_id", nil))
	assert.Error(t, err, "null sharding value")

	_, err = s.Shard(tables, core.ShardingValuesForSingleScalar("t_order", "order_id", 1))
	assert.Error(t, err, "target outside of topology")

	_, err = s.Shard(tables, core.ShardingValuesForSingleScalar("t_order", "order_id", 2))
	assert.EqualError(t, err, "boom")
}

func TestStandardWithoutValues(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := &Standard{Column: "order_id", Algorithm: mock_algorithm.NewMockStandardShardingAlgorithm(ctrl)}
	targets, err := s.Shard(tables, core.ShardingValuesForSingleScalar("t_order", "user_id", 1))
	assert.NoError(t, err)
	assert.Equal(t, tables, targets)

	targets, err = s.Shard(tables, nil)
	assert.NoError(t, err)
	assert.Equal(t, tables, targets)
}

func TestInlineConfigBuild(t *testing.T) {
	cfg := &Config{Inline: &InlineConfig{ShardingColumns: "Order_ID", Expression: "t_order_${order_id % 4}"}}
	s, err := cfg.Build(nil)
	require.NoError(t, err)

	std, ok := s.(*Standard)
	require.True(t, ok)
	assert.Equal(t, []string{"order_id"}, std.GetShardingColumns())

	targets, err := s.Shard(tables, core.ShardingValuesForSingleScalar("t_order", "order_id", 6))
	assert.NoError(t, err)
	assert.Equal(t, []string{"t_order_2"}, targets)
}

func TestComplexInline(t *testing.T) {
	cfg := &Config{Inline: &InlineConfig{ShardingColumns: "user_id, order_id", Expression: "t_order_${(user_id + order_id) % 4}"}}
	s, err := cfg.Build(nil)
	require.NoError(t, err)
	_, ok := s.(*Complex)
	require.True(t, ok)

	values := core.NewShardingValues("t_order")
	values.AddScalar("user_id", 1)
	targets, err := s.Shard(tables, values)
	assert.NoError(t, err)
	assert.Equal(t, tables, targets, "partial columns hit every table")

	values.AddScalar("order_id", 2)
	targets, err = s.Shard(tables, values)
	assert.NoError(t, err)
	assert.Equal(t, []string{"t_order_3"}, targets)
}

func TestNamedAlgorithms(t *testing.T) {
	mod, err := algorithm.New(algorithm.ModType, core.PropertiesOf(map[string]string{"sharding-count": "4"}))
	require.NoError(t, err)
	hint, err := algorithm.New(algorithm.InlineType, core.PropertiesOf(map[string]string{"algorithm-expression": "t_order_${value}"}))
	require.NoError(t, err)
	algorithms := map[string]algorithm.ShardingAlgorithm{"mod": mod, "hint": hint}

	s, err := (&Config{Standard: &StandardConfig{ShardingColumn: "order_id", AlgorithmName: "mod"}}).Build(algorithms)
	require.NoError(t, err)
	targets, err := s.Shard(tables, core.ShardingValuesForSingleScalar("t_order", "order_id", 5))
	assert.NoError(t, err)
	assert.Equal(t, []string{"t_order_1"}, targets)

	s, err = (&Config{Hint: &HintConfig{AlgorithmName: "hint"}}).Build(algorithms)
	require.NoError(t, err)
	values := core.NewShardingValues("t_order")
	values.HintValues = []interface{}{2}
	targets, err = s.Shard(tables, values)
	assert.NoError(t, err)
	assert.Equal(t, []string{"t_order_2"}, targets)

	_, err = (&Config{Complex: &ComplexConfig{ShardingColumns: "a,b", AlgorithmName: "mod"}}).Build(algorithms)
	assert.Error(t, err, "mod is not a complex algorithm")

	_, err = (&Config{Standard: &StandardConfig{ShardingColumn: "order_id", AlgorithmName: "missing"}}).Build(algorithms)
	assert.Error(t, err)

	_, err = (&Config{Standard: &StandardConfig{ShardingColumn: "order_id"}, None: &NoneConfig{}}).Build(algorithms)
	assert.Error(t, err)
}

func TestNoneStrategy(t *testing.T) {
	var cfg *Config
	s, err := cfg.Build(nil)
	require.NoError(t, err)
	assert.Equal(t, core.NoneShardingStrategy, s)

	s, err = (&Config{None: &NoneConfig{}}).Build(nil)
	require.NoError(t, err)
	targets, err := s.Shard(tables, core.ShardingValuesForSingleScalar("t_order", "order_id", 1))
	assert.NoError(t, err)
	assert.Equal(t, tables, targets)
}
