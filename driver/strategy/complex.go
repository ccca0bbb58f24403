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
	"fmt"

	"github.com/endink/go-sharding-router/core"
	"github.com/endink/go-sharding-router/driver/algorithm"
)

var _ core.ShardingStrategy = &Complex{}

// Complex shards by several columns at once, the algorithm sees the values of every column.
type Complex struct {
	Columns   []string
	Algorithm algorithm.ComplexShardingAlgorithm
}

func (c *Complex) GetShardingColumns() []string {
	return c.Columns
}

// Shard routes to every source unless all sharding columns carry a value.
func (c *Complex) Shard(sources []string, values *core.ShardingValues) ([]string, error) {
	if values == nil {
		return sources, nil
	}
	columnValues := core.NewShardingValues(values.TableName)
	for _, col := range c.Columns {
		if list, ok := values.ScalarValues[col]; ok {
			for _, v := range list {
				if v == nil {
					return nil, fmt.Errorf("sharding column '%s' of table '%s' can not be null", col, values.TableName)
				}
			}
			columnValues.AddScalar(col, list...)
		} else if r, ok := values.RangeValues[col]; ok {
			columnValues.SetRange(col, r)
		} else {
			return sources, nil
		}
	}
	targets, err := c.Algorithm.DoComplexSharding(sources, columnValues)
	if err != nil {
		return nil, err
	}
	return keepSourceOrder(sources, targets)
}

var _ core.ShardingStrategy = &Hint{}

// Hint shards by values given out of the statement.
type Hint struct {
	Algorithm algorithm.HintShardingAlgorithm
}

func (h *Hint) GetShardingColumns() []string {
	return nil
}

func (h *Hint) Shard(sources []string, values *core.ShardingValues) ([]string, error) {
	if values == nil || len(values.HintValues) == 0 {
		return sources, nil
	}
	targets, err := h.Algorithm.DoHintSharding(sources, values.HintValues)
	if err != nil {
		return nil, err
	}
	return keepSourceOrder(sources, targets)
}
