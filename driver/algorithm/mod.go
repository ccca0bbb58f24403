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
	"github.com/endink/go-sharding-router/core"
	"github.com/endink/go-sharding-router/core/comparison"
)

const (
	ModType               = "MOD"
	ShardingCountProperty = "sharding-count"
)

var _ StandardShardingAlgorithm = &Mod{}

// Mod routes an integer value to the target suffixed with value % sharding-count.
type Mod struct {
	Count int
}

func (m *Mod) GetType() string {
	return ModType
}

func (m *Mod) Init(props core.Properties) error {
	if err := props.MustHave(ShardingCountProperty); err != nil {
		return err
	}
	count, err := props.GetInt(ShardingCountProperty, 0)
	if err != nil {
		return err
	}
	m.Count = count
	return shardingCount(count)
}

func (m *Mod) DoPreciseSharding(availableTargets []string, column string, value interface{}) (string, error) {
	v, err := integralValue(column, value)
	if err != nil {
		return "", err
	}
	return targetBySuffix(availableTargets, abs(v%int64(m.Count)))
}

// DoRangeSharding enumerates a bounded integer range shorter than the sharding count, any other range hits every target.
func (m *Mod) DoRangeSharding(availableTargets []string, column string, r core.Range) ([]string, error) {
	if !r.HasLower() || !r.HasUpper() {
		return availableTargets, nil
	}
	lower, okL := comparison.ToInt64(r.LowerBound())
	upper, okU := comparison.ToInt64(r.UpperBound())
	if !okL || !okU {
		return availableTargets, nil
	}
	if !r.LowerClosed() {
		lower++
	}
	if !r.UpperClosed() {
		upper--
	}
	if upper < lower {
		return nil, nil
	}
	if upper-lower+1 >= int64(m.Count) {
		return availableTargets, nil
	}
	var result []string
	for v := lower; v <= upper; v++ {
		target, err := m.DoPreciseSharding(availableTargets, column, v)
		if err != nil {
			return nil, err
		}
		result = append(result, target)
	}
	return result, nil
}
