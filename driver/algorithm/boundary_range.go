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
	"fmt"
	"sort"
	"strconv"

	"github.com/endink/go-sharding-router/core"
	"github.com/endink/go-sharding-router/core/comparison"
)

const (
	BoundaryRangeType      = "BOUNDARY_RANGE"
	ShardingRangesProperty = "sharding-ranges"
)

var _ StandardShardingAlgorithm = &BoundaryRange{}

// BoundaryRange splits the integer axis at ascending boundaries, "10,20" gives the
// partitions (..10) [10..20) [20..), partition i routes to the target suffixed with i.
type BoundaryRange struct {
	Boundaries []int64
}

func (b *BoundaryRange) GetType() string {
	return BoundaryRangeType
}

func (b *BoundaryRange) Init(props core.Properties) error {
	if err := props.MustHave(ShardingRangesProperty); err != nil {
		return err
	}
	items := core.SplitAndTrim(props.GetString(ShardingRangesProperty, ""), ",")
	b.Boundaries = make([]int64, 0, len(items))
	for _, item := range items {
		v, err := strconv.ParseInt(item, 10, 64)
		if err != nil {
			return fmt.Errorf("property '%s' must be a list of integers, given item: %s", ShardingRangesProperty, item)
		}
		if n := len(b.Boundaries); n > 0 && b.Boundaries[n-1] >= v {
			return fmt.Errorf("property '%s' must be in ascending order", ShardingRangesProperty)
		}
		b.Boundaries = append(b.Boundaries, v)
	}
	return nil
}

func (b *BoundaryRange) partition(v int64) int {
	return sort.Search(len(b.Boundaries), func(i int) bool { return b.Boundaries[i] > v })
}

func (b *BoundaryRange) DoPreciseSharding(availableTargets []string, column string, value interface{}) (string, error) {
	v, err := integralValue(column, value)
	if err != nil {
		return "", err
	}
	return targetBySuffix(availableTargets, int64(b.partition(v)))
}

func (b *BoundaryRange) DoRangeSharding(availableTargets []string, column string, r core.Range) ([]string, error) {
	first, last := 0, len(b.Boundaries)
	if r.HasLower() {
		lower, ok := comparison.ToInt64(r.LowerBound())
		if !ok {
			return nil, fmt.Errorf("range bound of column '%s' must be an integer, given: %v", column, r.LowerBound())
		}
		first = b.partition(lower)
	}
	if r.HasUpper() {
		upper, ok := comparison.ToInt64(r.UpperBound())
		if !ok {
			return nil, fmt.Errorf("range bound of column '%s' must be an integer, given: %v", column, r.UpperBound())
		}
		last = b.partition(upper)
		// an open upper bound equal to a boundary does not reach the partition starting there
		if !r.UpperClosed() && last > 0 && b.Boundaries[last-1] == upper {
			last--
		}
	}
	var result []string
	for p := first; p <= last; p++ {
		target, err := targetBySuffix(availableTargets, int64(p))
		if err != nil {
			return nil, err
		}
		result = append(result, target)
	}
	return result, nil
}
