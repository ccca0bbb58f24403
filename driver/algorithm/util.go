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
	"strconv"

	"github.com/endink/go-sharding-router/core/comparison"
)

// targetBySuffix finds the target whose trailing number equals index, "t_order_3" has suffix 3.
func targetBySuffix(availableTargets []string, index int64) (string, error) {
	for _, target := range availableTargets {
		if suffix, ok := numericSuffix(target); ok && suffix == index {
			return target, nil
		}
	}
	return "", fmt.Errorf("no available target ends with suffix %d in %v", index, availableTargets)
}

func numericSuffix(target string) (int64, bool) {
	i := len(target)
	for i > 0 && target[i-1] >= '0' && target[i-1] <= '9' {
		i--
	}
	if i == len(target) {
		return 0, false
	}
	v, err := strconv.ParseInt(target[i:], 10, 64)
	return v, err == nil
}

func integralValue(column string, value interface{}) (int64, error) {
	v, ok := comparison.ToInt64(value)
	if !ok {
		return 0, fmt.Errorf("sharding value of column '%s' must be an integer, given: %v (%T)", column, value, value)
	}
	return v, nil
}

func shardingCount(count int) error {
	if count <= 0 {
		return fmt.Errorf("property '%s' must be greater than 0", ShardingCountProperty)
	}
	return nil
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
