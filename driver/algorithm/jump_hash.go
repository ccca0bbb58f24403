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
	"hash/crc64"
	"math"

	"github.com/endink/go-sharding-router/core"
	"github.com/endink/go-sharding-router/core/comparison"
	jump "github.com/lithammer/go-jump-consistent-hash"
)

const JumpHashType = "JUMP_HASH"

var _ StandardShardingAlgorithm = &JumpHash{}

var crcTable = crc64.MakeTable(crc64.ECMA)

// JumpHash places values into sharding-count buckets with the jump consistent hash.
type JumpHash struct {
	Count int
}

func (j *JumpHash) GetType() string {
	return JumpHashType
}

func (j *JumpHash) Init(props core.Properties) error {
	if err := props.MustHave(ShardingCountProperty); err != nil {
		return err
	}
	count, err := props.GetInt(ShardingCountProperty, 0)
	if err != nil {
		return err
	}
	if count > math.MaxInt32 {
		return fmt.Errorf("property '%s' is too large", ShardingCountProperty)
	}
	j.Count = count
	return shardingCount(count)
}

func (j *JumpHash) DoPreciseSharding(availableTargets []string, column string, value interface{}) (string, error) {
	n, ok := comparison.Normalize(value)
	if !ok {
		return "", fmt.Errorf("sharding value of column '%s' can not be hashed: %v (%T)", column, value, value)
	}
	var key uint64
	switch v := n.(type) {
	case int64:
		key = uint64(v)
	case uint64:
		key = v
	default:
		key = crc64.Checksum([]byte(fmt.Sprint(v)), crcTable)
	}
	bucket := jump.Hash(key, int32(j.Count))
	return targetBySuffix(availableTargets, int64(bucket))
}

func (j *JumpHash) DoRangeSharding(availableTargets []string, _ string, _ core.Range) ([]string, error) {
	return availableTargets, nil
}
