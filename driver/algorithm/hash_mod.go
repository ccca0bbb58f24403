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
	"strings"

	"github.com/endink/go-sharding-router/core"
	"github.com/endink/go-sharding-router/core/comparison"
	"github.com/go-faster/city"
	"github.com/spaolacci/murmur3"
)

const (
	HashModType          = "HASH_MOD"
	HashFunctionProperty = "hash-function"

	MurmurHash = "murmur"
	CityHash   = "city"
)

var _ StandardShardingAlgorithm = &HashMod{}

// HashMod hashes the text form of a value and routes it like Mod.
type HashMod struct {
	Count int
	hash  func([]byte) uint64
}

func (h *HashMod) GetType() string {
	return HashModType
}

func (h *HashMod) Init(props core.Properties) error {
	if err := props.MustHave(ShardingCountProperty); err != nil {
		return err
	}
	count, err := props.GetInt(ShardingCountProperty, 0)
	if err != nil {
		return err
	}
	if err = shardingCount(count); err != nil {
		return err
	}
	h.Count = count

	switch fn := strings.ToLower(props.GetString(HashFunctionProperty, MurmurHash)); fn {
	case MurmurHash:
		h.hash = murmur3.Sum64
	case CityHash:
		h.hash = city.Hash64
	default:
		return fmt.Errorf("unknown hash function '%s', '%s' or '%s' expected", fn, MurmurHash, CityHash)
	}
	return nil
}

func (h *HashMod) DoPreciseSharding(availableTargets []string, column string, value interface{}) (string, error) {
	n, ok := comparison.Normalize(value)
	if !ok {
		return "", fmt.Errorf("sharding value of column '%s' can not be hashed: %v (%T)", column, value, value)
	}
	sum := h.hash([]byte(fmt.Sprint(n)))
	return targetBySuffix(availableTargets, int64(sum%uint64(h.Count)))
}

func (h *HashMod) DoRangeSharding(availableTargets []string, _ string, _ core.Range) ([]string, error) {
	return availableTargets, nil
}
