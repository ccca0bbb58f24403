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
	"github.com/scylladb/go-set/strset"
)

var _ core.ShardingStrategy = &Standard{}

// Standard shards by one column with precise and range values.
type Standard struct {
	Column    string
	Algorithm algorithm.StandardShardingAlgorithm
}

func (s *Standard) GetShardingColumns() []string {
	return []string{s.Column}
}

func (s *Standard) Shard(sources []string, values *core.ShardingValues) ([]string, error) {
	if values == nil {
		return sources, nil
	}
	if list, ok := values.ScalarValues[s.Column]; ok {
		targets := make([]string, 0, len(list))
		for _, v := range list {
			if v == nil {
				return nil, fmt.Errorf("sharding column '%s' of table '%s' can not be null", s.Column, values.TableName)
			}
			target, err := s.Algorithm.DoPreciseSharding(sources, s.Column, v)
			if err != nil {
				return nil, err
			}
			targets = append(targets, target)
		}
		return keepSourceOrder(sources, targets)
	}
	if r, ok := values.RangeValues[s.Column]; ok {
		targets, err := s.Algorithm.DoRangeSharding(sources, s.Column, r)
		if err != nil {
			return nil, err
		}
		return keepSourceOrder(sources, targets)
	}
	return sources, nil
}

// keepSourceOrder fails when a target is not one of the sources.
func keepSourceOrder(sources []string, targets []string) ([]string, error) {
	chosen := strset.New(targets...)
	result := make([]string, 0, chosen.Size())
	for _, s := range sources {
		if chosen.Has(s) {
			result = append(result, s)
			chosen.Remove(s)
		}
	}
	if !chosen.IsEmpty() {
		return nil, fmt.Errorf("sharding targets %v are not in the configured targets %v", chosen.List(), sources)
	}
	return result, nil
}
