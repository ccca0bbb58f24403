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

//go:generate mockgen -source=algorithm.go -destination=mock/algorithm_mock.go -package=mock_algorithm

package algorithm

import (
	"fmt"
	"strings"

	"github.com/endink/go-sharding-router/core"
	"github.com/endink/go-sharding-router/core/provider"
)

// ShardingAlgorithm maps sharding values to targets, a target is a data source name or an actual table name.
type ShardingAlgorithm interface {
	GetType() string
	Init(props core.Properties) error
}

type StandardShardingAlgorithm interface {
	ShardingAlgorithm
	DoPreciseSharding(availableTargets []string, column string, value interface{}) (string, error)
	DoRangeSharding(availableTargets []string, column string, r core.Range) ([]string, error)
}

type ComplexShardingAlgorithm interface {
	ShardingAlgorithm
	DoComplexSharding(availableTargets []string, values *core.ShardingValues) ([]string, error)
}

type HintShardingAlgorithm interface {
	ShardingAlgorithm
	DoHintSharding(availableTargets []string, values []interface{}) ([]string, error)
}

// ColumnAware algorithms are told the sharding columns of the strategy using them.
type ColumnAware interface {
	BindColumns(columns []string) error
}

type Factory struct {
	name   string
	create func() ShardingAlgorithm
}

func (f *Factory) GetName() string {
	return f.name
}

func (f *Factory) Create() ShardingAlgorithm {
	return f.create()
}

func Register(name string, create func() ShardingAlgorithm) error {
	return provider.DefaultRegistry().Register(provider.ShardingAlgorithm, &Factory{
		name:   strings.ToUpper(strings.TrimSpace(name)),
		create: create,
	})
}

// New creates and initializes an algorithm registered with the type name.
func New(algorithmType string, props core.Properties) (ShardingAlgorithm, error) {
	p, ok := provider.DefaultRegistry().TryLoad(provider.ShardingAlgorithm, algorithmType)
	if !ok {
		return nil, fmt.Errorf("sharding algorithm type '%s' is not registered", algorithmType)
	}
	factory, ok := p.(*Factory)
	if !ok {
		return nil, fmt.Errorf("provider '%s' is not a sharding algorithm factory", algorithmType)
	}
	if props == nil {
		props = core.EmptyProperties
	}
	alg := factory.Create()
	if err := alg.Init(props); err != nil {
		return nil, fmt.Errorf("init sharding algorithm '%s' fault: %v", algorithmType, err)
	}
	return alg, nil
}

// Types lists the registered algorithm types.
func Types() []string {
	return provider.DefaultRegistry().Names(provider.ShardingAlgorithm)
}

func init() {
	mustRegister(InlineType, func() ShardingAlgorithm { return &Inline{} })
	mustRegister(ModType, func() ShardingAlgorithm { return &Mod{} })
	mustRegister(HashModType, func() ShardingAlgorithm { return &HashMod{} })
	mustRegister(JumpHashType, func() ShardingAlgorithm { return &JumpHash{} })
	mustRegister(BoundaryRangeType, func() ShardingAlgorithm { return &BoundaryRange{} })
}

func mustRegister(name string, create func() ShardingAlgorithm) {
	if err := Register(name, create); err != nil {
		panic(err)
	}
}
