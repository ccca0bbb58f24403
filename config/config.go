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

package config

import (
	"fmt"
	"strings"

	"github.com/endink/go-sharding-router/core"
	"github.com/endink/go-sharding-router/driver/strategy"
)

const (
	DefaultMaxCartesianCombinations = 4096
)

// Config is the sharding rule configuration, it is turned into an immutable rule by rule.Build.
type Config struct {
	DataSources             map[string]*DataSourceConfig `yaml:"data-sources" toml:"data-sources"`
	Tables                  map[string]*TableConfig      `yaml:"tables" toml:"tables"`
	BindingTables           []string                     `yaml:"binding-tables" toml:"binding-tables"`
	BroadcastTables         []string                     `yaml:"broadcast-tables" toml:"broadcast-tables"`
	DefaultDatabaseStrategy *strategy.Config             `yaml:"default-database-strategy" toml:"default-database-strategy"`
	DefaultTableStrategy    *strategy.Config             `yaml:"default-table-strategy" toml:"default-table-strategy"`
	Algorithms              map[string]*AlgorithmConfig  `yaml:"algorithms" toml:"algorithms"`
	Props                   Props                        `yaml:"props" toml:"props"`
}

// DataSourceConfig places a logical data source on a physical instance, sources sharing a
// group are replicas of each other.
type DataSourceConfig struct {
	Instance string `yaml:"instance" toml:"instance"`
	Group    string `yaml:"group" toml:"group"`
}

type TableConfig struct {
	ActualDataNodes   string           `yaml:"actual-data-nodes" toml:"actual-data-nodes"`
	DatabaseStrategy  *strategy.Config `yaml:"database-strategy" toml:"database-strategy"`
	TableStrategy     *strategy.Config `yaml:"table-strategy" toml:"table-strategy"`
	SingleShardInsert bool             `yaml:"single-shard-insert" toml:"single-shard-insert"`
}

type AlgorithmConfig struct {
	Type  string                 `yaml:"type" toml:"type"`
	Props map[string]interface{} `yaml:"props" toml:"props"`
}

type Props struct {
	MaxCartesianCombinations int  `yaml:"max-cartesian-combinations" toml:"max-cartesian-combinations"`
	SingleShardInsert        bool `yaml:"single-shard-insert" toml:"single-shard-insert"`
	CheckTableMetadata       bool `yaml:"check-table-metadata" toml:"check-table-metadata"`
}

// Properties flattens the algorithm props, lists are joined with ','.
func (c *AlgorithmConfig) Properties() core.Properties {
	values := make(map[string]string, len(c.Props))
	for k, v := range c.Props {
		switch tv := v.(type) {
		case nil:
			continue
		case []interface{}:
			items := make([]string, len(tv))
			for i, item := range tv {
				items[i] = fmt.Sprint(item)
			}
			values[k] = strings.Join(items, ",")
		default:
			values[k] = fmt.Sprint(tv)
		}
	}
	return core.PropertiesOf(values)
}

func (c *Config) applyDefaults() {
	if c.Props.MaxCartesianCombinations <= 0 {
		c.Props.MaxCartesianCombinations = DefaultMaxCartesianCombinations
	}
	for name, ds := range c.DataSources {
		if ds == nil {
			ds = &DataSourceConfig{}
			c.DataSources[name] = ds
		}
		ds.Instance = core.IfBlankAndTrim(ds.Instance, name)
		ds.Group = core.IfBlankAndTrim(ds.Group, name)
	}
	for name, t := range c.Tables {
		if t == nil {
			c.Tables[name] = &TableConfig{}
		}
	}
}
