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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
data-sources:
  ds0:
    instance: 127.0.0.1:3306
  ds1:
    instance: 127.0.0.1:3307
    group: g1

tables:
  t_order:
    actual-data-nodes: ds${0..1}.t_order_${0..1}
    database-strategy:
      inline:
        sharding-columns: user_id
        algorithm-expression: ds${user_id % 2}
    table-strategy:
      standard:
        sharding-column: order_id
        sharding-algorithm-name: order_mod
  t_order_item:
    actual-data-nodes: ds${0..1}.t_order_item_${0..1}
    single-shard-insert: true

binding-tables:
  - t_order, t_order_item
broadcast-tables:
  - t_config

algorithms:
  order_mod:
    type: MOD
    props:
      sharding-count: 2
  order_range:
    type: BOUNDARY_RANGE
    props:
      sharding-ranges: [100, 200]

props:
  check-table-metadata: true
`

const testTOML = `
broadcast-tables = ["t_config"]

[data-sources.ds0]
instance = "127.0.0.1:3306"

[tables.t_user]
actual-data-nodes = "ds0.t_user_${0..3}"

[tables.t_user.table-strategy.inline]
sharding-columns = "user_id"
algorithm-expression = "t_user_${user_id % 4}"

[algorithms.user_hash]
type = "HASH_MOD"

[algorithms.user_hash.props]
sharding-count = 4

[props]
max-cartesian-combinations = 16
`

func TestFromYAMLString(t *testing.T) {
	cfg, err := FromYAMLString(testYAML)
	require.NoError(t, err)

	assert.Len(t, cfg.DataSources, 2)
	assert.Equal(t, "ds0", cfg.DataSources["ds0"].Group)
	assert.Equal(t, "g1", cfg.DataSources["ds1"].Group)
	assert.Equal(t, "127.0.0.1:3307", cfg.DataSources["ds1"].Instance)

	order := cfg.Tables["t_order"]
	require.NotNil(t, order)
	assert.Equal(t, "ds${0..1}.t_order_${0..1}", order.ActualDataNodes)
	require.NotNil(t, order.DatabaseStrategy.Inline)
	assert.Equal(t, "user_id", order.DatabaseStrategy.Inline.ShardingColumns)
	require.NotNil(t, order.TableStrategy.Standard)
	assert.Equal(t, "order_mod", order.TableStrategy.Standard.AlgorithmName)
	assert.True(t, cfg.Tables["t_order_item"].SingleShardInsert)

	assert.Equal(t, []string{"t_order, t_order_item"}, cfg.BindingTables)
	assert.Equal(t, []string{"t_config"}, cfg.BroadcastTables)

	assert.Equal(t, DefaultMaxCartesianCombinations, cfg.Props.MaxCartesianCombinations)
	assert.True(t, cfg.Props.CheckTableMetadata)
	assert.False(t, cfg.Props.SingleShardInsert)

	props := cfg.Algorithms["order_mod"].Properties()
	count, err := props.GetInt("sharding-count", 0)
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, "100,200", cfg.Algorithms["order_range"].Properties().GetString("sharding-ranges", ""))
}

func TestFromTOMLString(t *testing.T) {
	cfg, err := FromTOMLString(testTOML)
	require.NoError(t, err)

	assert.Equal(t, "ds0", cfg.DataSources["ds0"].Group)
	assert.Equal(t, 16, cfg.Props.MaxCartesianCombinations)
	require.NotNil(t, cfg.Tables["t_user"].TableStrategy.Inline)
	assert.Equal(t, "t_user_${user_id % 4}", cfg.Tables["t_user"].TableStrategy.Inline.Expression)
	assert.Equal(t, "HASH_MOD", cfg.Algorithms["user_hash"].Type)
	assert.Equal(t, "4", cfg.Algorithms["user_hash"].Properties().GetString("sharding-count", ""))
}

func TestValidateCollectsAllErrors(t *testing.T) {
	_, err := FromYAMLString(`
tables:
  "1t_order":
    actual-data-nodes: ds0.t_order
algorithms:
  broken:
    props:
      a: 1
`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one data source")
	assert.Contains(t, err.Error(), "invalid table name '1t_order'")
	assert.Contains(t, err.Error(), "type of sharding algorithm 'broken' is missing")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	yamlFile := filepath.Join(dir, "sharding.yaml")
	require.NoError(t, os.WriteFile(yamlFile, []byte(testYAML), 0o644))
	cfg, err := LoadFile(yamlFile)
	require.NoError(t, err)
	assert.Len(t, cfg.Tables, 2)

	tomlFile := filepath.Join(dir, "sharding.TOML")
	require.NoError(t, os.WriteFile(tomlFile, []byte(testTOML), 0o644))
	cfg, err = LoadFile(tomlFile)
	require.NoError(t, err)
	assert.Len(t, cfg.Tables, 1)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultConfigFileLocations(t *testing.T) {
	locations := DefaultConfigFileLocations()
	assert.NotEmpty(t, locations)
	assert.IsIncreasing(t, locations)
}
