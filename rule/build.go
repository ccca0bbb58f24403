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

package rule

import (
	"fmt"
	"strings"

	"github.com/endink/go-sharding-router/config"
	"github.com/endink/go-sharding-router/core"
	"github.com/endink/go-sharding-router/core/script"
	"github.com/endink/go-sharding-router/driver/algorithm"
	"github.com/endink/go-sharding-router/logging"
	"github.com/pingcap/errors"
	"github.com/scylladb/go-set/strset"
	"go.uber.org/multierr"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var logger = logging.GetLogger("rule")

// Build validates the configuration and creates the rule snapshot, every problem found is reported.
func Build(cfg *config.Config) (*ShardingRule, error) {
	if cfg == nil {
		return nil, errors.New("sharding configuration is required")
	}
	r := &ShardingRule{
		dataSourceMap:   make(map[string]*DataSource, len(cfg.DataSources)),
		tables:          make(map[string]*core.ShardingTable, len(cfg.Tables)),
		broadcastTables: strset.New(),
		bindingIndex:    make(map[string]int),
		props:           cfg.Props,
	}
	if r.props.MaxCartesianCombinations <= 0 {
		r.props.MaxCartesianCombinations = config.DefaultMaxCartesianCombinations
	}

	errs := cfg.Validate()
	r.buildDataSources(cfg)

	algorithms, err := buildAlgorithms(cfg)
	errs = multierr.Append(errs, err)
	errs = multierr.Append(errs, r.buildTables(cfg, algorithms))
	errs = multierr.Append(errs, r.buildBroadcastTables(cfg))
	errs = multierr.Append(errs, r.buildBindingGroups(cfg))
	if errs != nil {
		return nil, errs
	}

	logger.Infof("sharding rule built: %d data sources, %d sharding tables, %d broadcast tables, %d binding groups",
		len(r.dataSources), len(r.tables), r.broadcastTables.Size(), len(r.bindingGroups))
	return r, nil
}

func (r *ShardingRule) buildDataSources(cfg *config.Config) {
	names := maps.Keys(cfg.DataSources)
	slices.Sort(names)
	for _, name := range names {
		c := cfg.DataSources[name]
		ds := &DataSource{Name: name, Instance: name, Group: name}
		if c != nil {
			ds.Instance = core.IfBlankAndTrim(c.Instance, name)
			ds.Group = core.IfBlankAndTrim(c.Group, name)
		}
		r.dataSources = append(r.dataSources, ds)
		r.dataSourceMap[name] = ds
	}
}

func buildAlgorithms(cfg *config.Config) (map[string]algorithm.ShardingAlgorithm, error) {
	var errs error
	result := make(map[string]algorithm.ShardingAlgorithm, len(cfg.Algorithms))
	for name, c := range cfg.Algorithms {
		if c == nil {
			errs = multierr.Append(errs, fmt.Errorf("sharding algorithm '%s' has no configuration", name))
			continue
		}
		alg, err := algorithm.New(c.Type, c.Properties())
		if err != nil {
			errs = multierr.Append(errs, errors.Annotatef(err, "create sharding algorithm '%s' fault", name))
			continue
		}
		result[name] = alg
	}
	return result, errs
}

func (r *ShardingRule) buildTables(cfg *config.Config, algorithms map[string]algorithm.ShardingAlgorithm) error {
	var errs error
	defaultDb, err := cfg.DefaultDatabaseStrategy.Build(algorithms)
	if err != nil {
		errs = multierr.Append(errs, errors.Annotate(err, "invalid default database strategy"))
	}
	defaultTable, err := cfg.DefaultTableStrategy.Build(algorithms)
	if err != nil {
		errs = multierr.Append(errs, errors.Annotate(err, "invalid default table strategy"))
	}

	names := maps.Keys(cfg.Tables)
	slices.Sort(names)
	for _, name := range names {
		table, err := r.buildTable(core.TrimAndLower(name), cfg.Tables[name], algorithms)
		if err != nil {
			errs = multierr.Append(errs, errors.Annotatef(err, "invalid sharding table '%s'", name))
			continue
		}
		if table.DatabaseStrategy == core.NoneShardingStrategy && defaultDb != nil {
			table.DatabaseStrategy = defaultDb
		}
		if table.TableStrategy == core.NoneShardingStrategy && defaultTable != nil {
			table.TableStrategy = defaultTable
		}
		table.SingleShardInsert = table.SingleShardInsert || cfg.Props.SingleShardInsert
		r.tables[table.Name] = table
	}
	return errs
}

func (r *ShardingRule) buildTable(name string, c *config.TableConfig, algorithms map[string]algorithm.ShardingAlgorithm) (*core.ShardingTable, error) {
	if c == nil {
		c = &config.TableConfig{}
	}
	nodes, err := r.parseDataNodes(name, c.ActualDataNodes)
	if err != nil {
		return nil, err
	}
	table, err := core.NewShardingTable(name, nodes)
	if err != nil {
		return nil, err
	}
	if c.DatabaseStrategy != nil {
		if table.DatabaseStrategy, err = c.DatabaseStrategy.Build(algorithms); err != nil {
			return nil, errors.Annotate(err, "invalid database strategy")
		}
	}
	if c.TableStrategy != nil {
		if table.TableStrategy, err = c.TableStrategy.Build(algorithms); err != nil {
			return nil, errors.Annotate(err, "invalid table strategy")
		}
	}
	table.SingleShardInsert = c.SingleShardInsert
	return table, nil
}

// parseDataNodes flattens the actual-data-nodes expression, a blank expression puts the
// logic table in every data source.
func (r *ShardingRule) parseDataNodes(table string, expression string) ([]*core.DataNode, error) {
	if strings.TrimSpace(expression) == "" {
		nodes := make([]*core.DataNode, len(r.dataSources))
		for i, ds := range r.dataSources {
			nodes[i] = &core.DataNode{DataSource: ds.Name, Table: table}
		}
		return nodes, nil
	}
	expr, err := script.NewInlineExpression(expression)
	if err != nil {
		return nil, err
	}
	items, err := expr.Flat()
	if err != nil {
		return nil, err
	}
	nodes := make([]*core.DataNode, 0, len(items))
	for _, item := range items {
		node, err := core.ParseDataNode(item)
		if err != nil {
			return nil, err
		}
		if _, ok := r.dataSourceMap[node.DataSource]; !ok {
			return nil, fmt.Errorf("data node '%s' refers to an unknown data source", item)
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func (r *ShardingRule) buildBroadcastTables(cfg *config.Config) error {
	var errs error
	for _, t := range cfg.BroadcastTables {
		name := core.TrimAndLower(t)
		if name == "" {
			continue
		}
		if r.IsShardingTable(name) {
			errs = multierr.Append(errs, fmt.Errorf("table '%s' can not be both broadcast table and sharding table", name))
			continue
		}
		r.broadcastTables.Add(name)
	}
	return errs
}

func (r *ShardingRule) buildBindingGroups(cfg *config.Config) error {
	var errs error
	for _, expr := range cfg.BindingTables {
		group := core.DistinctSliceAndTrim(core.TrimAndLowerArray(core.SplitAndTrim(expr, ",")))
		if len(group) < 2 {
			errs = multierr.Append(errs, fmt.Errorf("binding group '%s' must contain at least two tables", expr))
			continue
		}
		if err := r.checkBindingGroup(group); err != nil {
			errs = multierr.Append(errs, errors.Annotatef(err, "invalid binding group '%s'", expr))
			continue
		}
		idx := len(r.bindingGroups)
		r.bindingGroups = append(r.bindingGroups, group)
		for _, t := range group {
			r.bindingIndex[t] = idx
		}
	}
	return errs
}

// checkBindingGroup requires every table to own the same number of actual tables in the same data sources.
func (r *ShardingRule) checkBindingGroup(group []string) error {
	var first *core.ShardingTable
	for _, name := range group {
		if _, bound := r.bindingIndex[name]; bound {
			return fmt.Errorf("table '%s' is already in another binding group", name)
		}
		t, ok := r.ShardingTable(name)
		if !ok {
			return fmt.Errorf("binding table '%s' is not a sharding table", name)
		}
		if first == nil {
			first = t
			continue
		}
		if !slices.Equal(first.GetDataSources(), t.GetDataSources()) {
			return fmt.Errorf("tables '%s' and '%s' have different data sources", first.Name, t.Name)
		}
		for _, ds := range first.GetDataSources() {
			if len(first.GetActualTables(ds)) != len(t.GetActualTables(ds)) {
				return fmt.Errorf("tables '%s' and '%s' have different actual table count in data source '%s'", first.Name, t.Name, ds)
			}
		}
	}
	return nil
}
