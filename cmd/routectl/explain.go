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

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/endink/go-sharding-router/binder"
	"github.com/endink/go-sharding-router/core"
	"github.com/endink/go-sharding-router/routing"
	"github.com/endink/go-sharding-router/routing/route"
	"github.com/endink/go-sharding-router/rule"
	"github.com/endink/go-sharding-router/statement"
	"github.com/pingcap/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

type explainOptions struct {
	params      []string
	dbHints     []string
	tableHints  []string
	knownTables []string
	output      string
}

// explainOutput is what explain prints, in yaml or as one unit per line.
type explainOutput struct {
	SQL        string        `yaml:"sql"`
	Kind       string        `yaml:"kind"`
	Category   string        `yaml:"category"`
	Engine     string        `yaml:"engine"`
	Conditions string        `yaml:"conditions,omitempty"`
	Units      []*route.Unit `yaml:"units"`
}

func newExplainCmd() *cobra.Command {
	opts := &explainOptions{}
	cmd := &cobra.Command{
		Use:   "explain <sql>",
		Short: "validate and route one sql statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadRule()
			if err != nil {
				return err
			}
			return explain(cmd.OutOrStdout(), r, args[0], opts)
		},
	}
	cmd.Flags().StringArrayVarP(&opts.params, "param", "p", nil, "value of the next '?' parameter, numbers are passed as integers")
	cmd.Flags().StringArrayVar(&opts.dbHints, "db-hint", nil, "database sharding hint as table=value")
	cmd.Flags().StringArrayVar(&opts.tableHints, "table-hint", nil, "table sharding hint as table=value")
	cmd.Flags().StringSliceVar(&opts.knownTables, "known-tables", nil, "existing tables of the logical schema, turns on metadata checks")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "yaml", "output format: yaml or text")
	return cmd
}

func explain(w io.Writer, r *rule.ShardingRule, sql string, opts *explainOptions) error {
	stmt, err := binder.Bind(sql)
	if err != nil {
		return err
	}
	hint, err := parseHints(opts.dbHints, opts.tableHints)
	if err != nil {
		return err
	}
	var routerOpts []routing.Option
	if len(opts.knownTables) > 0 {
		routerOpts = append(routerOpts, routing.WithDatabase(rule.NewDatabase("", opts.knownTables...)))
	}
	router := routing.NewRouter(rule.NewHolder(r), routerOpts...)
	ex, err := router.Explain(stmt, parseParams(opts.params), hint)
	if err != nil {
		return err
	}

	out := &explainOutput{
		SQL:      sql,
		Kind:     stmt.Kind.String(),
		Category: stmt.Category().String(),
		Engine:   ex.Engine.String(),
		Units:    ex.Context.Units(),
	}
	if ex.Conditions != nil && !ex.Conditions.IsEmpty() {
		out.Conditions = ex.Conditions.String()
	}

	switch strings.ToLower(opts.output) {
	case "yaml":
		data, err := yaml.Marshal(out)
		if err != nil {
			return errors.Trace(err)
		}
		_, err = w.Write(data)
		return err
	case "text":
		fmt.Fprintf(w, "%s routed by %s to %d units\n", out.Kind, out.Engine, len(out.Units))
		for _, u := range out.Units {
			fmt.Fprintln(w, u)
		}
		return nil
	}
	return errors.Errorf("unknown output format '%s'", opts.output)
}

func parseParams(values []string) []interface{} {
	params := make([]interface{}, len(values))
	for i, v := range values {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			params[i] = n
		} else {
			params[i] = v
		}
	}
	return params
}

func parseHints(dbHints []string, tableHints []string) (*statement.HintValueContext, error) {
	if len(dbHints) == 0 && len(tableHints) == 0 {
		return nil, nil
	}
	hint := &statement.HintValueContext{
		DatabaseValues: make(map[string][]interface{}),
		TableValues:    make(map[string][]interface{}),
	}
	if err := addHints(hint.DatabaseValues, dbHints); err != nil {
		return nil, err
	}
	if err := addHints(hint.TableValues, tableHints); err != nil {
		return nil, err
	}
	return hint, nil
}

func addHints(values map[string][]interface{}, hints []string) error {
	for _, h := range hints {
		parts := strings.SplitN(h, "=", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
			return errors.Errorf("hint must be given as table=value, given: %s", h)
		}
		table := core.TrimAndLower(parts[0])
		values[table] = append(values[table], parseParams([]string{strings.TrimSpace(parts[1])})...)
	}
	return nil
}
