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
	"os"

	"github.com/endink/go-sharding-router/config"
	"github.com/endink/go-sharding-router/core"
	"github.com/endink/go-sharding-router/driver/algorithm"
	"github.com/endink/go-sharding-router/logging"
	"github.com/endink/go-sharding-router/rule"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

var (
	configFile string
	logLevel   string
	logFormat  string
)

func defaultConfigFile() string {
	if core.IsWindows() {
		return "sharding.yaml"
	}
	return "/etc/go-sharding/sharding.yaml"
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "routectl",
		Short: "explain how sharding rules route sql statements",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging()
		},
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", defaultConfigFile(), "sharding rule file, .yaml or .toml")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level of every logger")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "plain", "log output format: color, plain or json")

	root.AddCommand(newExplainCmd(), newCheckCmd(), newAlgorithmsCmd())
	return root
}

func setupLogging() error {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return err
	}
	format, err := logging.ParseLogFormat(logFormat)
	if err != nil {
		return err
	}
	logging.SetLevel("", level)
	logging.SetFormat(format)
	return nil
}

// loadRule reads the configured file, or searches the default locations when the flag is empty.
func loadRule() (*rule.ShardingRule, error) {
	var cfg *config.Config
	var err error
	if configFile == "" || !core.FileExists(configFile) {
		if configFile != "" {
			logging.DefaultLogger.Warnf("config file '%s' not found, searching default locations", configFile)
		}
		cfg, err = config.Search()
	} else {
		cfg, err = config.LoadFile(configFile)
	}
	if err != nil {
		return nil, err
	}
	return rule.Build(cfg)
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "validate the sharding rule file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadRule()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sharding rule is valid: %d data sources\n", len(r.DataSourceNames()))
			return nil
		},
	}
}

func newAlgorithmsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "list the registered sharding algorithm types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, t := range algorithm.Types() {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
