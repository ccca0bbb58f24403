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
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/endink/go-sharding-router/core"
	"github.com/endink/go-sharding-router/logging"
	"github.com/pingcap/errors"
	"go.uber.org/config"
	"go.uber.org/multierr"
)

var logger = logging.GetLogger("config")

func DefaultConfigFileLocations() []string {
	files := make(map[string]bool, 4)
	if !core.IsWindows() {
		files["/etc/go-sharding/sharding.yaml"] = false
		files["/etc/go-sharding/sharding.toml"] = false
	}
	dir, err := os.Getwd()
	if err == nil {
		files[filepath.Join(dir, "sharding.yaml")] = false
		files[filepath.Join(dir, "sharding.toml")] = false
	} else {
		files["sharding.yaml"] = false
	}

	result := make([]string, 0, len(files))
	for k := range files {
		result = append(result, k)
	}
	sort.Strings(result)
	return result
}

// Search loads the first existing file of DefaultConfigFileLocations.
func Search() (*Config, error) {
	var sb strings.Builder
	sb.WriteString("Search configuration locations:")
	for _, f := range DefaultConfigFileLocations() {
		if core.FileExists(f) {
			sb.WriteString(core.LineSeparator + "[Found]: " + f)
			logger.Debug(sb.String())
			return LoadFile(f)
		}
		sb.WriteString(core.LineSeparator + "[Not Found]: " + f)
	}
	logger.Warn(sb.String())
	return nil, errors.New("no sharding configuration file was found")
}

// LoadFile reads a .toml file with BurntSushi/toml and any other file as yaml.
func LoadFile(path string) (*Config, error) {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Trace(err)
		}
		return FromTOMLString(string(content))
	}
	yml, err := config.NewYAML(config.File(path))
	if err != nil {
		return nil, errors.Annotatef(err, "load config file '%s' fault", path)
	}
	return fromYAML(yml)
}

func FromYAMLString(content string) (*Config, error) {
	return FromYAMLReader(strings.NewReader(content))
}

func FromYAMLReader(r io.Reader) (*Config, error) {
	yml, err := config.NewYAML(config.Source(r))
	if err != nil {
		return nil, errors.Trace(err)
	}
	return fromYAML(yml)
}

func FromTOMLString(content string) (*Config, error) {
	cfg := &Config{}
	md, err := toml.Decode(content, cfg)
	if err != nil {
		return nil, errors.Annotate(err, "bad toml format")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		logger.Warnf("unknown configuration keys ignored: %v", undecoded)
	}
	return prepare(cfg)
}

func fromYAML(yml *config.YAML) (*Config, error) {
	cfg := &Config{}
	if err := yml.Get(config.Root).Populate(cfg); err != nil {
		return nil, errors.Annotate(err, "bad yaml format")
	}
	return prepare(cfg)
}

func prepare(cfg *Config) (*Config, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Debugf("sharding configuration loaded, %d data sources, %d tables", len(cfg.DataSources), len(cfg.Tables))
	return cfg, nil
}

// Validate reports every structural problem of the configuration at once.
func (c *Config) Validate() error {
	var errs []error
	if len(c.DataSources) == 0 {
		errs = append(errs, errors.New("at least one data source must be configured"))
	}
	for name := range c.DataSources {
		if err := core.ValidateIdentifier(name); err != nil {
			errs = append(errs, fmt.Errorf("invalid data source name '%s'", name))
		}
	}
	for name := range c.Tables {
		if err := core.ValidateIdentifier(name); err != nil {
			errs = append(errs, fmt.Errorf("invalid table name '%s'", name))
		}
	}
	for name, alg := range c.Algorithms {
		if alg == nil || strings.TrimSpace(alg.Type) == "" {
			errs = append(errs, fmt.Errorf("type of sharding algorithm '%s' is missing", name))
		}
	}
	return multierr.Combine(errs...)
}
