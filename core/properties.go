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

package core

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/config"
)

// Properties are the string key/value settings of an algorithm or of the routing rule.
type Properties interface {
	GetValues() map[string]string
	GetString(key string, defaultValue string) string
	GetInt(key string, defaultValue int) (int, error)
	GetBool(key string, defaultValue bool) (bool, error)
	MustHave(keys ...string) error
}

var EmptyProperties Properties = &properties{values: map[string]string{}}

// NewProperties populates properties from a yaml configuration value.
func NewProperties(value config.Value) (Properties, error) {
	raw := make(map[string]interface{})
	if value.HasValue() {
		if err := value.Populate(&raw); err != nil {
			return nil, err
		}
	}
	values := make(map[string]string, len(raw))
	for k, v := range raw {
		if v != nil {
			values[k] = fmt.Sprint(v)
		}
	}
	return PropertiesOf(values), nil
}

func PropertiesOf(values map[string]string) Properties {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[TrimAndLower(k)] = strings.TrimSpace(v)
	}
	return &properties{values: copied}
}

type properties struct {
	values map[string]string
}

func (props *properties) GetValues() map[string]string {
	return props.values
}

func (props *properties) GetString(key string, defaultValue string) string {
	if v, ok := props.values[key]; ok && v != "" {
		return v
	}
	return defaultValue
}

func (props *properties) GetInt(key string, defaultValue int) (int, error) {
	v, ok := props.values[key]
	if !ok || v == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("property '%s' must be an integer, given value: %s", key, v)
	}
	return i, nil
}

func (props *properties) GetBool(key string, defaultValue bool) (bool, error) {
	v, ok := props.values[key]
	if !ok || v == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("property '%s' must be a boolean, given value: %s", key, v)
	}
	return b, nil
}

func (props *properties) MustHave(keys ...string) error {
	for _, key := range keys {
		if strings.TrimSpace(props.values[key]) == "" {
			return fmt.Errorf("property '%s' is required", key)
		}
	}
	return nil
}
