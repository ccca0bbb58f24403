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

package script

import (
	"fmt"

	"github.com/d5/tengo/v2"
)

type CompiledScript interface {
	Raw() string
	// Execute runs the script on a private copy, it is safe for concurrent use.
	Execute(variables ...*Variable) ([]string, error)
}

type tengoScript struct {
	raw       string
	compiled  *tengo.Compiled
	resultVar string
}

func (script *tengoScript) Raw() string {
	return script.raw
}

func (script *tengoScript) Execute(variables ...*Variable) ([]string, error) {
	compiled := script.compiled.Clone()
	for _, v := range variables {
		value, err := toScriptValue(v.Value)
		if err != nil {
			return nil, err
		}
		if err = compiled.Set(v.Name, value); err != nil {
			return nil, fmt.Errorf("set variable '%s' fault: %v", v.Name, err)
		}
	}
	if err := compiled.Run(); err != nil {
		return nil, err
	}
	v := compiled.Get(script.resultVar)
	switch value := v.Value().(type) {
	case []interface{}:
		list := make([]string, 0, len(value))
		for _, item := range value {
			s, ok := scalarString(item)
			if !ok {
				return nil, invalidReturnTypeError(script.raw, v)
			}
			list = append(list, s)
		}
		return list, nil
	default:
		s, ok := scalarString(value)
		if !ok {
			return nil, invalidReturnTypeError(script.raw, v)
		}
		return []string{s}, nil
	}
}

func scalarString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case int64, float64, string:
		return fmt.Sprint(v), true
	case rune:
		return string(v), true
	}
	return "", false
}

func invalidReturnTypeError(raw string, v *tengo.Variable) error {
	return fmt.Errorf("script return invalid type, excepted number, string or an array of them\nscript: %s\nreturn type: %s", raw, v.ValueType())
}
