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
	"math"
	"regexp"

	"github.com/d5/tengo/v2"
	"github.com/endink/go-sharding-router/core/comparison"
)

const resultVar = "_r"

// tengo ships an exclusive 'range' builtin which would shadow ours, calls are renamed before compiling.
var rangeCallRegex = regexp.MustCompile(`\brange\s*\(`)

func rewriteRangeCalls(script string) string {
	return rangeCallRegex.ReplaceAllString(script, rangeFuncName+"(")
}

type Variable struct {
	Name  string
	Value interface{}
}

func NewVariable(name string, value interface{}) *Variable {
	return &Variable{Name: name, Value: value}
}

func (v *Variable) String() string {
	return fmt.Sprintf("%s=%v", v.Name, v.Value)
}

type Compiler interface {
	// Var declares a variable, the value is the default one used when Execute does not override it.
	Var(name string, value interface{}) error
	Compile() (CompiledScript, error)
}

type scriptParser struct {
	script *tengo.Script
	raw    string
}

func (s *scriptParser) Compile() (CompiledScript, error) {
	c, err := s.script.Compile()
	if err != nil {
		return nil, err
	}
	return &tengoScript{
		raw:       s.raw,
		compiled:  c,
		resultVar: resultVar,
	}, nil
}

func (s *scriptParser) Var(name string, value interface{}) error {
	v, err := toScriptValue(value)
	if err != nil {
		return err
	}
	if err := s.script.Add(name, v); err != nil {
		return fmt.Errorf("add variable '%s' to compile fault, %s", name, err)
	}
	return nil
}

func NewScriptParser(script string) (Compiler, error) {
	content := fmt.Sprintf("%s:=%s", resultVar, rewriteRangeCalls(script))
	s := tengo.NewScript([]byte(content))
	if err := s.Add(rangeFuncName, RangeFunction); err != nil {
		return nil, err
	}
	return &scriptParser{
		raw:    script,
		script: s,
	}, nil
}

// ParseScript compiles a script declaring the given variable names.
func ParseScript(script string, variables ...string) (CompiledScript, error) {
	parser, err := NewScriptParser(script)
	if err != nil {
		return nil, err
	}
	for _, name := range variables {
		if err := parser.Var(name, nil); err != nil {
			return nil, err
		}
	}
	return parser.Compile()
}

// tengo has no unsigned integers, values out of int64 range are passed as strings.
func toScriptValue(value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	if b, ok := value.(bool); ok {
		return b, nil
	}
	n, ok := comparison.Normalize(value)
	if !ok {
		return nil, fmt.Errorf("value type %T can not be used in inline expression", value)
	}
	if u, isUint := n.(uint64); isUint {
		if u > math.MaxInt64 {
			return fmt.Sprint(u), nil
		}
		return int64(u), nil
	}
	return n, nil
}
