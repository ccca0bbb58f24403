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
	"errors"
	"fmt"
	"regexp"
	"strings"
)

type SegmentValidator func(string) error

var shortRangeRegex = regexp.MustCompile(`^(-?\d+)\s*\.\.\s*(-?\d+)$`)

type inlineSegmentGroup struct {
	segments []*inlineSegment
}

type inlineSegment struct {
	rawScript string
	prefix    string
	script    CompiledScript
}

type splitContext struct {
	prefix    *strings.Builder
	rawScript *strings.Builder
	variables []string
	segments  []*inlineSegment
}

func (seg *inlineSegment) isBlank() bool {
	return strings.TrimSpace(seg.prefix) == "" && strings.TrimSpace(seg.rawScript) == ""
}

// splitSegments splits a comma separated inline expression into groups, each group is a
// sequence of literal prefixes and ${...} scripts. A single '.' is allowed per group outside scripts.
func splitSegments(exp string, validator SegmentValidator, variables ...string) ([]*inlineSegmentGroup, error) {
	isScript := false
	depth := 0
	expLen := len(exp)
	includeSplitter := false

	groups := make([]*inlineSegmentGroup, 0)

	syntaxError := func(message string, index int) error {
		var sb strings.Builder
		sb.WriteString("inline expression syntax error\n")
		sb.WriteString(message)
		sb.WriteString(fmt.Sprintf("\nexpression: %s", exp))
		if index >= 0 {
			sb.WriteString(fmt.Sprintf("\nchar index: %d", index))
		}
		return errors.New(sb.String())
	}

	context := &splitContext{
		prefix:    &strings.Builder{},
		rawScript: &strings.Builder{},
		variables: variables,
	}

	prefix := context.prefix
	rawScript := context.rawScript

	for i := 0; i < expLen; i++ {
		char := exp[i]
		if isScript {
			switch char {
			case '{':
				depth++
				rawScript.WriteByte(char)
			case '}':
				if depth == 0 {
					isScript = false
					if err := context.flushSegment(validator); err != nil {
						return nil, syntaxError(err.Error(), i)
					}
				} else {
					depth--
					rawScript.WriteByte(char)
				}
			default:
				rawScript.WriteByte(char)
			}
			continue
		}

		switch char {
		case '$':
			if i < (expLen-1) && '{' == exp[i+1] {
				isScript = true
				i++
			} else {
				return nil, syntaxError("'{' symbol is missing after the symbol '$'", i)
			}
		case '.':
			if i == 0 || i == (expLen-1) {
				return nil, syntaxError("should not appear symbol '.' at beginning and end of the inline expression", i)
			}
			if includeSplitter {
				return nil, syntaxError("should not appear symbol '.'", i)
			}
			includeSplitter = true
			prefix.WriteByte(char)
		case ',':
			g, err := context.flushGroup(validator)
			if err != nil {
				return nil, syntaxError(err.Error(), i)
			}
			groups = append(groups, g)
			includeSplitter = false
		default:
			prefix.WriteByte(char)
		}
	}

	if isScript {
		return nil, syntaxError("symbol '}' used to end the script are missing", -1)
	}

	g, err := context.flushGroup(validator)
	if err != nil {
		return nil, syntaxError(err.Error(), expLen)
	}
	return append(groups, g), nil
}

func (context *splitContext) flushGroup(validator SegmentValidator) (*inlineSegmentGroup, error) {
	if err := context.flushSegment(validator); err != nil {
		return nil, err
	}
	g := &inlineSegmentGroup{
		segments: context.segments,
	}
	context.segments = nil
	return g, nil
}

func (context *splitContext) flushSegment(validator SegmentValidator) error {
	seg := &inlineSegment{
		prefix:    strings.TrimSpace(context.prefix.String()),
		rawScript: strings.TrimSpace(context.rawScript.String()),
	}
	if !seg.isBlank() {
		if seg.rawScript != "" {
			raw := seg.rawScript
			if m := shortRangeRegex.FindStringSubmatch(raw); m != nil {
				raw = fmt.Sprintf("range(%s,%s)", m[1], m[2])
			}
			s, err := ParseScript(raw, context.variables...)
			if err != nil {
				return err
			}
			seg.script = s
		}
		if validator != nil {
			if e := validator(seg.prefix); e != nil {
				return e
			}
		}
		context.segments = append(context.segments, seg)
	}

	context.prefix.Reset()
	context.rawScript.Reset()
	return nil
}
