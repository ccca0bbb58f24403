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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strconv"
	"testing"
)

func TestRange1Function(t *testing.T) {
	s := runTestScript("range(1,10)", t)
	assert.Equal(t, 10, len(s))
	assert.Equal(t, "1", s[0])
	assert.Equal(t, "10", s[9])
}

func TestRangeIncludesEnd(t *testing.T) {
	s := runTestScript("range(1,3)", t)
	assert.Equal(t, []string{"1", "2", "3"}, s)

	s = runTestScript("range(4, 4)", t)
	assert.Equal(t, []string{"4"}, s)
}

func TestRangeWithVariables(t *testing.T) {
	c, err := ParseScript("range(a, a+2)", "a")
	require.NoError(t, err)
	s, err := c.Execute(NewVariable("a", 7))
	require.NoError(t, err)
	assert.Equal(t, []string{"7", "8", "9"}, s)
}

func TestRange2Function(t *testing.T) {
	s := runTestScript("range(5,10)", t)
	assert.Equal(t, 6, len(s))
}

func TestRangeTooLarge(t *testing.T) {
	c, err := ParseScript("range(0, 100000)")
	require.NoError(t, err)
	_, err = c.Execute()
	assert.Error(t, err)
}

func TestArray(t *testing.T) {
	s := runTestScript("[2,3,5,7]", t)
	assert.Equal(t, []string{"2", "3", "5", "7"}, s)
}

func TestVar(t *testing.T) {
	c, err := ParseScript("a+b", "a", "b")
	require.NoError(t, err)

	s, err := c.Execute(NewVariable("a", 3), NewVariable("b", int64(4)))
	require.NoError(t, err)
	require.Equal(t, 1, len(s))

	v, _ := strconv.Atoi(s[0])
	assert.Equal(t, 7, v)
}

func TestUndeclaredVar(t *testing.T) {
	_, err := ParseScript("a+b", "a")
	assert.Error(t, err)
}

func TestInvalidReturnType(t *testing.T) {
	c, err := ParseScript("true")
	require.NoError(t, err)
	_, err = c.Execute()
	assert.Error(t, err)
}

func runTestScript(script string, t *testing.T) []string {
	c, err := ParseScript(script)
	require.Nil(t, err, "compile script fault: %s", script)
	r, err := c.Execute()
	require.Nil(t, err, "run script fault: %s", script)
	return r
}
