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
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/endink/go-sharding-router/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRuleFile(t *testing.T) string {
	file := filepath.Join(t.TempDir(), "sharding.yaml")
	require.NoError(t, os.WriteFile(file, []byte(testkit.OrderRuleYAML), 0o600))
	return file
}

func run(t *testing.T, args ...string) (string, error) {
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestExplainYAML(t *testing.T) {
	file := writeRuleFile(t)
	out, err := run(t, "explain", "select * from t_order where order_id = ?", "-p", "7", "-c", file)
	require.NoError(t, err)
	assert.Contains(t, out, "kind: Select")
	assert.Contains(t, out, "engine: Standard")
	assert.Contains(t, out, "actual: t_order_3")
	assert.Contains(t, out, "actual: ds1")
}

func TestExplainText(t *testing.T) {
	file := writeRuleFile(t)
	out, err := run(t, "explain", "select * from t_log", "--table-hint", "t_log=3", "-o", "text", "-c", file)
	require.NoError(t, err)
	assert.Equal(t, "Select routed by Standard to 1 units\nds0[t_log->t_log_1]\n", out)

	out, err = run(t, "explain", "create table t_user (user_id int)", "-o", "text", "-c", file)
	require.NoError(t, err)
	assert.Contains(t, out, "routed by TableBroadcast to 2 units")
}

func TestExplainRejected(t *testing.T) {
	file := writeRuleFile(t)
	_, err := run(t, "explain", "update t_order set order_id = 98 where order_id = 7", "-c", file)
	assert.Error(t, err)

	_, err = run(t, "explain", "select 1", "-o", "xml", "-c", file)
	assert.Error(t, err)

	_, err = run(t, "explain", "select * from t_log", "--table-hint", "3", "-c", file)
	assert.Error(t, err)
}

func TestCheckAndAlgorithms(t *testing.T) {
	file := writeRuleFile(t)
	out, err := run(t, "check", "-c", file)
	require.NoError(t, err)
	assert.Equal(t, "sharding rule is valid: 3 data sources\n", out)

	out, err = run(t, "algorithms")
	require.NoError(t, err)
	for _, name := range []string{"INLINE", "MOD", "HASH_MOD", "JUMP_HASH", "BOUNDARY_RANGE"} {
		assert.Contains(t, out, name)
	}
}

func TestParseParams(t *testing.T) {
	assert.Equal(t, []interface{}{int64(7), "abc", "1.5"}, parseParams([]string{"7", "abc", "1.5"}))

	hint, err := parseHints([]string{"T_Log = 1"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{int64(1)}, hint.DatabaseHints("t_log"))

	hint, err = parseHints(nil, nil)
	assert.NoError(t, err)
	assert.Nil(t, hint)
}
