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

package testkit

import (
	"testing"

	"github.com/endink/go-sharding-router/binder"
	"github.com/endink/go-sharding-router/statement"
	"github.com/pingcap/parser/ast"
)

// ParseForTest parses one statement with the pooled parser and fails the test on any error.
func ParseForTest(sql string, t testing.TB) ast.StmtNode {
	node, err := binder.ParseSQL(sql)
	if err != nil {
		t.Fatalf("%s\nsql err:%v", sql, err.Error())
	}
	return node
}

// BindForTest binds the sql text and fails the test on any error.
func BindForTest(sql string, t testing.TB) *statement.Bound {
	stmt, err := binder.BindNode(ParseForTest(sql, t), sql)
	if err != nil {
		t.Fatalf("%s\nbind err:%v", sql, err)
	}
	return stmt
}

// QueryForTest binds the sql text with its parameters.
func QueryForTest(t testing.TB, sql string, params ...interface{}) *statement.QueryContext {
	return statement.NewQueryContext(BindForTest(sql, t), params...)
}
