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

package validator

import (
	"github.com/endink/go-sharding-router/routing/condition"
	"github.com/endink/go-sharding-router/routing/route"
	"github.com/endink/go-sharding-router/rule"
	"github.com/endink/go-sharding-router/statement"
)

// Validator rejects statements whose sharding semantics are unsafe, PreValidate runs before
// routing and PostValidate checks the route.
type Validator interface {
	PreValidate(r *rule.ShardingRule, qc *statement.QueryContext, db *rule.Database, conds *condition.Conditions) error
	PostValidate(r *rule.ShardingRule, qc *statement.QueryContext, db *rule.Database, ctx *route.Context) error
}

// Select returns the validator of the statement kind, only DDL and DML statements have one.
func Select(stmt *statement.Bound) (Validator, bool) {
	switch stmt.Category() {
	case statement.DDL:
		return ddlValidator(stmt.Kind)
	case statement.DML:
		return dmlValidator(stmt.Kind)
	}
	return nil, false
}

func ddlValidator(kind statement.Kind) (Validator, bool) {
	switch kind {
	case statement.KindCreateTable:
		return &CreateTable{}, true
	case statement.KindCreateView:
		return &CreateView{}, true
	case statement.KindAlterTable:
		return &AlterTable{}, true
	case statement.KindRenameTable:
		return &RenameTable{}, true
	case statement.KindDropTable:
		return &DropTable{}, true
	case statement.KindCreateIndex:
		return &CreateIndex{}, true
	case statement.KindDropIndex:
		return &DropIndex{}, true
	case statement.KindPrepare:
		return &Prepare{}, true
	}
	return nil, false
}

func dmlValidator(kind statement.Kind) (Validator, bool) {
	switch kind {
	case statement.KindInsert:
		return &Insert{}, true
	case statement.KindUpdate:
		return &Update{}, true
	case statement.KindDelete:
		return &Delete{}, true
	}
	return nil, false
}

// noop gives validators without a pre or post check the missing half.
type noopPre struct{}

func (noopPre) PreValidate(*rule.ShardingRule, *statement.QueryContext, *rule.Database, *condition.Conditions) error {
	return nil
}

type noopPost struct{}

func (noopPost) PostValidate(*rule.ShardingRule, *statement.QueryContext, *rule.Database, *route.Context) error {
	return nil
}
