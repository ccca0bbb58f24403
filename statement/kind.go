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

package statement

// Category is the top level classification of a statement.
type Category int

const (
	CategoryUnknown Category = iota
	TCL
	DDL
	DAL
	DCL
	DML
	DQL
)

var categoryNames = []string{"Unknown", "TCL", "DDL", "DAL", "DCL", "DML", "DQL"}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return ""
	}
	return categoryNames[c]
}

// Kind is the closed set of statement kinds, decided once when a statement is bound.
type Kind int

// The following are Kind values.
const (
	KindUnknown Kind = iota

	// TCL
	KindBegin
	KindCommit
	KindRollback
	KindSavepoint
	KindSetTransaction

	// DDL
	KindCreateTable
	KindAlterTable
	KindDropTable
	KindRenameTable
	KindTruncateTable
	KindCreateIndex
	KindDropIndex
	KindCreateView
	KindAlterView
	KindDropView
	KindCreateDatabase
	KindAlterDatabase
	KindDropDatabase
	KindCreateFunction
	KindAlterFunction
	KindDropFunction
	KindCreateProcedure
	KindAlterProcedure
	KindDropProcedure
	KindCreateTablespace
	KindAlterTablespace
	KindDropTablespace
	KindPrepare
	KindDeclareCursor
	KindFetchCursor
	KindMoveCursor
	KindCloseCursor

	// DAL
	KindUse
	KindSet
	KindResetParameter
	KindShowDatabases
	KindShowTables
	KindShowColumns
	KindShowOther
	KindLoad
	// KindCreateResourceGroup and KindSetResourceGroup are the only resource group kinds.
	KindCreateResourceGroup
	KindSetResourceGroup
	KindOptimizeTable
	KindAnalyzeTable
	KindFlush
	KindExplain
	KindKill

	// DCL
	KindGrant
	KindRevoke
	KindCreateUser
	KindAlterUser
	KindDropUser
	KindRenameUser
	KindSetPassword

	// DML
	KindInsert
	KindUpdate
	KindDelete
	KindCall

	// DQL
	KindSelect

	NumKinds
)

// Must exactly match order of kind constants.
var kindNames = []string{
	"Unknown",
	"Begin",
	"Commit",
	"Rollback",
	"Savepoint",
	"SetTransaction",
	"CreateTable",
	"AlterTable",
	"DropTable",
	"RenameTable",
	"TruncateTable",
	"CreateIndex",
	"DropIndex",
	"CreateView",
	"AlterView",
	"DropView",
	"CreateDatabase",
	"AlterDatabase",
	"DropDatabase",
	"CreateFunction",
	"AlterFunction",
	"DropFunction",
	"CreateProcedure",
	"AlterProcedure",
	"DropProcedure",
	"CreateTablespace",
	"AlterTablespace",
	"DropTablespace",
	"Prepare",
	"DeclareCursor",
	"FetchCursor",
	"MoveCursor",
	"CloseCursor",
	"Use",
	"Set",
	"ResetParameter",
	"ShowDatabases",
	"ShowTables",
	"ShowColumns",
	"ShowOther",
	"Load",
	"CreateResourceGroup",
	"SetResourceGroup",
	"OptimizeTable",
	"AnalyzeTable",
	"Flush",
	"Explain",
	"Kill",
	"Grant",
	"Revoke",
	"CreateUser",
	"AlterUser",
	"DropUser",
	"RenameUser",
	"SetPassword",
	"Insert",
	"Update",
	"Delete",
	"Call",
	"Select",
}

func (k Kind) String() string {
	if k < 0 || k >= NumKinds {
		return ""
	}
	return kindNames[k]
}

// KindByName find a Kind by its string name.
func KindByName(s string) (k Kind, ok bool) {
	for i, v := range kindNames {
		if v == s {
			return Kind(i), true
		}
	}
	return NumKinds, false
}

func (k Kind) Category() Category {
	switch {
	case k >= KindBegin && k <= KindSetTransaction:
		return TCL
	case k >= KindCreateTable && k <= KindCloseCursor:
		return DDL
	case k >= KindUse && k <= KindKill:
		return DAL
	case k >= KindGrant && k <= KindSetPassword:
		return DCL
	case k >= KindInsert && k <= KindCall:
		return DML
	case k == KindSelect:
		return DQL
	}
	return CategoryUnknown
}

// IsCursor returns true for the statements working on a declared cursor.
func (k Kind) IsCursor() bool {
	return k >= KindDeclareCursor && k <= KindCloseCursor
}

func (k Kind) IsFunctionOrProcedure() bool {
	return k >= KindCreateFunction && k <= KindDropProcedure
}

func (k Kind) IsTablespace() bool {
	return k >= KindCreateTablespace && k <= KindDropTablespace
}

func (k Kind) IsResourceGroup() bool {
	return k == KindCreateResourceGroup || k == KindSetResourceGroup
}

// IsDataModification is true for the kinds writing rows.
func (k Kind) IsDataModification() bool {
	return k == KindInsert || k == KindUpdate || k == KindDelete
}
