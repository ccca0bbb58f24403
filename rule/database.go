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

package rule

import (
	"github.com/endink/go-sharding-router/core"
	"github.com/scylladb/go-set/strset"
)

// Database is the known table metadata of the logical schema, used by DDL checks.
type Database struct {
	Name   string
	tables *strset.Set
}

func NewDatabase(name string, tables ...string) *Database {
	return &Database{Name: name, tables: strset.New(core.TrimAndLowerArray(tables)...)}
}

// HasTable reports whether the table is known, a nil database knows nothing.
func (d *Database) HasTable(name string) bool {
	if d == nil {
		return false
	}
	return d.tables.Has(core.TrimAndLower(name))
}

func (d *Database) TableNames() []string {
	if d == nil {
		return nil
	}
	return d.tables.List()
}
