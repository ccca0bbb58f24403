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
	"strings"
)

// DataNode is one physical table located in one data source.
type DataNode struct {
	DataSource string
	Table      string
}

// ParseDataNode parses the "data_source.table" notation.
func ParseDataNode(expr string) (*DataNode, error) {
	parts := strings.Split(strings.TrimSpace(expr), ".")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid data node '%s', format 'data_source.table' expected", expr)
	}
	ds, table := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if ds == "" || table == "" {
		return nil, fmt.Errorf("invalid data node '%s', data source and table can not be empty", expr)
	}
	return &DataNode{DataSource: ds, Table: TrimAndLower(table)}, nil
}

func (n DataNode) String() string {
	return n.DataSource + "." + n.Table
}
