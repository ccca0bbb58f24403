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

package binder

import "github.com/pingcap/parser/ast"

var _ ast.Visitor = &walkVisitor{}

// Visit is called for every node, returning false skips the children of the node.
type Visit func(node ast.Node) (kontinue bool)

// Walk calls visit on every node of the trees.
func Walk(visit Visit, nodes ...ast.Node) {
	v := &walkVisitor{visit: visit}
	for _, node := range nodes {
		if node == nil {
			continue
		}
		node.Accept(v)
	}
}

type walkVisitor struct {
	visit Visit
}

func (w *walkVisitor) Enter(n ast.Node) (node ast.Node, skipChildren bool) {
	return n, !w.visit(n)
}

func (w *walkVisitor) Leave(n ast.Node) (node ast.Node, ok bool) {
	return n, true
}
