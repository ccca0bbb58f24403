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

	"github.com/endink/go-sharding-router/routing/route"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var sortStrings = cmpopts.SortSlices(func(a, b string) bool { return a < b })

// MustMatchRoute fails the test unless the route holds exactly the units written like
// Unit.String, in any order.
func MustMatchRoute(t testing.TB, want []string, got *route.Context) {
	t.Helper()
	var actual []string
	for _, u := range got.Units() {
		actual = append(actual, u.String())
	}
	if diff := cmp.Diff(want, actual, sortStrings, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("route units differ (-want +got)\n%s", diff)
	}
}

// MustMatchUnits diffs the units field by field, the order of units and of their tables matters.
func MustMatchUnits(t testing.TB, want []*route.Unit, got *route.Context) {
	t.Helper()
	if diff := cmp.Diff(want, got.Units(), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("route units differ (-want +got)\n%s", diff)
	}
}
