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
	"fmt"
	"strings"

	"github.com/emirpasic/gods/utils"
	"github.com/endink/go-sharding-router/core/comparison"
	"github.com/stretchr/testify/assert"
)

// AssertStrArrayEquals fails unless both arrays hold the same strings, the order is ignored.
func AssertStrArrayEquals(t assert.TestingT, excepted []string, actual []string, msgAndArgs ...interface{}) bool {
	return AssertValuesEqual(t, toValues(excepted), toValues(actual), msgAndArgs...)
}

// AssertValuesEqual compares sharding values regardless of order, int 7 and int64 7 are the same value.
func AssertValuesEqual(t assert.TestingT, excepted []interface{}, actual []interface{}, msgAndArgs ...interface{}) bool {
	e, a := sortedValues(excepted), sortedValues(actual)
	if len(e) == len(a) {
		same := true
		for i := range e {
			if !comparison.Equal(e[i], a[i]) {
				same = false
				break
			}
		}
		if same {
			return true
		}
	}
	return assert.Fail(t, fmt.Sprintf("values not same\nexcepted: %s\nactual:   %s", joinValues(e), joinValues(a)), msgAndArgs...)
}

func sortedValues(values []interface{}) []interface{} {
	sorted := append([]interface{}(nil), values...)
	utils.Sort(sorted, func(a, b interface{}) int {
		c, err := comparison.Compare(a, b)
		if err != nil {
			return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
		}
		return c
	})
	return sorted
}

func joinValues(values []interface{}) string {
	if len(values) == 0 {
		return "<empty>"
	}
	items := make([]string, len(values))
	for i, v := range values {
		items[i] = fmt.Sprint(v)
	}
	return strings.Join(items, ", ")
}

func toValues(values []string) []interface{} {
	r := make([]interface{}, len(values))
	for i, v := range values {
		r[i] = v
	}
	return r
}
