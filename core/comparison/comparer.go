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

package comparison

import (
	"fmt"
	"math"
	"strings"
)

// Normalize converts a sharding value to one of int64, uint64, float64 or string.
func Normalize(value interface{}) (interface{}, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return uint64(v), true
	case uint8:
		return uint64(v), true
	case uint16:
		return uint64(v), true
	case uint32:
		return uint64(v), true
	case uint64:
		return v, true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case string:
		return v, true
	case []byte:
		return string(v), true
	}
	return nil, false
}

func IsCompareSupported(value interface{}) bool {
	_, ok := Normalize(value)
	return ok
}

// Compare orders two values. Integers and floats of any width compare by numeric value,
// strings compare with strings only.
func Compare(a, b interface{}) (int, error) {
	na, ok := Normalize(a)
	if !ok {
		return 0, fmt.Errorf("unsupported type for comparison: %T", a)
	}
	nb, ok := Normalize(b)
	if !ok {
		return 0, fmt.Errorf("unsupported type for comparison: %T", b)
	}

	if sa, isStr := na.(string); isStr {
		sb, ok := nb.(string)
		if !ok {
			return 0, fmt.Errorf("values have different types cannot be compared, a: %#v, b: %#v", a, b)
		}
		return strings.Compare(sa, sb), nil
	}
	if _, isStr := nb.(string); isStr {
		return 0, fmt.Errorf("values have different types cannot be compared, a: %#v, b: %#v", a, b)
	}

	switch x := na.(type) {
	case int64:
		switch y := nb.(type) {
		case int64:
			return compareInt64(x, y), nil
		case uint64:
			if x < 0 {
				return -1, nil
			}
			return compareUInt64(uint64(x), y), nil
		case float64:
			return compareFloat64(float64(x), y), nil
		}
	case uint64:
		switch y := nb.(type) {
		case int64:
			if y < 0 {
				return 1, nil
			}
			return compareUInt64(x, uint64(y)), nil
		case uint64:
			return compareUInt64(x, y), nil
		case float64:
			return compareFloat64(float64(x), y), nil
		}
	case float64:
		return compareFloat64(x, toFloat64(nb)), nil
	}
	return 0, fmt.Errorf("unsupported type for comparison: %T", a)
}

// Equal reports whether two values are equal under Compare, incomparable values are not equal.
func Equal(a, b interface{}) bool {
	r, err := Compare(a, b)
	return err == nil && r == 0
}

func Min(a, b interface{}) (interface{}, error) {
	r, err := Compare(a, b)
	if err != nil {
		return nil, err
	}
	if r <= 0 {
		return a, nil
	}
	return b, nil
}

func Max(a, b interface{}) (interface{}, error) {
	r, err := Compare(a, b)
	if err != nil {
		return nil, err
	}
	if r >= 0 {
		return a, nil
	}
	return b, nil
}

// ToInt64 converts an integral value, floats are accepted when they have no fraction.
func ToInt64(value interface{}) (int64, bool) {
	n, ok := Normalize(value)
	if !ok {
		return 0, false
	}
	switch v := n.(type) {
	case int64:
		return v, true
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case float64:
		if v != math.Trunc(v) || v > math.MaxInt64 || v < math.MinInt64 {
			return 0, false
		}
		return int64(v), true
	}
	return 0, false
}

func toFloat64(v interface{}) float64 {
	switch n := v.(type) {
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	case float64:
		return n
	}
	return math.NaN()
}

func compareInt64(x, y int64) int {
	if x < y {
		return -1
	} else if x == y {
		return 0
	}
	return 1
}

func compareUInt64(x, y uint64) int {
	if x < y {
		return -1
	} else if x == y {
		return 0
	}
	return 1
}

func compareFloat64(x, y float64) int {
	if x < y {
		return -1
	} else if x == y {
		return 0
	}
	return 1
}
