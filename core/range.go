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
	"errors"
	"fmt"
	"github.com/endink/go-sharding-router/core/comparison"
)

// Range is a possibly unbounded interval of comparable sharding values.
type Range interface {
	fmt.Stringer
	LowerBound() interface{}
	UpperBound() interface{}
	HasLower() bool
	HasUpper() bool
	LowerClosed() bool
	UpperClosed() bool
	Contains(value interface{}) (bool, error)
	// Intersect returns nil when both ranges have nothing in common.
	Intersect(value Range) (Range, error)
	HasIntersection(v Range) (bool, error)
}

var (
	ErrRangeBoundTypeNotSame     = errors.New("different types of boundary values cannot create range")
	ErrRangeInvalidBound         = errors.New("the lower bound of the range cannot be greater than the upper bound")
	ErrRangeBoundTypeUnsupported = errors.New("boundary value types for the range are not supported")
)

type defaultRange struct {
	Lower  interface{}
	Upper  interface{}
	HasL   bool
	HasU   bool
	LowerC bool
	UpperC bool
}

// NewRange creates a closed range, a nil bound means unbounded.
func NewRange(min interface{}, max interface{}) (Range, error) {
	return NewRangeWithBounds(min, true, max, true)
}

func NewRangeWithBounds(min interface{}, minClosed bool, max interface{}, maxClosed bool) (Range, error) {
	r := &defaultRange{}

	if min != nil {
		if !comparison.IsCompareSupported(min) {
			return nil, ErrRangeBoundTypeUnsupported
		}
		r.HasL = true
		r.Lower = min
		r.LowerC = minClosed
	}

	if max != nil {
		if !comparison.IsCompareSupported(max) {
			return nil, ErrRangeBoundTypeUnsupported
		}
		r.HasU = true
		r.Upper = max
		r.UpperC = maxClosed
	}

	if r.HasL && r.HasU {
		c, err := comparison.Compare(r.Lower, r.Upper)
		if err != nil {
			return nil, ErrRangeBoundTypeNotSame
		}
		if c > 0 || (c == 0 && !(r.LowerC && r.UpperC)) {
			return nil, ErrRangeInvalidBound
		}
	}

	return r, nil
}

func AtLeast(v interface{}) (Range, error) {
	return NewRangeWithBounds(v, true, nil, false)
}

func GreaterThan(v interface{}) (Range, error) {
	return NewRangeWithBounds(v, false, nil, false)
}

func AtMost(v interface{}) (Range, error) {
	return NewRangeWithBounds(nil, false, v, true)
}

func LessThan(v interface{}) (Range, error) {
	return NewRangeWithBounds(nil, false, v, false)
}

func (d *defaultRange) LowerBound() interface{} {
	return d.Lower
}

func (d *defaultRange) UpperBound() interface{} {
	return d.Upper
}

func (d *defaultRange) HasLower() bool {
	return d.HasL
}

func (d *defaultRange) HasUpper() bool {
	return d.HasU
}

func (d *defaultRange) LowerClosed() bool {
	return d.HasL && d.LowerC
}

func (d *defaultRange) UpperClosed() bool {
	return d.HasU && d.UpperC
}

func (d *defaultRange) Contains(value interface{}) (bool, error) {
	if d.HasL {
		r, err := comparison.Compare(d.Lower, value)
		if err != nil {
			return false, err
		}
		if r > 0 || (r == 0 && !d.LowerC) {
			return false, nil
		}
	}

	if d.HasU {
		r, err := comparison.Compare(d.Upper, value)
		if err != nil {
			return false, err
		}
		if r < 0 || (r == 0 && !d.UpperC) {
			return false, nil
		}
	}

	return true, nil
}

func (d *defaultRange) HasIntersection(v Range) (bool, error) {
	r, err := d.Intersect(v)
	if err != nil {
		return false, err
	}
	return r != nil, nil
}

func (d *defaultRange) Intersect(v Range) (Range, error) {
	if v == nil {
		return nil, errors.New("the range used to intersect cannot be nil")
	}

	result := &defaultRange{}

	switch {
	case d.HasL && v.HasLower():
		c, err := comparison.Compare(d.Lower, v.LowerBound())
		if err != nil {
			return nil, err
		}
		switch {
		case c > 0:
			result.Lower, result.LowerC = d.Lower, d.LowerC
		case c < 0:
			result.Lower, result.LowerC = v.LowerBound(), v.LowerClosed()
		default:
			result.Lower, result.LowerC = d.Lower, d.LowerC && v.LowerClosed()
		}
		result.HasL = true
	case d.HasL:
		result.Lower, result.LowerC, result.HasL = d.Lower, d.LowerC, true
	case v.HasLower():
		result.Lower, result.LowerC, result.HasL = v.LowerBound(), v.LowerClosed(), true
	}

	switch {
	case d.HasU && v.HasUpper():
		c, err := comparison.Compare(d.Upper, v.UpperBound())
		if err != nil {
			return nil, err
		}
		switch {
		case c < 0:
			result.Upper, result.UpperC = d.Upper, d.UpperC
		case c > 0:
			result.Upper, result.UpperC = v.UpperBound(), v.UpperClosed()
		default:
			result.Upper, result.UpperC = d.Upper, d.UpperC && v.UpperClosed()
		}
		result.HasU = true
	case d.HasU:
		result.Upper, result.UpperC, result.HasU = d.Upper, d.UpperC, true
	case v.HasUpper():
		result.Upper, result.UpperC, result.HasU = v.UpperBound(), v.UpperClosed(), true
	}

	if result.HasL && result.HasU {
		c, err := comparison.Compare(result.Lower, result.Upper)
		if err != nil {
			return nil, err
		}
		if c > 0 || (c == 0 && !(result.LowerC && result.UpperC)) {
			return nil, nil
		}
	}
	return result, nil
}

func (d *defaultRange) String() string {
	left, right := "(", ")"
	var min, max string
	if d.HasL {
		min = fmt.Sprint(d.Lower)
		if d.LowerC {
			left = "["
		}
	}
	if d.HasU {
		max = fmt.Sprint(d.Upper)
		if d.UpperC {
			right = "]"
		}
	}
	return fmt.Sprintf("%s%s..%s%s", left, min, max, right)
}
