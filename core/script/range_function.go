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

package script

import (
	"errors"

	"github.com/d5/tengo/v2"
)

const (
	maxRangeSize  = 65536
	rangeFuncName = "_range"
)

// RangeFunction backs 'range(begin, end)' in inline expressions, both ends are included.
var RangeFunction = &tengo.UserFunction{
	Name:  rangeFuncName,
	Value: rangeCall,
}

func rangeCall(args ...tengo.Object) (ret tengo.Object, err error) {
	if len(args) != 2 {
		return nil, tengo.ErrWrongNumArguments
	}

	s1, ok := tengo.ToInt64(args[0])
	if !ok {
		return nil, tengo.ErrInvalidArgumentType{
			Name:     "begin",
			Expected: "int",
			Found:    args[0].TypeName(),
		}
	}

	s2, ok := tengo.ToInt64(args[1])
	if !ok {
		return nil, tengo.ErrInvalidArgumentType{
			Name:     "end",
			Expected: "int",
			Found:    args[1].TypeName(),
		}
	}

	if s1 > s2 {
		return nil, errors.New("the begin parameter must be less than or equal to the end argument for using 'range' function in inline expression")
	}
	if s2-s1 >= maxRangeSize {
		return nil, errors.New("too many elements for 'range' function in inline expression")
	}

	array := make([]tengo.Object, 0, s2-s1+1)
	for i := s1; i <= s2; i++ {
		array = append(array, &tengo.Int{Value: i})
	}

	return &tengo.ImmutableArray{
		Value: array,
	}, nil
}
