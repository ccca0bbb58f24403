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

package rerrors

import (
	"fmt"

	"github.com/pingcap/errors"
)

// Kind classifies a statement rejection.
type Kind int

const (
	UnsupportedStatementShape Kind = iota + 1
	InconsistentRouteResult
	LimitWithMultiNodeRoute
	UnroutableCondition
)

var kindNames = map[Kind]string{
	UnsupportedStatementShape: "UnsupportedStatementShape",
	InconsistentRouteResult:   "InconsistentRouteResult",
	LimitWithMultiNodeRoute:   "LimitWithMultiNodeRoute",
	UnroutableCondition:       "UnroutableCondition",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "Unknown"
}

type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(kind Kind, cause error, format string, args ...interface{}) error {
	return errors.WithStack(&Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause})
}

func Unsupported(format string, args ...interface{}) error {
	return newError(UnsupportedStatementShape, nil, format, args...)
}

func Inconsistent(format string, args ...interface{}) error {
	return newError(InconsistentRouteResult, nil, format, args...)
}

func LimitWithMultiNode(format string, args ...interface{}) error {
	return newError(LimitWithMultiNodeRoute, nil, format, args...)
}

func Unroutable(format string, args ...interface{}) error {
	return newError(UnroutableCondition, nil, format, args...)
}

// WrapUnroutable keeps the cause of an algorithm failure.
func WrapUnroutable(cause error, format string, args ...interface{}) error {
	if cause == nil {
		return nil
	}
	if _, ok := As(cause); ok {
		return cause
	}
	return newError(UnroutableCondition, cause, format, args...)
}

// As finds the first *Error in the chain of causes.
func As(err error) (*Error, bool) {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e, true
		}
		switch x := err.(type) {
		case interface{ Cause() error }:
			err = x.Cause()
		case interface{ Unwrap() error }:
			err = x.Unwrap()
		default:
			return nil, false
		}
	}
	return nil, false
}

// KindOf returns 0 when err is not a routing error.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return 0
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
