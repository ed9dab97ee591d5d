/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package tables

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package wraps exactly one of
// them, so callers match with errors.Is.
var (
	// ErrType reports a value or selector of the wrong shape.
	ErrType = errors.New("type error")
	// ErrValue reports a value of the right shape but an invalid size or content.
	ErrValue = errors.New("value error")
	// ErrKey reports a reference to a column that does not exist.
	ErrKey = errors.New("key error")
	// ErrNotImplemented reports an operation the table deliberately does not support.
	ErrNotImplemented = errors.New("not implemented")
)

// Error describes a failed table operation.
type Error struct {
	Kind error  // one of ErrType, ErrValue, ErrKey, ErrNotImplemented
	Op   string // operation that failed, e.g. "select"
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Kind, e.Msg)
}

// Unwrap returns the error kind.
func (e *Error) Unwrap() error {
	return e.Kind
}

func typeError(op, format string, args ...any) error {
	return &Error{Kind: ErrType, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func valueError(op, format string, args ...any) error {
	return &Error{Kind: ErrValue, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func keyError(op, name string) error {
	return &Error{Kind: ErrKey, Op: op, Msg: fmt.Sprintf("column %q not found", name)}
}
