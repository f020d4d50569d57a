/**
 * Licensed to the Apache Software Foundation (ASF) under one
 * or more contributor license agreements.  See the NOTICE file
 * distributed with this work for additional information
 * regarding copyright ownership.  The ASF licenses this file
 * to you under the Apache License, Version 2.0 (the
 * "License"); you may not use this file except in compliance
 * with the License.  You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package bcxutil

import (
	"fmt"
)

type PreconditionReason int

const (
	PRECOND_NOT_SUPPORTED PreconditionReason = iota
	PRECOND_DISABLED
	PRECOND_PERMISSION
	PRECOND_CONFIG
)

var PreconditionReasonStringMap = map[PreconditionReason]string{
	PRECOND_NOT_SUPPORTED: "not_supported",
	PRECOND_DISABLED:      "disabled",
	PRECOND_PERMISSION:    "permission",
	PRECOND_CONFIG:        "config",
}

func PreconditionReasonToString(r PreconditionReason) string {
	s := PreconditionReasonStringMap[r]
	if s == "" {
		return "???"
	}

	return s
}

// Indicates that an operation was refused before reaching the radio: the
// radio is absent or disabled, a permission is missing, or the configuration
// is invalid.
type PreconditionError struct {
	Reason PreconditionReason
	Text   string
}

func NewPreconditionError(reason PreconditionReason,
	text string) *PreconditionError {

	return &PreconditionError{
		Reason: reason,
		Text:   text,
	}
}

func FmtPreconditionError(reason PreconditionReason, format string,
	args ...interface{}) *PreconditionError {

	return NewPreconditionError(reason, fmt.Sprintf(format, args...))
}

func (e *PreconditionError) Error() string {
	return e.Text
}

func IsPrecondition(err error) bool {
	_, ok := err.(*PreconditionError)
	return ok
}

func ToPrecondition(err error) *PreconditionError {
	if perr, ok := err.(*PreconditionError); ok {
		return perr
	} else {
		return nil
	}
}

// Represents a failure reported by the radio driver as a numeric status.
type DriverError struct {
	Text   string
	Status int
}

func NewDriverError(status int, text string) *DriverError {
	return &DriverError{
		Status: status,
		Text:   text,
	}
}

func FmtDriverError(status int, format string,
	args ...interface{}) *DriverError {

	return NewDriverError(status, fmt.Sprintf(format, args...))
}

func (e *DriverError) Error() string {
	return e.Text
}

func IsDriver(err error) bool {
	_, ok := err.(*DriverError)
	return ok
}

func ToDriver(err error) *DriverError {
	if derr, ok := err.(*DriverError); ok {
		return derr
	} else {
		return nil
	}
}

// Indicates an AD structure that cannot be represented on the wire.
type EncodingError struct {
	Text string
}

func NewEncodingError(text string) *EncodingError {
	return &EncodingError{text}
}

func FmtEncodingError(format string, args ...interface{}) *EncodingError {
	return NewEncodingError(fmt.Sprintf(format, args...))
}

func (e *EncodingError) Error() string {
	return e.Text
}

func IsEncoding(err error) bool {
	_, ok := err.(*EncodingError)
	return ok
}

// Represents a low-level transport error.
type XportError struct {
	Text string
}

func NewXportError(text string) *XportError {
	return &XportError{text}
}

func FmtXportError(format string, args ...interface{}) *XportError {
	return NewXportError(fmt.Sprintf(format, args...))
}

func (e *XportError) Error() string {
	return e.Text
}

func IsXport(err error) bool {
	if err == nil {
		return false
	}

	_, ok := err.(*XportError)
	return ok
}

// Indicates an attempt to transition to the already-current state.
type AlreadyError struct {
	Text string
}

func NewAlreadyError(text string) *AlreadyError {
	return &AlreadyError{text}
}

func (err *AlreadyError) Error() string {
	return err.Text
}

func IsAlready(err error) bool {
	if err == nil {
		return false
	}

	_, ok := err.(*AlreadyError)
	return ok
}

// Indicates that a scan ended without seeing the requested device.
type ScanTmoError struct {
	Text string
}

func NewScanTmoError(text string) *ScanTmoError {
	return &ScanTmoError{
		Text: text,
	}
}

func FmtScanTmoError(format string, args ...interface{}) *ScanTmoError {
	return NewScanTmoError(fmt.Sprintf(format, args...))
}

func (e *ScanTmoError) Error() string {
	return e.Text
}

func IsScanTmo(err error) bool {
	_, ok := err.(*ScanTmoError)
	return ok
}
