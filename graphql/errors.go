// Copyright 2019 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package graphql

import (
	"bytes"
	"strconv"

	"github.com/goccy/go-json"
	"golang.org/x/xerrors"
)

// Error describes an error that occurred during the execution of a field.
// Errors are immutable once built. Use an ErrorBuilder to create one.
type Error struct {
	message    string
	code       string
	locations  []Location
	path       []PathSegment
	extensions []Extension
}

// Extension is a single entry in an error's extensions map.
type Extension struct {
	Key   string
	Value interface{}
}

// Error returns e.Message().
func (e *Error) Error() string {
	return e.message
}

// Message returns the human-readable message of the error.
func (e *Error) Message() string {
	return e.message
}

// Code returns the error's code or the empty string if it doesn't have one.
func (e *Error) Code() string {
	return e.code
}

// Locations returns the document locations associated with the error.
func (e *Error) Locations() []Location {
	return append([]Location(nil), e.locations...)
}

// Path returns the response path of the field that produced the error.
func (e *Error) Path() []PathSegment {
	return append([]PathSegment(nil), e.path...)
}

// Extensions returns a copy of the error's extensions in insertion order.
func (e *Error) Extensions() []Extension {
	return append([]Extension(nil), e.extensions...)
}

// Extension returns the value of the extension with the given key.
func (e *Error) Extension(key string) (interface{}, bool) {
	i := indexExtension(e.extensions, key)
	if i == -1 {
		return nil, false
	}
	return e.extensions[i].Value, true
}

// MarshalJSON converts the error to its JSON response form. Extension keys
// are written in insertion order.
func (e *Error) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"message":`)
	msg, err := json.Marshal(e.message)
	if err != nil {
		return nil, xerrors.Errorf("marshal error: %w", err)
	}
	buf.Write(msg)
	if len(e.locations) > 0 {
		locs, err := json.Marshal(e.locations)
		if err != nil {
			return nil, xerrors.Errorf("marshal error: %w", err)
		}
		buf.WriteString(`,"locations":`)
		buf.Write(locs)
	}
	if len(e.path) > 0 {
		path, err := json.Marshal(e.path)
		if err != nil {
			return nil, xerrors.Errorf("marshal error: %w", err)
		}
		buf.WriteString(`,"path":`)
		buf.Write(path)
	}
	if len(e.extensions) > 0 {
		buf.WriteString(`,"extensions":{`)
		for i, ext := range e.extensions {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(ext.Key)
			if err != nil {
				return nil, xerrors.Errorf("marshal error: extension %q: %w", ext.Key, err)
			}
			val, err := json.Marshal(ext.Value)
			if err != nil {
				return nil, xerrors.Errorf("marshal error: extension %q: %w", ext.Key, err)
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(val)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ErrorBuilder accumulates the parts of an Error. The zero value is an empty
// builder. A builder is not safe to use from multiple goroutines.
type ErrorBuilder struct {
	message    string
	code       string
	locations  []Location
	path       []PathSegment
	extensions []Extension
}

// NewErrorBuilder returns an empty builder.
func NewErrorBuilder() *ErrorBuilder {
	return new(ErrorBuilder)
}

// SetMessage sets the error message.
func (b *ErrorBuilder) SetMessage(msg string) *ErrorBuilder {
	b.message = msg
	return b
}

// SetCode sets the error code. It does not touch the extensions.
func (b *ErrorBuilder) SetCode(code string) *ErrorBuilder {
	b.code = code
	return b
}

// SetPath replaces the error's response path.
func (b *ErrorBuilder) SetPath(path ...PathSegment) *ErrorBuilder {
	b.path = append(b.path[:0], path...)
	return b
}

// AddLocation appends a document location.
func (b *ErrorBuilder) AddLocation(loc Location) *ErrorBuilder {
	b.locations = append(b.locations, loc)
	return b
}

// SetExtension sets the extension with the given key. Replacing an existing
// key keeps its original position.
func (b *ErrorBuilder) SetExtension(key string, value interface{}) *ErrorBuilder {
	if i := indexExtension(b.extensions, key); i != -1 {
		b.extensions[i].Value = value
		return b
	}
	b.extensions = append(b.extensions, Extension{Key: key, Value: value})
	return b
}

// RemoveExtension removes the extension with the given key, if present.
func (b *ErrorBuilder) RemoveExtension(key string) *ErrorBuilder {
	if i := indexExtension(b.extensions, key); i != -1 {
		b.extensions = append(b.extensions[:i], b.extensions[i+1:]...)
	}
	return b
}

// Message returns the message set so far.
func (b *ErrorBuilder) Message() string {
	return b.message
}

// Code returns the code set so far.
func (b *ErrorBuilder) Code() string {
	return b.code
}

// Extension returns the value of the extension with the given key set so far.
func (b *ErrorBuilder) Extension(key string) (interface{}, bool) {
	i := indexExtension(b.extensions, key)
	if i == -1 {
		return nil, false
	}
	return b.extensions[i].Value, true
}

// ErrEmptyMessage is returned by ErrorBuilder.Build when no message was set.
var ErrEmptyMessage = xerrors.New("build error: message is empty")

// Build returns a new Error from the builder's current state. It returns
// ErrEmptyMessage if no message has been set. The builder may continue to be
// used afterward without affecting the returned Error.
func (b *ErrorBuilder) Build() (*Error, error) {
	if b.message == "" {
		return nil, ErrEmptyMessage
	}
	return &Error{
		message:    b.message,
		code:       b.code,
		locations:  append([]Location(nil), b.locations...),
		path:       append([]PathSegment(nil), b.path...),
		extensions: append([]Extension(nil), b.extensions...),
	}, nil
}

func indexExtension(exts []Extension, key string) int {
	for i := range exts {
		if exts[i].Key == key {
			return i
		}
	}
	return -1
}

// Location is a 1-based line and column in the request document that an
// error refers to.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// PathSegment is one step of an error's response path: a response key, or a
// list index when Field is empty.
type PathSegment struct {
	Field     string
	ListIndex int
}

// MarshalJSON writes a response key as a JSON string and a list index as a
// JSON number.
func (seg PathSegment) MarshalJSON() ([]byte, error) {
	if seg.Field != "" {
		return json.Marshal(seg.Field)
	}
	return strconv.AppendInt(nil, int64(seg.ListIndex), 10), nil
}
