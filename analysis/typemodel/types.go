// Copyright The tacanalyzer Authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package typemodel defines the type shapes extracted from compiled binary
// metadata. The analytical core only references these from instruction
// operands and method signatures; construction is the job of the external
// metadata extractor.
package typemodel

import (
	"fmt"
	"strings"
)

// Type is the closed sum of type shapes an operand can carry. The only
// implementations are Named, Array, Pointer and TypeVar.
type Type interface {
	isType()
	String() string
}

// Named is a named type, possibly instantiated with generic arguments.
type Named struct {
	Name string
	Args []Type
}

// Array is an array of Elem with the given rank.
type Array struct {
	Elem Type
	Rank int
}

// Pointer is a pointer to Elem.
type Pointer struct {
	Elem Type
}

// TypeVar is an uninstantiated generic parameter.
type TypeVar struct {
	Name string
}

func (Named) isType()   {}
func (Array) isType()   {}
func (Pointer) isType() {}
func (TypeVar) isType() {}

func (t Named) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", t.Name, strings.Join(args, ","))
}

func (t Array) String() string {
	return fmt.Sprintf("%s[%s]", t.Elem, strings.Repeat(",", t.Rank-1))
}

func (t Pointer) String() string { return fmt.Sprintf("%s*", t.Elem) }

func (t TypeVar) String() string { return fmt.Sprintf("!%s", t.Name) }
