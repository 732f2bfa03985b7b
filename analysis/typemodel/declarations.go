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

package typemodel

import "fmt"

// Definition is the closed sum of top-level declarations the metadata
// extractor produces. The only implementations are Class, Struct, Interface
// and Enum.
type Definition interface {
	isDefinition()

	// DeclaredName returns the fully qualified name of the declaration.
	DeclaredName() string
}

// Member declarations shared by the definition kinds.

// Field is a field declaration inside a class or struct.
type Field struct {
	Name   string
	Type   Type
	Static bool
}

// Method is a method declaration. Bodies are lifted separately; the type
// model only carries the signature.
type Method struct {
	Name       string
	TypeParams []string
	Params     []Field
	Result     Type
	Static     bool
}

// Class is a reference type declaration.
type Class struct {
	Name       string
	TypeParams []string
	Base       Type
	Interfaces []Type
	Fields     []*Field
	Methods    []*Method
}

// Struct is a value type declaration.
type Struct struct {
	Name       string
	TypeParams []string
	Fields     []*Field
	Methods    []*Method
}

// Interface is an interface declaration.
type Interface struct {
	Name       string
	TypeParams []string
	Methods    []*Method
}

// Enum is an enumeration declaration; Values maps member names to their
// underlying constant.
type Enum struct {
	Name   string
	Values map[string]int64
}

func (*Class) isDefinition()     {}
func (*Struct) isDefinition()    {}
func (*Interface) isDefinition() {}
func (*Enum) isDefinition()      {}

func (c *Class) DeclaredName() string     { return c.Name }
func (s *Struct) DeclaredName() string    { return s.Name }
func (i *Interface) DeclaredName() string { return i.Name }
func (e *Enum) DeclaredName() string      { return e.Name }

// Registry is a read-only name to definition mapping, as handed to the
// analyses by the metadata extractor.
type Registry struct {
	defs map[string]Definition
}

// NewRegistry builds a registry over the given definitions.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{defs: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		name := d.DeclaredName()
		if _, ok := r.defs[name]; ok {
			return nil, fmt.Errorf("duplicate definition %q", name)
		}
		r.defs[name] = d
	}
	return r, nil
}

// Lookup returns the definition registered under name, if any.
func (r *Registry) Lookup(name string) (Definition, bool) {
	d, ok := r.defs[name]
	return d, ok
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int { return len(r.defs) }
