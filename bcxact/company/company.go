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

// Package company resolves Bluetooth SIG company identifiers, as carried in
// manufacturer specific data, to company names.
package company

import (
	"io"
	"io/ioutil"
	"os"
	"sort"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// Rendered in place of a name for identifiers not in the registry.
const UnknownName = "Unknown"

type Entry struct {
	Id   uint16 `yaml:"value"`
	Name string `yaml:"name"`
}

// Registry is immutable once built; lookups are safe from any goroutine.
type Registry struct {
	names map[uint16]string
}

// NewRegistry builds a registry from the given entries.  If an identifier is
// listed more than once, the last entry wins.
func NewRegistry(entries []Entry) *Registry {
	r := &Registry{
		names: make(map[uint16]string, len(entries)),
	}

	for _, e := range entries {
		r.names[e.Id] = e.Name
	}

	return r
}

func (r *Registry) Lookup(id uint16) (string, bool) {
	name, ok := r.names[id]
	return name, ok
}

// Name is Lookup with UnknownName substituted for absent identifiers.
func (r *Registry) Name(id uint16) string {
	if name, ok := r.names[id]; ok {
		return name
	}

	return UnknownName
}

func (r *Registry) Len() int {
	return len(r.names)
}

// Entries lists the registry contents sorted by identifier.
func (r *Registry) Entries() []Entry {
	entries := make([]Entry, 0, len(r.names))
	for id, name := range r.names {
		entries = append(entries, Entry{Id: id, Name: name})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Id < entries[j].Id
	})

	return entries
}

// Layout of the Bluetooth SIG "company_identifiers.yaml" assigned numbers
// file.
type sigFile struct {
	CompanyIdentifiers []Entry `yaml:"company_identifiers"`
}

// ReadYAML parses a company identifier list in the Bluetooth SIG assigned
// numbers format:
//
//	company_identifiers:
//	  - value: 0x004C
//	    name: 'Apple, Inc.'
func ReadYAML(r io.Reader) (*Registry, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read company identifiers")
	}

	var f sigFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, errors.Wrap(err, "parse company identifiers")
	}

	if len(f.CompanyIdentifiers) == 0 {
		return nil, errors.New("company identifier list is empty")
	}

	return NewRegistry(f.CompanyIdentifiers), nil
}

// LoadYAML reads a registry from a file.  Entries from the built-in table
// that the file does not mention are kept.
func LoadYAML(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	fileReg, err := ReadYAML(f)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}

	merged := append(builtinEntries(), fileReg.Entries()...)
	reg := NewRegistry(merged)
	log.Debugf("loaded %d company identifiers from %s", fileReg.Len(), path)

	return reg, nil
}

var dfltReg *Registry
var dfltOnce sync.Once

// Default returns the registry built from the compiled-in table.
func Default() *Registry {
	dfltOnce.Do(func() {
		dfltReg = NewRegistry(builtinEntries())
	})

	return dfltReg
}
