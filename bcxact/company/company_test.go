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

package company

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

const sigSample = `company_identifiers:
  - value: 0x0F8A
    name: 'Example Widgets Ltd.'
  - value: 0x004C
    name: 'Apple, Inc.'
  - value: 0x0059
    name: 'Nordic Semiconductor ASA (renamed)'
`

func TestDefaultLookup(t *testing.T) {
	reg := Default()

	name, ok := reg.Lookup(0x004c)
	if !ok || name != "Apple, Inc." {
		t.Errorf("Lookup(0x004c) = %q, %v", name, ok)
	}

	if _, ok := reg.Lookup(0xfffe); ok {
		t.Errorf("Lookup(0xfffe) should miss")
	}
	if reg.Name(0xfffe) != UnknownName {
		t.Errorf("Name(0xfffe) = %q, want %q", reg.Name(0xfffe), UnknownName)
	}
	if Default() != reg {
		t.Errorf("Default() should return the same registry")
	}
}

func TestLookupStable(t *testing.T) {
	reg := Default()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				if reg.Name(0x0059) != "Nordic Semiconductor ASA" {
					t.Errorf("unstable lookup result")
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestNewRegistryLastWins(t *testing.T) {
	reg := NewRegistry([]Entry{
		{0x1234, "first"},
		{0x1234, "second"},
	})
	if reg.Name(0x1234) != "second" || reg.Len() != 1 {
		t.Errorf("unexpected registry contents: %v", reg.Entries())
	}
}

func TestReadYAML(t *testing.T) {
	reg, err := ReadYAML(strings.NewReader(sigSample))
	if err != nil {
		t.Fatal(err)
	}

	if reg.Len() != 3 {
		t.Errorf("Len() = %d, want 3", reg.Len())
	}
	if reg.Name(0x0f8a) != "Example Widgets Ltd." {
		t.Errorf("Name(0x0f8a) = %q", reg.Name(0x0f8a))
	}

	entries := reg.Entries()
	if entries[0].Id != 0x004c || entries[2].Id != 0x0f8a {
		t.Errorf("Entries() not sorted: %v", entries)
	}
}

func TestReadYAMLErrors(t *testing.T) {
	if _, err := ReadYAML(strings.NewReader("company_identifiers: []\n")); err == nil {
		t.Errorf("empty list should be rejected")
	}
	if _, err := ReadYAML(strings.NewReader("company_identifiers: [")); err == nil {
		t.Errorf("bad YAML should be rejected")
	}
}

func TestLoadYAMLMergesBuiltin(t *testing.T) {
	dir, err := ioutil.TempDir("", "company")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "company_identifiers.yaml")
	if err := ioutil.WriteFile(path, []byte(sigSample), 0644); err != nil {
		t.Fatal(err)
	}

	reg, err := LoadYAML(path)
	if err != nil {
		t.Fatal(err)
	}

	if reg.Name(0x0f8a) != "Example Widgets Ltd." {
		t.Errorf("file entry missing")
	}
	if reg.Name(0x0059) != "Nordic Semiconductor ASA (renamed)" {
		t.Errorf("file entry should override built-in entry")
	}
	if reg.Name(0x0075) != "Samsung Electronics Co. Ltd." {
		t.Errorf("built-in entry not kept")
	}

	if _, err := LoadYAML(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Errorf("missing file should fail")
	}
}
