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

package config

import (
	"io"
	"sort"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/ugorji/go/codec"

	"mynewt.apache.org/newt/util"

	"mynewt.apache.org/blecast/bcxact/adfield"
	"mynewt.apache.org/blecast/bcxact/bcxutil"
	"mynewt.apache.org/blecast/bcxact/cfgcheck"
	"mynewt.apache.org/blecast/bcxact/company"
	"mynewt.apache.org/blecast/bcxact/scan"
)

const HISTORY_MANUAL = "manual"

// A remembered device, keyed by address.
type HistoryEntry struct {
	Address string `codec:"address" json:"address"`
	Data    string `codec:"data" json:"data"`
	Company string `codec:"company" json:"company"`
	Rssi    int    `codec:"rssi" json:"rssi"`
	Time    string `codec:"time" json:"time"`
}

// EntryFromCapture records a scanned advertisement.  The company column holds
// the name of the manufacturer data's company, if any.
func EntryFromCapture(c *scan.Capture, reg *company.Registry) HistoryEntry {
	e := HistoryEntry{
		Address: c.Addr.String(),
		Data:    bcxutil.HexString(c.Data),
		Rssi:    int(c.Rssi),
		Time:    c.Time.UTC().Format(time.RFC3339),
	}

	if reg == nil {
		reg = company.Default()
	}
	if md := adfield.ExtractMfgData(c.Data); md != nil {
		e.Company = reg.Name(md.CompanyId)
	}

	return e
}

// History is the device list stored under the history preference.
type History struct {
	pm *PrefMgr
}

func NewHistory(pm *PrefMgr) *History {
	return &History{pm: pm}
}

func (h *History) List() ([]HistoryEntry, error) {
	var entries []HistoryEntry
	if err := h.pm.GetObj(PREF_HISTORY, &entries); err != nil {
		return nil, util.ChildNewtError(err)
	}

	return entries, nil
}

func (h *History) store(entries []HistoryEntry) error {
	return h.pm.Set(PREF_HISTORY, entries)
}

func normAddr(addr string) string {
	if cfgcheck.IsValidMac(addr) {
		return cfgcheck.FormatMac(addr)
	}

	return addr
}

func (h *History) Find(addr string) (HistoryEntry, bool, error) {
	entries, err := h.List()
	if err != nil {
		return HistoryEntry{}, false, err
	}

	addr = normAddr(addr)
	for _, e := range entries {
		if normAddr(e.Address) == addr {
			return e, true, nil
		}
	}

	return HistoryEntry{}, false, nil
}

// Upsert replaces the entry with the same address in place or appends a new
// one.  It reports whether an entry was added.
func (h *History) Upsert(entry HistoryEntry) (bool, error) {
	entries, err := h.List()
	if err != nil {
		return false, err
	}

	entry.Address = normAddr(entry.Address)
	for i, e := range entries {
		if normAddr(e.Address) == entry.Address {
			if entry.Company == "" {
				entry.Company = e.Company
			}
			entries[i] = entry
			return false, h.store(entries)
		}
	}

	entries = append(entries, entry)
	return true, h.store(entries)
}

// SaveCurrent remembers the configuration currently in effect.
func (h *History) SaveCurrent(src *BroadcastSource) (bool, error) {
	bc, err := src.BroadcastConfig()
	if err != nil {
		return false, err
	}

	rssi, ok := cfgcheck.ParseRssi(bc.SignalLevel)
	if !ok {
		rssi = cfgcheck.DFLT_RSSI
	}

	return h.Upsert(HistoryEntry{
		Address: bc.TargetAddr,
		Data:    bc.PayloadHex,
		Company: HISTORY_MANUAL,
		Rssi:    rssi,
		Time:    time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *History) Delete(addr string) error {
	entries, err := h.List()
	if err != nil {
		return err
	}

	addr = normAddr(addr)
	for i, e := range entries {
		if normAddr(e.Address) == addr {
			entries = append(entries[:i], entries[i+1:]...)
			return h.store(entries)
		}
	}

	return util.FmtNewtError("no history entry for %s", addr)
}

// Apply makes a remembered device the current broadcast target.
func (h *History) Apply(addr string, src *BroadcastSource) error {
	e, ok, err := h.Find(addr)
	if err != nil {
		return err
	}
	if !ok {
		return util.FmtNewtError("no history entry for %s", normAddr(addr))
	}

	log.Debugf("Applying history entry %s", e.Address)
	return h.pm.SetMulti(map[string]interface{}{
		PREF_MAC:     e.Address,
		PREF_DATA:    e.Data,
		PREF_COMPANY: e.Company,
	})
}

// Export formats.
const (
	EXPORT_JSON = "json"
	EXPORT_CBOR = "cbor"
)

func exportHandle(format string) (codec.Handle, error) {
	switch format {
	case EXPORT_JSON:
		jh := new(codec.JsonHandle)
		jh.Indent = 4
		return jh, nil
	case EXPORT_CBOR:
		return new(codec.CborHandle), nil
	default:
		return nil, util.FmtNewtError("unsupported export format: %s", format)
	}
}

// Export writes the history, sorted by address.
func (h *History) Export(w io.Writer, format string) error {
	hnd, err := exportHandle(format)
	if err != nil {
		return err
	}

	entries, err := h.List()
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []HistoryEntry{}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Address < entries[j].Address
	})

	if err := codec.NewEncoder(w, hnd).Encode(entries); err != nil {
		return util.ChildNewtError(errors.Wrapf(err,
			"failed to export history as %s", format))
	}

	return nil
}

// Import decodes an exported history.
func Import(r io.Reader, format string) ([]HistoryEntry, error) {
	hnd, err := exportHandle(format)
	if err != nil {
		return nil, err
	}

	var entries []HistoryEntry
	if err := codec.NewDecoder(r, hnd).Decode(&entries); err != nil {
		return nil, util.ChildNewtError(errors.Wrapf(err,
			"failed to import history as %s", format))
	}

	return entries, nil
}
