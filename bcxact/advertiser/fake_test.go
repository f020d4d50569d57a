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

package advertiser

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"mynewt.apache.org/blecast/bcxact/adv"
	"mynewt.apache.org/blecast/bcxact/cfgcheck"
	"mynewt.apache.org/blecast/bcxact/xport"
)

type fakeStart struct {
	settings xport.AdvSettings
	adv      []byte
	rsp      []byte
	tok      xport.AdvToken
}

// A radio that records requests.  Start callbacks are either completed
// automatically with autoStatus or held until the test calls complete().
type fakeRadio struct {
	mtx sync.Mutex

	present      bool
	enabled      bool
	auto         bool
	autoStatus   int
	startErr     error
	panicOnStart bool

	nextTok xport.AdvToken
	starts  []fakeStart
	stops   []xport.AdvToken
	pending []xport.AdvCallback
}

func newFakeRadio() *fakeRadio {
	return &fakeRadio{
		present: true,
		enabled: true,
	}
}

func newAutoRadio(status int) *fakeRadio {
	r := newFakeRadio()
	r.auto = true
	r.autoStatus = status
	return r
}

func (r *fakeRadio) Open() error  { return nil }
func (r *fakeRadio) Close() error { return nil }

func (r *fakeRadio) Present() bool {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.present
}

func (r *fakeRadio) Enabled() bool {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.enabled
}

func (r *fakeRadio) StartAdvertising(settings xport.AdvSettings,
	advData []byte, rspData []byte, cb xport.AdvCallback) (xport.AdvToken, error) {

	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.panicOnStart {
		panic("boom")
	}
	if r.startErr != nil {
		return 0, r.startErr
	}

	r.nextTok++
	r.starts = append(r.starts, fakeStart{
		settings: settings,
		adv:      append([]byte{}, advData...),
		rsp:      append([]byte{}, rspData...),
		tok:      r.nextTok,
	})

	if r.auto {
		status := r.autoStatus
		go cb(status)
	} else {
		r.pending = append(r.pending, cb)
	}

	return r.nextTok, nil
}

func (r *fakeRadio) StopAdvertising(tok xport.AdvToken) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.stops = append(r.stops, tok)
	return nil
}

// Completes the oldest held start request.
func (r *fakeRadio) complete(status int) {
	r.mtx.Lock()
	if len(r.pending) == 0 {
		r.mtx.Unlock()
		panic("no pending start")
	}
	cb := r.pending[0]
	r.pending = r.pending[1:]
	r.mtx.Unlock()

	cb(status)
}

func (r *fakeRadio) numStarts() int {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return len(r.starts)
}

func (r *fakeRadio) numStops() int {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return len(r.stops)
}

func (r *fakeRadio) stopTokens() []xport.AdvToken {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return append([]xport.AdvToken{}, r.stops...)
}

func (r *fakeRadio) start(i int) fakeStart {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.starts[i]
}

type fakeSource struct {
	mtx     sync.Mutex
	cfg     adv.BroadcastConfig
	err     error
	enabled bool
	reads   int
}

func newFakeSource() *fakeSource {
	return &fakeSource{cfg: cfgcheck.DefaultConfig()}
}

func (s *fakeSource) BroadcastConfig() (adv.BroadcastConfig, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.reads++
	return s.cfg, s.err
}

func (s *fakeSource) SetEnabled(enabled bool) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.enabled = enabled
	return nil
}

func (s *fakeSource) isEnabled() bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.enabled
}

func (s *fakeSource) setPayload(hex string) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.cfg.PayloadHex = hex
}

type fakeFg struct {
	acquires int32
	releases int32
	ticks    int32
}

func (f *fakeFg) Acquire(maxDuration time.Duration) { atomic.AddInt32(&f.acquires, 1) }
func (f *fakeFg) Tick(remaining time.Duration)      { atomic.AddInt32(&f.ticks, 1) }
func (f *fakeFg) Release()                          { atomic.AddInt32(&f.releases, 1) }

func (f *fakeFg) held() bool {
	return atomic.LoadInt32(&f.acquires) > atomic.LoadInt32(&f.releases)
}

type fakePerms struct {
	denied int32
}

func (p *fakePerms) HasPermission(name string) bool {
	return atomic.LoadInt32(&p.denied) == 0
}

func (p *fakePerms) deny() {
	atomic.StoreInt32(&p.denied, 1)
}

// Records published events.
type recorder struct {
	mtx sync.Mutex
	evs []adv.Event
	at  []time.Time
}

func (r *recorder) add(e adv.Event) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.evs = append(r.evs, e)
	r.at = append(r.at, time.Now())
}

func (r *recorder) events() []adv.Event {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	return append([]adv.Event{}, r.evs...)
}

func (r *recorder) types() []adv.EventType {
	var types []adv.EventType
	for _, e := range r.events() {
		types = append(types, e.Type)
	}
	return types
}

func (r *recorder) count(t adv.EventType) int {
	n := 0
	for _, e := range r.events() {
		if e.Type == t {
			n++
		}
	}
	return n
}

func (r *recorder) timeOf(t adv.EventType) (time.Time, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	for i, e := range r.evs {
		if e.Type == t {
			return r.at[i], nil
		}
	}
	return time.Time{}, fmt.Errorf("no %s event", adv.EventTypeToString(t))
}
