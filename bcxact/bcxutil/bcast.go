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
	"sync"
	"sync/atomic"
)

// A registered callback.  Once removed, a listener is never invoked again,
// even by a Send() that was already in progress.
type Listener struct {
	id      uint64
	fn      func(val interface{})
	removed int32
}

func (l *Listener) Id() uint64 {
	return l.id
}

func (l *Listener) Active() bool {
	return atomic.LoadInt32(&l.removed) == 0
}

// Delivers each sent value to every registered listener, synchronously and in
// registration order.
type Bcaster struct {
	lsnrs  []*Listener
	nextId uint64
	mtx    sync.Mutex
}

func (b *Bcaster) Listen(fn func(val interface{})) *Listener {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	b.nextId++
	l := &Listener{
		id: b.nextId,
		fn: fn,
	}
	b.lsnrs = append(b.lsnrs, l)

	return l
}

// @return                      true if the listener was registered;
//                              false if it was already removed.
func (b *Bcaster) Unlisten(l *Listener) bool {
	if l == nil {
		return false
	}

	b.mtx.Lock()
	defer b.mtx.Unlock()

	if !atomic.CompareAndSwapInt32(&l.removed, 0, 1) {
		return false
	}

	for i, cur := range b.lsnrs {
		if cur == l {
			lsnrs := make([]*Listener, 0, len(b.lsnrs)-1)
			lsnrs = append(lsnrs, b.lsnrs[:i]...)
			b.lsnrs = append(lsnrs, b.lsnrs[i+1:]...)
			break
		}
	}

	return true
}

func (b *Bcaster) Send(val interface{}) {
	b.mtx.Lock()
	lsnrs := b.lsnrs
	b.mtx.Unlock()

	for _, l := range lsnrs {
		if l.Active() {
			l.fn(val)
		}
	}
}

func (b *Bcaster) Len() int {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	return len(b.lsnrs)
}

