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

	log "github.com/sirupsen/logrus"

	"mynewt.apache.org/blecast/bcxact/adv"
)

// Delivers events on its own goroutine, in the order they were posted.
// Handlers therefore never run inside a controller job and may call back
// into the controller.
type dispatcher struct {
	bus     *adv.EventBus
	onPanic func(msg string)

	mtx     sync.Mutex
	queue   []adv.Event
	stopped bool

	wakeCh chan struct{}
	doneCh chan struct{}
}

func newDispatcher(bus *adv.EventBus, onPanic func(msg string)) *dispatcher {
	d := &dispatcher{
		bus:     bus,
		onPanic: onPanic,
		wakeCh:  make(chan struct{}, 1),
		doneCh:  make(chan struct{}),
	}

	go d.loop()

	return d
}

func (d *dispatcher) wake() {
	select {
	case d.wakeCh <- struct{}{}:
	default:
	}
}

// Never blocks.  Events posted after stop() are dropped.
func (d *dispatcher) post(e adv.Event) {
	d.mtx.Lock()
	if d.stopped {
		d.mtx.Unlock()
		log.Debugf("advertiser: dropping %s; closed", e.String())
		return
	}
	d.queue = append(d.queue, e)
	d.mtx.Unlock()

	d.wake()
}

// The dispatcher exits once everything already posted has been delivered.
func (d *dispatcher) stop() {
	d.mtx.Lock()
	d.stopped = true
	d.mtx.Unlock()

	d.wake()
}

func (d *dispatcher) next() (adv.Event, bool, bool) {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	if len(d.queue) == 0 {
		return adv.Event{}, false, d.stopped
	}

	e := d.queue[0]
	d.queue = d.queue[1:]
	return e, true, false
}

func (d *dispatcher) loop() {
	defer close(d.doneCh)

	for range d.wakeCh {
		for {
			e, ok, stopped := d.next()
			if stopped {
				return
			}
			if !ok {
				break
			}
			d.deliver(e)
		}
	}
}

func (d *dispatcher) deliver(e adv.Event) {
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("%v", r)
			log.Errorf("advertiser: subscriber failed handling %s: %s",
				e.String(), msg)
			d.onPanic(msg)
		}
	}()

	log.Debugf("advertiser: delivering %s to %d subscribers",
		e.String(), d.bus.NumSubscribers())
	d.bus.Publish(e)
}
