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

package adv

import (
	"encoding/json"
	"fmt"

	"mynewt.apache.org/blecast/bcxact/bcxutil"
)

type State int

const (
	STATE_IDLE State = iota
	STATE_STARTING
	STATE_ACTIVE
	STATE_STOPPING
	STATE_FAILED
)

var StateStringMap = map[State]string{
	STATE_IDLE:     "idle",
	STATE_STARTING: "starting",
	STATE_ACTIVE:   "active",
	STATE_STOPPING: "stopping",
	STATE_FAILED:   "failed",
}

func StateToString(s State) string {
	name := StateStringMap[s]
	if name == "" {
		return "???"
	}

	return name
}

func (s State) String() string {
	return StateToString(s)
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(StateToString(s))
}

type EventType int

const (
	EVENT_STARTED EventType = iota
	EVENT_STOPPED
	EVENT_FAILED
	EVENT_BLUETOOTH_DISABLED
	EVENT_NOT_SUPPORTED
	EVENT_PERMISSION_DENIED
	EVENT_EXCEPTION
)

var EventTypeStringMap = map[EventType]string{
	EVENT_STARTED:            "started",
	EVENT_STOPPED:            "stopped",
	EVENT_FAILED:             "failed",
	EVENT_BLUETOOTH_DISABLED: "bluetooth_disabled",
	EVENT_NOT_SUPPORTED:      "not_supported",
	EVENT_PERMISSION_DENIED:  "permission_denied",
	EVENT_EXCEPTION:          "exception",
}

func EventTypeToString(t EventType) string {
	s := EventTypeStringMap[t]
	if s == "" {
		return "???"
	}

	return s
}

func (t EventType) MarshalJSON() ([]byte, error) {
	return json.Marshal(EventTypeToString(t))
}

// A lifecycle notification.  Text carries the reason of EVENT_FAILED and the
// message of EVENT_EXCEPTION; it is empty otherwise.
type Event struct {
	Type EventType `json:"type"`
	Text string    `json:"text,omitempty"`
}

func StartedEvent() Event {
	return Event{Type: EVENT_STARTED}
}

func StoppedEvent() Event {
	return Event{Type: EVENT_STOPPED}
}

func FailedEvent(reason string) Event {
	return Event{Type: EVENT_FAILED, Text: reason}
}

func BluetoothDisabledEvent() Event {
	return Event{Type: EVENT_BLUETOOTH_DISABLED}
}

func NotSupportedEvent() Event {
	return Event{Type: EVENT_NOT_SUPPORTED}
}

func PermissionDeniedEvent() Event {
	return Event{Type: EVENT_PERMISSION_DENIED}
}

func ExceptionEvent(msg string) Event {
	return Event{Type: EVENT_EXCEPTION, Text: msg}
}

// PreconditionEvent maps a refused precondition to the event reporting it.
func PreconditionEvent(err *bcxutil.PreconditionError) Event {
	switch err.Reason {
	case bcxutil.PRECOND_NOT_SUPPORTED:
		return NotSupportedEvent()
	case bcxutil.PRECOND_DISABLED:
		return BluetoothDisabledEvent()
	case bcxutil.PRECOND_PERMISSION:
		return PermissionDeniedEvent()
	default:
		return FailedEvent(err.Text)
	}
}

// IsFailure reports whether the event ends a start attempt unsuccessfully.
func (e Event) IsFailure() bool {
	switch e.Type {
	case EVENT_STARTED, EVENT_STOPPED:
		return false
	default:
		return true
	}
}

func (e Event) String() string {
	if e.Text == "" {
		return EventTypeToString(e.Type)
	}

	return fmt.Sprintf("%s: %s", EventTypeToString(e.Type), e.Text)
}

// Delivers lifecycle events to subscribers.  Handlers run synchronously on
// the publisher's goroutine, in subscription order, and must not block.
type EventBus struct {
	bcast bcxutil.Bcaster
}

type Subscription struct {
	lsnr *bcxutil.Listener
}

func NewEventBus() *EventBus {
	return &EventBus{}
}

func (b *EventBus) Subscribe(fn func(e Event)) *Subscription {
	l := b.bcast.Listen(func(val interface{}) {
		fn(val.(Event))
	})

	return &Subscription{lsnr: l}
}

// Once Unsubscribe returns, no further delivery to the handler is started.
func (b *EventBus) Unsubscribe(sub *Subscription) bool {
	if sub == nil {
		return false
	}

	return b.bcast.Unlisten(sub.lsnr)
}

func (b *EventBus) Publish(e Event) {
	b.bcast.Send(e)
}

func (b *EventBus) NumSubscribers() int {
	return b.bcast.Len()
}

// SubscribeChan forwards events to a buffered channel.  Events that do not
// fit are dropped rather than blocking the publisher.
func (b *EventBus) SubscribeChan(depth int) (*Subscription, <-chan Event) {
	ch := make(chan Event, depth)
	sub := b.Subscribe(func(e Event) {
		select {
		case ch <- e:
		default:
		}
	})

	return sub, ch
}
