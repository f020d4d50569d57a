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

package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"mynewt.apache.org/blecast/bcxact/adv"
)

const DFLT_NOTIFY_WINDOW = 3 * time.Second

// Notifier prints user-facing messages, dropping a message identical to the
// previous one if that was shown less than a window ago.
type Notifier struct {
	mtx    sync.Mutex
	w      io.Writer
	window time.Duration
	now    func() time.Time

	last   string
	lastAt time.Time
}

func NewNotifier(w io.Writer) *Notifier {
	return &Notifier{
		w:      w,
		window: DFLT_NOTIFY_WINDOW,
		now:    time.Now,
	}
}

// Notify reports whether msg was shown.
func (n *Notifier) Notify(msg string) bool {
	n.mtx.Lock()
	defer n.mtx.Unlock()

	now := n.now()
	if msg == n.last && now.Sub(n.lastAt) < n.window {
		return false
	}

	n.last = msg
	n.lastAt = now
	fmt.Fprintln(n.w, msg)

	return true
}

func (n *Notifier) NotifyEvent(e adv.Event) bool {
	return n.Notify(eventMessage(e))
}

func eventMessage(e adv.Event) string {
	switch e.Type {
	case adv.EVENT_STARTED:
		return "Advertising started"
	case adv.EVENT_STOPPED:
		return "Advertising stopped"
	case adv.EVENT_FAILED:
		return "Advertising failed: " + e.Text
	case adv.EVENT_BLUETOOTH_DISABLED:
		return "Bluetooth is disabled; enable it and try again"
	case adv.EVENT_NOT_SUPPORTED:
		return "This host does not support Bluetooth LE advertising"
	case adv.EVENT_PERMISSION_DENIED:
		return "Missing Bluetooth permissions"
	case adv.EVENT_EXCEPTION:
		return "Advertising error: " + e.Text
	default:
		return e.String()
	}
}
