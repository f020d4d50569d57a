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
	"reflect"
	"testing"
	"time"
)

func TestBcasterOrder(t *testing.T) {
	var b Bcaster
	var got []string

	b.Listen(func(v interface{}) { got = append(got, "a:"+v.(string)) })
	b.Listen(func(v interface{}) { got = append(got, "b:"+v.(string)) })

	b.Send("x")
	b.Send("y")

	want := []string{"a:x", "b:x", "a:y", "b:y"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestBcasterUnlisten(t *testing.T) {
	var b Bcaster
	count := 0

	l := b.Listen(func(v interface{}) { count++ })
	b.Send(1)

	if !b.Unlisten(l) {
		t.Fatalf("first Unlisten should report success")
	}
	if b.Unlisten(l) {
		t.Errorf("second Unlisten should report failure")
	}
	if l.Active() {
		t.Errorf("listener still active after Unlisten")
	}

	b.Send(2)
	if count != 1 {
		t.Errorf("listener invoked %d times, want 1", count)
	}
	if b.Len() != 0 {
		t.Errorf("Len() = %d, want 0", b.Len())
	}
}

func TestBcasterUnlistenDuringSend(t *testing.T) {
	var b Bcaster
	var second *Listener
	secondCalls := 0

	b.Listen(func(v interface{}) { b.Unlisten(second) })
	second = b.Listen(func(v interface{}) { secondCalls++ })

	b.Send("evt")
	if secondCalls != 0 {
		t.Errorf("listener removed mid-send was invoked %d times", secondCalls)
	}
}

func TestListenerIds(t *testing.T) {
	var b Bcaster
	l1 := b.Listen(func(v interface{}) {})
	l2 := b.Listen(func(v interface{}) {})

	b.Unlisten(l1)
	if l1.Active() || !l2.Active() {
		t.Errorf("unexpected listener state after Unlisten")
	}
	if l1.Id() == l2.Id() {
		t.Errorf("listener ids should be unique")
	}
}

func TestStopAndDrainTimer(t *testing.T) {
	timer := time.NewTimer(time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	StopAndDrainTimer(timer)
	select {
	case <-timer.C:
		t.Errorf("timer channel not drained")
	default:
	}
}

func TestHexString(t *testing.T) {
	if s := HexString([]byte{0x02, 0x01, 0x1a}); s != "02011A" {
		t.Errorf("HexString = %s", s)
	}
}
