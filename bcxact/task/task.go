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

package task

import (
	"fmt"
	"sync"
)

// A single job that runs in the queue's goroutine.
type action struct {
	fn func() error
	ch chan error
}

// Reported in place of a job's result when the job panics.
type PanicError struct {
	Val interface{}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%v", e.Val)
}

// A queue for running jobs serially.  All jobs run on a single goroutine, so
// state touched only from jobs needs no further locking.
type TaskQueue struct {
	actCh  chan action
	stopCh chan struct{}
	active bool
	name   string
	mtx    sync.Mutex
	wg     sync.WaitGroup
}

func NewTaskQueue(name string) TaskQueue {
	return TaskQueue{
		name: name,
	}
}

var InactiveError = fmt.Errorf("inactive task queue")

// Pushes the specified function onto the task queue.  When the job completes,
// its result is sent over the returned channel.  A job may enqueue further
// jobs as long as the queue's depth is not exhausted.
func (q *TaskQueue) Enqueue(fn func() error) chan error {
	q.mtx.Lock()
	defer q.mtx.Unlock()

	act := action{
		fn: fn,
		ch: make(chan error, 1),
	}

	if !q.active {
		act.ch <- InactiveError
		close(act.ch)
	} else {
		q.actCh <- act
	}

	return act.ch
}

// Enqueues the specified function and waits for it to complete.  Calling Run
// from within a job deadlocks.
func (q *TaskQueue) Run(fn func() error) error {
	return <-q.Enqueue(fn)
}

func runAction(act action) {
	var err error

	func() {
		defer func() {
			if r := recover(); r != nil {
				err = &PanicError{Val: r}
			}
		}()
		err = act.fn()
	}()

	act.ch <- err
	close(act.ch)
}

// Starts the task queue.  A task queue must be started before jobs can be
// enqueued to it.
func (q *TaskQueue) Start(depth int) error {
	q.mtx.Lock()
	defer q.mtx.Unlock()

	if q.active {
		return fmt.Errorf("Task queue started twice \"%s\"", q.name)
	}
	q.active = true

	actCh := make(chan action, depth)
	q.actCh = actCh

	stopCh := make(chan struct{})
	q.stopCh = stopCh

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()

		for {
			select {
			case act, ok := <-actCh:
				if ok {
					runAction(act)
				}

			case <-stopCh:
				return
			}
		}
	}()

	return nil
}

// Stops the task queue.  Queued jobs that have not started fail with the
// specified error.  Blocks until the running job, if any, returns; a job that
// needs to stop its own queue must use StopNoWait.
func (q *TaskQueue) Stop(cause error) error {
	if err := q.StopNoWait(cause); err != nil {
		return err
	}

	q.wg.Wait()
	return nil
}

// Initiates a stop without waiting for the task loop to exit.
func (q *TaskQueue) StopNoWait(cause error) error {
	q.mtx.Lock()
	defer q.mtx.Unlock()

	if !q.active {
		return fmt.Errorf("Task queue stopped twice \"%s\"", q.name)
	}

	close(q.stopCh)

	// Fail anything the loop has not picked up.
	close(q.actCh)
	for next := range q.actCh {
		next.ch <- cause
		close(next.ch)
	}

	q.active = false

	return nil
}

func (q *TaskQueue) Active() bool {
	q.mtx.Lock()
	defer q.mtx.Unlock()

	return q.active
}

func (q *TaskQueue) Name() string {
	return q.name
}
