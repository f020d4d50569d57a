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
	"fmt"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		err     error
		already bool
		precond bool
		driver  bool
		xport   bool
		scanTmo bool
	}{
		{nil, false, false, false, false, false},
		{fmt.Errorf("plain"), false, false, false, false, false},
		{NewAlreadyError("HCI device already open"),
			true, false, false, false, false},
		{NewPreconditionError(PRECOND_DISABLED, "Bluetooth is disabled"),
			false, true, false, false, false},
		{NewDriverError(2, "too many advertisers"),
			false, false, true, false, false},
		{NewXportError("hci socket closed"), false, false, false, true, false},
		{NewScanTmoError("no report"), false, false, false, false, true},
	}

	for i, test := range tests {
		if IsAlready(test.err) != test.already {
			t.Errorf("case %d: IsAlready=%v", i, !test.already)
		}
		if IsPrecondition(test.err) != test.precond {
			t.Errorf("case %d: IsPrecondition=%v", i, !test.precond)
		}
		if IsDriver(test.err) != test.driver {
			t.Errorf("case %d: IsDriver=%v", i, !test.driver)
		}
		if IsXport(test.err) != test.xport {
			t.Errorf("case %d: IsXport=%v", i, !test.xport)
		}
		if IsScanTmo(test.err) != test.scanTmo {
			t.Errorf("case %d: IsScanTmo=%v", i, !test.scanTmo)
		}
	}
}
