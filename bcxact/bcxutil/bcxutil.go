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
	"encoding/hex"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// Enables wire-level dumps (packets handed to the radio, raw scan records).
var Debug bool

func SetLogLevel(level log.Level) {
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	Debug = level >= log.DebugLevel
}

// Stops a timer and discards a pending expiration so the timer can be
// safely reset.
func StopAndDrainTimer(timer *time.Timer) {
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}

// Upper-case hex without separators, the form used for payload strings.
func HexString(b []byte) string {
	return strings.ToUpper(hex.EncodeToString(b))
}

// Logs a payload handed to or received from the radio when wire dumps are
// enabled.
func LogRadioData(desc string, data []byte) {
	if Debug {
		log.Debugf("%s (%d bytes):\n%s", desc, len(data), hex.Dump(data))
	}
}
