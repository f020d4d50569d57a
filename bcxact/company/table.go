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

package company

// Commonly seen identifiers.  The full list is published by the Bluetooth SIG
// and can be loaded with LoadYAML.
var builtinTable = []Entry{
	{0x0000, "Ericsson Technology Licensing"},
	{0x0001, "Nokia Mobile Phones"},
	{0x0002, "Intel Corp."},
	{0x0003, "IBM Corp."},
	{0x0004, "Toshiba Corp."},
	{0x0005, "3Com"},
	{0x0006, "Microsoft"},
	{0x0007, "Lucent"},
	{0x0008, "Motorola"},
	{0x000A, "Qualcomm Technologies International, Ltd. (QTIL)"},
	{0x000D, "Texas Instruments Inc."},
	{0x000F, "Broadcom Corporation"},
	{0x001D, "Qualcomm"},
	{0x0030, "ST Microelectronics"},
	{0x004C, "Apple, Inc."},
	{0x0059, "Nordic Semiconductor ASA"},
	{0x0075, "Samsung Electronics Co. Ltd."},
	{0x0087, "Garmin International, Inc."},
	{0x00E0, "Google"},
	{0x0157, "Anhui Huami Information Technology Co., Ltd."},
	{0x0171, "Amazon.com Services, LLC"},
	{0x027D, "HUAWEI Technologies Co., Ltd."},
	{0x02E5, "Espressif Incorporated"},
	{0x038F, "Xiaomi Inc."},
	{0x0499, "Ruuvi Innovations Ltd."},
}

func builtinEntries() []Entry {
	entries := make([]Entry, len(builtinTable))
	copy(entries, builtinTable)
	return entries
}
