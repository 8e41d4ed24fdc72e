// Copyright (c) 2022, The GoKi Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vapi

import "fmt"

// Result is a driver return code. Negative values are errors.
type Result int32

const (
	Success                   Result = 0
	NotReady                  Result = 1
	Timeout                   Result = 2
	Incomplete                Result = 5
	Suboptimal                Result = 1000001003
	ErrorOutOfHostMemory      Result = -1
	ErrorOutOfDeviceMemory    Result = -2
	ErrorInitializationFailed Result = -3
	ErrorDeviceLost           Result = -4
	ErrorMemoryMapFailed      Result = -5
	ErrorLayerNotPresent      Result = -6
	ErrorExtensionNotPresent  Result = -7
	ErrorFeatureNotPresent    Result = -8
	ErrorIncompatibleDriver   Result = -9
	ErrorSurfaceLost          Result = -1000000000
	ErrorOutOfDate            Result = -1000001004
)

var resultNames = map[Result]string{
	Success:                   "Success",
	NotReady:                  "NotReady",
	Timeout:                   "Timeout",
	Incomplete:                "Incomplete",
	Suboptimal:                "Suboptimal",
	ErrorOutOfHostMemory:      "ErrorOutOfHostMemory",
	ErrorOutOfDeviceMemory:    "ErrorOutOfDeviceMemory",
	ErrorInitializationFailed: "ErrorInitializationFailed",
	ErrorDeviceLost:           "ErrorDeviceLost",
	ErrorMemoryMapFailed:      "ErrorMemoryMapFailed",
	ErrorLayerNotPresent:      "ErrorLayerNotPresent",
	ErrorExtensionNotPresent:  "ErrorExtensionNotPresent",
	ErrorFeatureNotPresent:    "ErrorFeatureNotPresent",
	ErrorIncompatibleDriver:   "ErrorIncompatibleDriver",
	ErrorSurfaceLost:          "ErrorSurfaceLost",
	ErrorOutOfDate:            "ErrorOutOfDate",
}

func (r Result) String() string {
	if nm, ok := resultNames[r]; ok {
		return nm
	}
	return fmt.Sprintf("Result(%d)", int32(r))
}

// Error implements the error interface so a failing Result can be
// returned directly.
func (r Result) Error() string {
	return "vulkan error: " + r.String()
}

// IsError returns true for the negative (failure) result codes.
func (r Result) IsError() bool {
	return r < 0
}

// Err returns the result as an error, or nil if it is not a failure.
func (r Result) Err() error {
	if r.IsError() {
		return r
	}
	return nil
}
