// Copyright 2026 The orrery Authors
// SPDX-License-Identifier: BSD-3-Clause

package orrery

import "errors"

// Engine errors.
var (
	// ErrNoDevice is returned by New without a GPU device.
	ErrNoDevice = errors.New("orrery: no GPU device")

	// ErrDisposed is the panic value of Render and Frame after Dispose.
	ErrDisposed = errors.New("orrery: engine disposed")
)
