// Trasownik - Map-Based Infrastructure Project Tracking
// Copyright 2026 P. Bartnik (pbartnik)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pbartnik/trasownik

package database

import "errors"

// ErrNotFound is returned when a requested row does not exist. Handlers map
// it to HTTP 404; every other store error maps to 500.
var ErrNotFound = errors.New("not found")
