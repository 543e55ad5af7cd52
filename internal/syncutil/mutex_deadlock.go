//go:build deadlock

// Package syncutil provides the mutex used around shared generators.
// This file is compiled when building with -tags=deadlock.
package syncutil

import deadlock "github.com/sasha-s/go-deadlock"

type Mutex struct {
	deadlock.Mutex
}
