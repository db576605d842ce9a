// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package lockmap

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLockmapSerializesSameKey(t *testing.T) {
	require := require.New(t)

	l := New(4)
	var (
		wg      sync.WaitGroup
		counter int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Lock("a")
			counter++
			l.Unlock("a")
		}()
	}
	wg.Wait()
	require.Equal(100, counter)
	require.Zero(l.Locks())
}

func TestLockmapIndependentKeys(t *testing.T) {
	require := require.New(t)

	l := New(2)
	l.Lock("a")
	done := make(chan struct{})
	go func() {
		l.Lock("b")
		l.Unlock("b")
		close(done)
	}()
	<-done
	require.Equal(1, l.Locks())
	l.Unlock("a")
	require.Zero(l.Locks())
}

func TestLockmapReaders(t *testing.T) {
	require := require.New(t)

	l := New(1)
	l.RLock("a")
	l.RLock("a")
	require.Equal(1, l.Locks())
	l.RUnlock("a")
	l.RUnlock("a")
	require.Zero(l.Locks())
}

func TestLockAll(t *testing.T) {
	require := require.New(t)

	l := New(2)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			release := l.LockAll([]string{"x", "y"})
			release()
		}()
		go func() {
			defer wg.Done()
			release := l.LockAll([]string{"y", "x"})
			release()
		}()
	}
	wg.Wait()
	require.Zero(l.Locks())
}
