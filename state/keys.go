// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"sort"
	"strings"
)

const (
	Read     Permissions = 1
	Allocate             = 1<<1 | Read
	Write                = 1<<2 | Read

	None Permissions = 0
	All              = Read | Allocate | Write
)

// Keys holds the name of each key and its permission (Read/Allocate/Write).
// Use Add to merge permissions instead of overwriting them.
type Keys map[string]Permissions

// All acceptable permission options
type Permissions byte

// Add takes the union of [permission] and any permission already held for
// [name].
func (k Keys) Add(name string, permission Permissions) {
	k[name] |= permission
}

// Has returns true if [p] has all the permissions that are contained in require
func (p Permissions) Has(require Permissions) bool {
	return require&^p == 0
}

func (p Permissions) String() string {
	if p == None {
		return "none"
	}
	var parts []string
	if p.Has(Read) {
		parts = append(parts, "read")
	}
	if p.Has(Allocate) {
		parts = append(parts, "allocate")
	}
	if p.Has(Write) {
		parts = append(parts, "write")
	}
	return strings.Join(parts, "|")
}

// Sorted returns the key names in lexicographic order.
func (k Keys) Sorted() []string {
	names := make([]string, 0, len(k))
	for name := range k {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
