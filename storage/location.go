// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/crypto/ed25519"
)

const (
	// CounterSeed is the namespace tag mixed into every counter location.
	CounterSeed = "counter"

	derivedLocationMarker = "DerivedLocation"
)

// DeriveLocation computes the storage location of the counter owned by
// [owner] within [namespace]:
//
//	sha256(seed || owner || bump || namespace || marker)
//
// [bump] is searched downward from 255 and the first digest that is not a
// valid ed25519 point is returned, so no private key exists for the location.
// The result is a pure function of ([namespace], [owner]).
func DeriveLocation(namespace ids.ID, owner codec.Address) (codec.Address, uint8, error) {
	for bump := 255; bump >= 0; bump-- {
		location := createLocation(namespace, owner, uint8(bump))
		if !ed25519.OnCurve(location) {
			return location, uint8(bump), nil
		}
	}
	return codec.EmptyAddress, 0, ErrNoViableBump
}

// VerifyLocation returns true if [location] and [bump] are the canonical
// derivation for [owner].
func VerifyLocation(namespace ids.ID, owner codec.Address, location codec.Address, bump uint8) bool {
	expected, expectedBump, err := DeriveLocation(namespace, owner)
	if err != nil {
		return false
	}
	return expected == location && expectedBump == bump
}

func createLocation(namespace ids.ID, owner codec.Address, bump uint8) codec.Address {
	preimage := make([]byte, 0, len(CounterSeed)+codec.AddressLen+1+ids.IDLen+len(derivedLocationMarker))
	preimage = append(preimage, CounterSeed...)
	preimage = append(preimage, owner[:]...)
	preimage = append(preimage, bump)
	preimage = append(preimage, namespace[:]...)
	preimage = append(preimage, derivedLocationMarker...)
	return codec.Address(hashing.ComputeHash256Array(preimage))
}
