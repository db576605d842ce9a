// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/countervm/auth"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/crypto/ed25519"
	"github.com/ava-labs/countervm/utils"
)

const (
	defaultPrefix = 0x0
	keyPrefix     = 0x1

	defaultKeyKey      = "key"
	defaultEndpointKey = "endpoint"
	keyIndexKey        = "keys"
)

func (h *Handler) StoreDefault(key string, value []byte) error {
	k := make([]byte, 1+len(key))
	k[0] = defaultPrefix
	copy(k[1:], []byte(key))
	return h.db.Put(k, value)
}

func (h *Handler) GetDefault(key string) ([]byte, error) {
	k := make([]byte, 1+len(key))
	k[0] = defaultPrefix
	copy(k[1:], []byte(key))
	v, err := h.db.Get(k)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (h *Handler) StoreDefaultEndpoint(uri string) error {
	return h.StoreDefault(defaultEndpointKey, []byte(uri))
}

func (h *Handler) GetDefaultEndpoint() (string, error) {
	v, err := h.GetDefault(defaultEndpointKey)
	if err != nil {
		return "", err
	}
	if len(v) == 0 {
		return "", ErrNoEndpoint
	}
	return string(v), nil
}

func keyKey(addr codec.Address) []byte {
	k := make([]byte, 1+codec.AddressLen)
	k[0] = keyPrefix
	copy(k[1:], addr[:])
	return k
}

// StoreKey persists [privateKey] and appends its address to the key index.
func (h *Handler) StoreKey(privateKey ed25519.PrivateKey) (codec.Address, error) {
	addr := auth.NewED25519Address(privateKey.PublicKey())
	k := keyKey(addr)
	has, err := h.db.Has(k)
	if err != nil {
		return codec.EmptyAddress, err
	}
	if has {
		return codec.EmptyAddress, ErrDuplicate
	}
	index, err := h.GetDefault(keyIndexKey)
	if err != nil {
		return codec.EmptyAddress, err
	}
	batch := h.db.NewBatch()
	if err := batch.Put(k, privateKey[:]); err != nil {
		return codec.EmptyAddress, err
	}
	ik := make([]byte, 1+len(keyIndexKey))
	ik[0] = defaultPrefix
	copy(ik[1:], keyIndexKey)
	if err := batch.Put(ik, append(index, addr[:]...)); err != nil {
		return codec.EmptyAddress, err
	}
	return addr, batch.Write()
}

func (h *Handler) GetKey(addr codec.Address) (ed25519.PrivateKey, error) {
	v, err := h.db.Get(keyKey(addr))
	if errors.Is(err, database.ErrNotFound) {
		return ed25519.EmptyPrivateKey, ErrKeyNotFound
	}
	if err != nil {
		return ed25519.EmptyPrivateKey, err
	}
	return ed25519.PrivateKeyFromBytes(v)
}

// GetKeys returns every stored key in the order it was added.
func (h *Handler) GetKeys() ([]ed25519.PrivateKey, error) {
	index, err := h.GetDefault(keyIndexKey)
	if err != nil {
		return nil, err
	}
	if len(index)%codec.AddressLen != 0 {
		return nil, fmt.Errorf("%w: length %d", ErrCorruptKeyIndex, len(index))
	}
	privateKeys := make([]ed25519.PrivateKey, 0, len(index)/codec.AddressLen)
	for i := 0; i < len(index); i += codec.AddressLen {
		priv, err := h.GetKey(codec.Address(index[i : i+codec.AddressLen]))
		if err != nil {
			return nil, err
		}
		privateKeys = append(privateKeys, priv)
	}
	return privateKeys, nil
}

func (h *Handler) StoreDefaultKey(addr codec.Address) error {
	return h.StoreDefault(defaultKeyKey, addr[:])
}

func (h *Handler) GetDefaultKey(log bool) (ed25519.PrivateKey, error) {
	v, err := h.GetDefault(defaultKeyKey)
	if err != nil {
		return ed25519.EmptyPrivateKey, err
	}
	if len(v) == 0 {
		return ed25519.EmptyPrivateKey, ErrNoKeys
	}
	if len(v) != codec.AddressLen {
		return ed25519.EmptyPrivateKey, fmt.Errorf("%w: default key length %d", ErrCorruptKeyIndex, len(v))
	}
	addr := codec.Address(v)
	priv, err := h.GetKey(addr)
	if err != nil {
		return ed25519.EmptyPrivateKey, err
	}
	if log {
		utils.Outf("{{yellow}}address:{{/}} %s\n", addr)
	}
	return priv, nil
}

func (h *Handler) CloseDatabase() error {
	if h.db == nil {
		return nil
	}
	if err := h.db.Close(); err != nil {
		return fmt.Errorf("unable to close database: %w", err)
	}
	// Allow DB to be closed multiple times
	h.db = nil
	return nil
}
