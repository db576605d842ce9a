// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"os"
	"strings"

	"github.com/ava-labs/countervm/auth"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/crypto/ed25519"
	"github.com/ava-labs/countervm/utils"
)

const fsModeWrite = 0o600

// GenerateKey creates a new key, stores it and makes it the default.
func (h *Handler) GenerateKey() (codec.Address, error) {
	priv, err := ed25519.GeneratePrivateKey()
	if err != nil {
		return codec.EmptyAddress, err
	}
	return h.storeAndSelect(priv)
}

// ImportKey loads a hex encoded private key from [path] and makes it the
// default.
func (h *Handler) ImportKey(path string) (codec.Address, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return codec.EmptyAddress, err
	}
	b, err := codec.LoadHex(strings.TrimSpace(string(raw)), ed25519.PrivateKeyLen)
	if err != nil {
		return codec.EmptyAddress, err
	}
	priv, err := ed25519.PrivateKeyFromBytes(b)
	if err != nil {
		return codec.EmptyAddress, err
	}
	return h.storeAndSelect(priv)
}

// ExportKey writes the default key to [path] as hex.
func (h *Handler) ExportKey(path string) error {
	priv, err := h.GetDefaultKey(true)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(codec.ToHex(priv[:])), fsModeWrite)
}

func (h *Handler) storeAndSelect(priv ed25519.PrivateKey) (codec.Address, error) {
	addr, err := h.StoreKey(priv)
	if err != nil {
		return codec.EmptyAddress, err
	}
	if err := h.StoreDefaultKey(addr); err != nil {
		return codec.EmptyAddress, err
	}
	utils.Outf("{{green}}created address:{{/}} %s\n", addr)
	return addr, nil
}

// SetKey lists the stored keys and prompts for the new default.
func (h *Handler) SetKey() error {
	keys, err := h.GetKeys()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		utils.Outf("{{red}}no stored keys{{/}}\n")
		return nil
	}
	utils.Outf("{{cyan}}stored keys:{{/}} %d\n", len(keys))
	for i, priv := range keys {
		utils.Outf("%d) {{cyan}}address:{{/}} %s\n", i, auth.NewED25519Address(priv.PublicKey()))
	}
	keyIndex, err := h.PromptChoice("set default key", len(keys))
	if err != nil {
		return err
	}
	return h.StoreDefaultKey(auth.NewED25519Address(keys[keyIndex].PublicKey()))
}
