// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"encoding/binary"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/countervm/consts"
)

// txPrefix is reserved for transaction metadata. Application state lives
// under other prefixes.
const txPrefix = 0x1

const txValueLen = consts.Int64Len + consts.BoolLen

var ErrInvalidTxMetadata = errors.New("invalid transaction metadata")

func TxKey(id ids.ID) []byte {
	k := make([]byte, 1+ids.IDLen)
	k[0] = txPrefix
	copy(k[1:], id[:])
	return k
}

// StoreTransaction records that [id] was processed at [t].
func StoreTransaction(
	db database.KeyValueWriter,
	id ids.ID,
	t int64,
	success bool,
) error {
	v := make([]byte, txValueLen)
	binary.BigEndian.PutUint64(v, uint64(t))
	if success {
		v[consts.Int64Len] = 1
	}
	return db.Put(TxKey(id), v)
}

// GetTransaction returns whether [id] was processed and, if so, when and
// whether it succeeded.
func GetTransaction(
	db database.KeyValueReader,
	id ids.ID,
) (bool, int64, bool, error) {
	v, err := db.Get(TxKey(id))
	if errors.Is(err, database.ErrNotFound) {
		return false, 0, false, nil
	}
	if err != nil {
		return false, 0, false, err
	}
	if len(v) != txValueLen {
		return false, 0, false, ErrInvalidTxMetadata
	}
	t := int64(binary.BigEndian.Uint64(v))
	success := v[consts.Int64Len] == 1
	return true, t, success, nil
}
