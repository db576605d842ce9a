// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/crypto"
	"github.com/ava-labs/countervm/crypto/ed25519"
)

func TestED25519SignVerify(t *testing.T) {
	require := require.New(t)

	priv, err := ed25519.GeneratePrivateKey()
	require.NoError(err)
	factory := NewED25519Factory(priv)

	msg := []byte("increment")
	a, err := factory.Sign(msg)
	require.NoError(err)
	require.Equal(factory.Address(), a.Actor())
	require.Equal(codec.Address(priv.PublicKey()), a.Actor())
	require.NoError(a.Verify(context.Background(), msg))
	require.ErrorIs(a.Verify(context.Background(), []byte("reset")), crypto.ErrInvalidSignature)
}

func TestED25519Marshal(t *testing.T) {
	require := require.New(t)

	priv, err := ed25519.GeneratePrivateKey()
	require.NoError(err)
	a, err := NewED25519Factory(priv).Sign([]byte("msg"))
	require.NoError(err)

	p := codec.NewWriter(a.Size(), consts.NetworkSizeLimit)
	a.Marshal(p)
	require.NoError(p.Err())
	require.Len(p.Bytes(), ED25519Size)

	r, err := NewRegistry()
	require.NoError(err)
	b := append([]byte{consts.ED25519ID}, p.Bytes()...)
	parsed, err := r.Unmarshal(codec.NewReader(b, consts.NetworkSizeLimit))
	require.NoError(err)
	require.Equal(a, parsed)

	_, err = r.Unmarshal(codec.NewReader(b[:10], consts.NetworkSizeLimit))
	require.Error(err)
}

func TestED25519Batch(t *testing.T) {
	tests := map[string]struct {
		count   int
		corrupt int
	}{
		"below min batch size": {count: 2, corrupt: -1},
		"exact batch":          {count: 8, corrupt: -1},
		"invalid signature":    {count: 8, corrupt: 5},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)

			bv := (&ED25519AuthEngine{}).GetBatchVerifier(tt.count)
			var jobs []func() error
			for i := 0; i < tt.count; i++ {
				priv, err := ed25519.GeneratePrivateKey()
				require.NoError(err)
				msg := []byte{byte(i)}
				a, err := NewED25519Factory(priv).Sign(msg)
				require.NoError(err)
				if i == tt.corrupt {
					msg = []byte("other")
				}
				if job := bv.Add(msg, a); job != nil {
					jobs = append(jobs, job)
				}
			}
			jobs = append(jobs, bv.Done()...)
			require.NotEmpty(jobs)

			var verr error
			for _, job := range jobs {
				if err := job(); err != nil {
					verr = err
				}
			}
			if tt.corrupt >= 0 {
				require.ErrorIs(verr, crypto.ErrInvalidSignature)
			} else {
				require.NoError(verr)
			}
		})
	}
}
