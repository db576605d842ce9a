// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"
	"fmt"
	"time"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/timer/mockable"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ava-labs/countervm/lockmap"
	"github.com/ava-labs/countervm/tstate"
	"github.com/ava-labs/countervm/utils"

	oteltrace "go.opentelemetry.io/otel/trace"
)

const defaultLocks = 1_024

// Processor executes transactions against [Database]. Every transaction is a
// single unit of work: its state changes and its metadata are written in one
// batch or not at all. Transactions touching the same keys are serialized.
type Processor struct {
	log    logging.Logger
	tracer trace.Tracer
	db     Database
	rules  Rules
	clock  *mockable.Clock

	locks   *lockmap.Lockmap
	metrics *metrics
}

func NewProcessor(
	log logging.Logger,
	tracer trace.Tracer,
	db Database,
	rules Rules,
	clock *mockable.Clock,
	registerer prometheus.Registerer,
) (*Processor, error) {
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}
	return &Processor{
		log:     log,
		tracer:  tracer,
		db:      db,
		rules:   rules,
		clock:   clock,
		locks:   lockmap.New(defaultLocks),
		metrics: m,
	}, nil
}

func (p *Processor) Rules() Rules { return p.rules }

// Now is the processor clock in milliseconds.
func (p *Processor) Now() int64 { return p.clock.Time().UnixMilli() }

// Execute verifies and runs [tx]. If [verifyAuth] is false, the caller must
// have already verified the signature of [tx].
//
// A nil [Result] means [tx] was rejected and nothing was written. A non-nil
// [Result] means [tx] was recorded; if the action failed, its error is also
// returned and no state change was persisted.
func (p *Processor) Execute(ctx context.Context, tx *Transaction, verifyAuth bool) (*Result, error) {
	ctx, span := p.tracer.Start(ctx, "Processor.Execute",
		oteltrace.WithAttributes(
			attribute.Stringer("tx", tx.ID()),
			attribute.Int("action", int(tx.Action.GetTypeID())),
		),
	)
	defer span.End()

	start := time.Now()
	result, err := p.execute(ctx, tx, verifyAuth)
	if result == nil {
		p.metrics.txsRejected.Inc()
		p.log.Debug("rejected tx",
			zap.Stringer("txID", tx.ID()),
			zap.Error(err),
		)
		return nil, err
	}
	p.metrics.txsProcessed.Inc()
	p.metrics.executeDuration.Observe(time.Since(start).Seconds())
	if result.Success {
		p.metrics.txsSucceeded.Inc()
	} else {
		p.metrics.txsFailed.Inc()
	}
	return result, err
}

func (p *Processor) execute(ctx context.Context, tx *Transaction, verifyAuth bool) (*Result, error) {
	now := p.Now()
	if err := tx.Base.Execute(p.rules, now); err != nil {
		return nil, err
	}
	if verifyAuth {
		if err := tx.VerifyAuth(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrAuthNotVerified, err)
		}
	}
	stateKeys, err := tx.StateKeys(p.rules.GetChainID())
	if err != nil {
		return nil, err
	}

	id := tx.ID()
	txKey := string(TxKey(id))
	unlock := p.locks.LockAll(append(stateKeys.Sorted(), txKey))
	defer unlock()

	seen, _, _, err := GetTransaction(p.db, id)
	if err != nil {
		return nil, err
	}
	if seen {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateTx, id)
	}

	storage, err := tstate.Scope(ctx, p.db, stateKeys)
	if err != nil {
		return nil, err
	}
	ts := tstate.New(len(stateKeys))
	view := ts.NewView(stateKeys, storage)

	actor := tx.Actor()
	output, execErr := tx.Action.Execute(ctx, p.rules, view, now, actor, id)
	result := &Result{
		TxID:       id,
		Actor:      actor,
		ActionType: tx.Action.GetTypeID(),
		Success:    execErr == nil,
		Timestamp:  now,
	}
	if execErr == nil {
		result.Output = output
	} else {
		// Undo any writes the action made before failing.
		view.Rollback(ctx, 0)
		result.Error = utils.ErrBytes(execErr)
	}
	view.Commit()

	batch := p.db.NewBatch()
	if err := ts.WriteChanges(ctx, p.tracer, batch); err != nil {
		return nil, err
	}
	if err := StoreTransaction(batch, id, now, result.Success); err != nil {
		return nil, err
	}
	if err := batch.Write(); err != nil {
		return nil, err
	}
	p.metrics.stateChanges.Add(float64(ts.PendingChanges()))
	p.metrics.stateOperations.Add(float64(ts.OpIndex()))
	return result, execErr
}
