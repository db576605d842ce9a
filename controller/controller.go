// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/timer/mockable"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/countervm/actions"
	"github.com/ava-labs/countervm/auth"
	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/config"
	"github.com/ava-labs/countervm/consts"
	"github.com/ava-labs/countervm/crypto/ed25519"
	"github.com/ava-labs/countervm/storage"
	"github.com/ava-labs/countervm/utils"
)

// Controller manages counter records: it executes signed operations
// against the database one unit of work at a time and serves reads.
type Controller struct {
	config *config.Config
	log    logging.Logger
	tracer trace.Tracer
	db     chain.Database
	clock  *mockable.Clock

	rules     *Rules
	processor *chain.Processor

	actionRegistry chain.ActionRegistry
	authRegistry   chain.AuthRegistry
	authEngines    map[uint8]chain.AuthEngine

	feed    *feed
	metrics *metrics
}

func New(
	log logging.Logger,
	tracer trace.Tracer,
	db chain.Database,
	cfg *config.Config,
	clock *mockable.Clock,
	registerer prometheus.Registerer,
) (*Controller, error) {
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}
	rules := NewRules(cfg.GetNamespace(), cfg.GetValidityWindow())
	processor, err := chain.NewProcessor(log, tracer, db, rules, clock, registerer)
	if err != nil {
		return nil, err
	}
	actionRegistry, err := actions.NewRegistry()
	if err != nil {
		return nil, err
	}
	authRegistry, err := auth.NewRegistry()
	if err != nil {
		return nil, err
	}
	c := &Controller{
		config:         cfg,
		log:            log,
		tracer:         tracer,
		db:             db,
		clock:          clock,
		rules:          rules,
		processor:      processor,
		actionRegistry: actionRegistry,
		authRegistry:   authRegistry,
		authEngines:    auth.Engines(),
		feed:           newFeed(log, m, cfg.Feed),
		metrics:        m,
	}
	log.Info("initialized controller",
		zap.Stringer("namespace", cfg.GetNamespace()),
		zap.Int64("validityWindow", cfg.GetValidityWindow()),
	)
	return c, nil
}

func (c *Controller) Logger() logging.Logger { return c.log }

func (c *Controller) Tracer() trace.Tracer { return c.tracer }

func (c *Controller) Namespace() ids.ID { return c.rules.GetChainID() }

func (c *Controller) ValidityWindow() int64 { return c.rules.GetValidityWindow() }

func (c *Controller) Registry() (chain.ActionRegistry, chain.AuthRegistry) {
	return c.actionRegistry, c.authRegistry
}

// Feed is the websocket handler that streams executed results.
func (c *Controller) Feed() http.Handler { return c.feed.server }

// Close disconnects every feed subscriber.
func (c *Controller) Close() {
	c.feed.server.Close()
}

// Submit executes [txs] in order. Each tx is its own unit of work: a
// rejected or failed tx does not affect the others.
func (c *Controller) Submit(ctx context.Context, txs []*chain.Transaction) ([]*chain.Result, []error) {
	ctx, span := c.tracer.Start(ctx, "Controller.Submit")
	defer span.End()

	verifyAuth := c.config.VerifyAuth
	if verifyAuth && c.batchVerify(ctx, txs) {
		verifyAuth = false
	}
	results := make([]*chain.Result, len(txs))
	errs := make([]error, len(txs))
	for i, tx := range txs {
		results[i], errs[i] = c.processor.Execute(ctx, tx, verifyAuth)
		c.handleResult(tx, results[i], errs[i])
	}
	return results, errs
}

// batchVerify returns true if every signature in [txs] was verified in a
// batch. Otherwise each tx is verified on its own during execution.
func (c *Controller) batchVerify(ctx context.Context, txs []*chain.Transaction) bool {
	if len(txs) < c.config.AuthBatchSize || len(txs) < ed25519.MinBatchSize {
		return false
	}
	groups := make(map[uint8][]*chain.Transaction)
	for _, tx := range txs {
		if tx.Auth == nil {
			return false
		}
		typeID := tx.Auth.GetTypeID()
		groups[typeID] = append(groups[typeID], tx)
	}
	g, _ := errgroup.WithContext(ctx)
	for typeID, group := range groups {
		engine, ok := c.authEngines[typeID]
		if !ok {
			return false
		}
		bv := engine.GetBatchVerifier(len(group))
		for _, tx := range group {
			digest, err := tx.Digest()
			if err != nil {
				return false
			}
			if job := bv.Add(digest, tx.Auth); job != nil {
				g.Go(job)
			}
		}
		for _, job := range bv.Done() {
			g.Go(job)
		}
	}
	if err := g.Wait(); err != nil {
		c.log.Debug("batch verification failed",
			zap.Int("txs", len(txs)),
			zap.Error(err),
		)
		return false
	}
	c.metrics.batchVerified.Add(float64(len(txs)))
	return true
}

func (c *Controller) handleResult(tx *chain.Transaction, result *chain.Result, err error) {
	if result == nil {
		c.metrics.rejected.Inc()
		c.log.Debug("rejected tx",
			zap.Stringer("txID", tx.ID()),
			zap.Error(err),
		)
		return
	}
	if result.Success {
		switch tx.Action.(type) {
		case *actions.Initialize:
			c.metrics.initialize.Inc()
		case *actions.Increment:
			c.metrics.increment.Inc()
		case *actions.Reset:
			c.metrics.reset.Inc()
		}
		c.log.Info(string(result.Output),
			zap.Stringer("txID", result.TxID),
			zap.Stringer("actor", result.Actor),
		)
	} else {
		c.metrics.failed.Inc()
		c.log.Info("action failed",
			zap.Stringer("txID", result.TxID),
			zap.Stringer("actor", result.Actor),
			zap.Error(err),
		)
	}
	c.feed.publish(result)
}

// Execute signs [action] with [factory] and submits it. If an identical tx
// was already processed, an earlier expiry is used so the new tx is unique.
func (c *Controller) Execute(
	ctx context.Context,
	factory chain.AuthFactory,
	action chain.Action,
) (*chain.Result, error) {
	now := c.processor.Now()
	for expiry := utils.UnixRMilli(now, c.ValidityWindow()); expiry >= now; expiry -= consts.MillisecondsPerSecond {
		base := &chain.Base{Timestamp: expiry, ChainID: c.Namespace()}
		tx, err := chain.NewTx(base, action).Sign(factory, c.actionRegistry, c.authRegistry)
		if err != nil {
			return nil, err
		}
		results, errs := c.Submit(ctx, []*chain.Transaction{tx})
		if errors.Is(errs[0], chain.ErrDuplicateTx) {
			continue
		}
		return results[0], errs[0]
	}
	return nil, chain.ErrDuplicateTx
}

func (c *Controller) Initialize(ctx context.Context, factory chain.AuthFactory) (*chain.Result, error) {
	return c.Execute(ctx, factory, &actions.Initialize{})
}

func (c *Controller) Increment(ctx context.Context, factory chain.AuthFactory) (*chain.Result, error) {
	return c.Execute(ctx, factory, &actions.Increment{})
}

func (c *Controller) Reset(ctx context.Context, factory chain.AuthFactory) (*chain.Result, error) {
	return c.Execute(ctx, factory, &actions.Reset{})
}

// GetCounter reads the committed counter of [owner].
func (c *Controller) GetCounter(ctx context.Context, owner codec.Address) (*storage.Counter, error) {
	_, span := c.tracer.Start(ctx, "Controller.GetCounter")
	defer span.End()

	return storage.GetCounterFromDB(c.db, c.Namespace(), owner)
}

// CounterAddress derives where [owner]'s counter is stored.
func (c *Controller) CounterAddress(owner codec.Address) (codec.Address, uint8, error) {
	return storage.DeriveLocation(c.Namespace(), owner)
}

// GetTransaction reports whether [txID] was processed, when, and whether
// its action succeeded.
func (c *Controller) GetTransaction(ctx context.Context, txID ids.ID) (bool, int64, bool, error) {
	_, span := c.tracer.Start(ctx, "Controller.GetTransaction")
	defer span.End()

	return chain.GetTransaction(c.db, txID)
}
