// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/timer/mockable"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"github.com/ava-labs/countervm/actions"
	"github.com/ava-labs/countervm/auth"
	"github.com/ava-labs/countervm/chain"
	"github.com/ava-labs/countervm/codec"
	"github.com/ava-labs/countervm/config"
	"github.com/ava-labs/countervm/controller"
	"github.com/ava-labs/countervm/crypto/ed25519"
	"github.com/ava-labs/countervm/storage"
)

const (
	StepInitialize = "initialize"
	StepIncrement  = "increment"
	StepReset      = "reset"
	StepGet        = "get"
)

// Plan is a sequence of counter operations replayed against an in-memory
// node.
type Plan struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

type Step struct {
	Description string `yaml:"description"`
	// Named signer of the step. A key is generated the first time a name
	// is used.
	Actor string `yaml:"actor"`
	// One of initialize, increment, reset or get.
	Action string `yaml:"action"`
	// Whose counter is read by get and checked by require. Defaults to
	// [Actor].
	Owner   string  `yaml:"owner,omitempty"`
	Require Require `yaml:"require,omitempty"`
}

type Require struct {
	// Substring of the expected error. Empty means the step must succeed.
	Error string  `yaml:"error,omitempty"`
	Count *uint64 `yaml:"count,omitempty"`
	Total *uint64 `yaml:"total,omitempty"`
}

type StepResult struct {
	ID      int              `yaml:"id"`
	TxID    ids.ID           `yaml:"txId,omitempty"`
	Output  string           `yaml:"output,omitempty"`
	Error   string           `yaml:"error,omitempty"`
	Counter *storage.Counter `yaml:"counter,omitempty"`
}

func UnmarshalPlan(b []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(b, &p); err != nil {
		return nil, err
	}
	return &p, p.Verify()
}

func (p *Plan) Verify() error {
	if len(p.Steps) == 0 {
		return fmt.Errorf("%w: no steps found", ErrInvalidPlan)
	}
	for i, step := range p.Steps {
		if len(step.Actor) == 0 {
			return fmt.Errorf("%w %d: missing actor", ErrInvalidStep, i)
		}
		switch step.Action {
		case StepInitialize, StepIncrement, StepReset, StepGet:
		default:
			return fmt.Errorf("%w %d: unknown action %q", ErrInvalidStep, i, step.Action)
		}
	}
	return nil
}

// Simulate replays [plan] against a fresh in-memory node and stops at the
// first step whose outcome does not match its requirements.
func Simulate(ctx context.Context, log logging.Logger, plan *Plan) ([]*StepResult, error) {
	cfg := config.NewDefaultConfig()
	cfg.Namespace = ids.GenerateTestID()
	c, err := controller.New(log, trace.Noop, memdb.New(), cfg, &mockable.Clock{}, prometheus.NewRegistry())
	if err != nil {
		return nil, err
	}
	factories := make(map[string]*auth.ED25519Factory)
	factory := func(name string) (*auth.ED25519Factory, error) {
		f, ok := factories[name]
		if ok {
			return f, nil
		}
		priv, err := ed25519.GeneratePrivateKey()
		if err != nil {
			return nil, err
		}
		f = auth.NewED25519Factory(priv)
		factories[name] = f
		log.Info("generated key",
			zap.String("name", name),
			zap.Stringer("address", f.Address()),
		)
		return f, nil
	}

	results := make([]*StepResult, 0, len(plan.Steps))
	for i, step := range plan.Steps {
		actor, err := factory(step.Actor)
		if err != nil {
			return results, err
		}
		ownerName := step.Owner
		if len(ownerName) == 0 {
			ownerName = step.Actor
		}
		owner, err := factory(ownerName)
		if err != nil {
			return results, err
		}

		sr := &StepResult{ID: i}
		var stepErr error
		if step.Action == StepGet {
			sr.Counter, stepErr = c.GetCounter(ctx, owner.Address())
		} else {
			var result *chain.Result
			result, stepErr = c.Execute(ctx, actor, stepAction(step.Action))
			if result != nil {
				sr.TxID = result.TxID
				sr.Output = string(result.Output)
			}
		}
		if stepErr != nil {
			sr.Error = stepErr.Error()
		}
		results = append(results, sr)

		if err := checkStep(ctx, c, owner.Address(), step.Require, stepErr); err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i, step.Description, err)
		}
		log.Debug("step complete", zap.Int("step", i), zap.String("action", step.Action))
	}
	return results, nil
}

func stepAction(name string) chain.Action {
	switch name {
	case StepInitialize:
		return &actions.Initialize{}
	case StepIncrement:
		return &actions.Increment{}
	default:
		return &actions.Reset{}
	}
}

func checkStep(ctx context.Context, c *controller.Controller, owner codec.Address, r Require, stepErr error) error {
	switch {
	case len(r.Error) == 0 && stepErr != nil:
		return fmt.Errorf("%w: %w", ErrUnexpected, stepErr)
	case len(r.Error) > 0 && stepErr == nil:
		return fmt.Errorf("%w: expected error %q", ErrUnexpected, r.Error)
	case len(r.Error) > 0 && !strings.Contains(stepErr.Error(), r.Error):
		return fmt.Errorf("%w: expected error %q, got %q", ErrUnexpected, r.Error, stepErr)
	}
	if r.Count == nil && r.Total == nil {
		return nil
	}
	counter, err := c.GetCounter(ctx, owner)
	if err != nil {
		return err
	}
	if r.Count != nil && counter.Count != *r.Count {
		return fmt.Errorf("%w: count %d != %d", ErrUnexpected, counter.Count, *r.Count)
	}
	if r.Total != nil && counter.TotalIncrements != *r.Total {
		return fmt.Errorf("%w: total increments %d != %d", ErrUnexpected, counter.TotalIncrements, *r.Total)
	}
	return nil
}
