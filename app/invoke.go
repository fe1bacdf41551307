// Package app provides application services that orchestrate domain logic.
//
// Every state-changing operation runs through the invocation harness: the
// handler works against a staged overlay of the store, and only after its
// writes commit are the collected instructions forwarded to the host module.
// An instruction rejected by the host cannot un-commit the invocation that
// emitted it; the two ledgers reconcile eventually under the host's rules.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/artpar/tokengate/adapters/staged"
	"github.com/artpar/tokengate/domain/effect"
	"github.com/artpar/tokengate/domain/fee"
	"github.com/artpar/tokengate/ports"
)

// Invocation identifies the caller of a state-changing operation and the
// funds attached to the call.
type Invocation struct {
	Sender string
	Funds  []fee.Coin
}

// handler mutates the staged store and returns instructions to emit.
type handler func(ctx context.Context, store ports.KVStore) ([]effect.Instruction, error)

// invoker is the per-service invocation harness.
type invoker struct {
	service string
	store   ports.KVStore
	host    ports.HostModule
	idgen   ports.IDGenerator
	logger  zerolog.Logger
	metrics *Metrics
}

func (iv *invoker) run(ctx context.Context, op string, fn handler) error {
	log := iv.logger.With().Str("op", op).Logger()
	if iv.idgen != nil {
		log = log.With().Str("invocation_id", iv.idgen.New()).Logger()
	}

	st := staged.New(iv.store)
	effects, err := fn(ctx, st)
	if err != nil {
		iv.count(op, "rejected")
		log.Debug().Err(err).Msg("invocation rejected")
		return err
	}
	if err := st.Commit(ctx); err != nil {
		iv.count(op, "error")
		return fmt.Errorf("commit: %w", err)
	}
	iv.count(op, "ok")

	if iv.host == nil {
		// catalog invocations emit nothing
		return nil
	}
	for _, in := range effects {
		if iv.metrics != nil {
			iv.metrics.Instructions.WithLabelValues(iv.service, string(in.Kind)).Inc()
		}
		if err := iv.host.Deliver(ctx, in); err != nil {
			// already committed locally; the host applies its own rules
			if iv.metrics != nil {
				iv.metrics.DeliveryErrors.WithLabelValues(iv.service, string(in.Kind)).Inc()
			}
			log.Warn().Err(err).Str("kind", string(in.Kind)).Msg("host rejected instruction")
		}
	}
	return nil
}

func (iv *invoker) count(op, outcome string) {
	if iv.metrics != nil {
		iv.metrics.Invocations.WithLabelValues(iv.service, op, outcome).Inc()
	}
}
