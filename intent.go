package ptb

import (
	"context"
	"errors"
	"fmt"
)

// Coin is an on-chain coin object as reported by the state-query channel.
type Coin struct {
	Ref     ObjectRef
	Type    string // canonical type tag string
	Balance uint64
}

// StateReader is the external state-query channel used to resolve intents
// at finish time. Implementations typically wrap a node RPC client; the
// client subpackage provides one. Transient failures should be returned
// as-is: the builder wraps them as retryable ResolutionErrors and never
// retries on its own.
type StateReader interface {
	// GetCoins lists the coins of the given type owned by owner.
	GetCoins(ctx context.Context, owner Address, coinType string) ([]Coin, error)

	// GetObject returns the latest pinned reference for an object.
	GetObject(ctx context.Context, id Address) (ObjectRef, error)

	// ReferenceGasPrice returns the current epoch's reference gas price.
	ReferenceGasPrice(ctx context.Context) (uint64, error)
}

// IntentState tracks an intent through its lifecycle.
type IntentState int

const (
	// IntentPending means the intent is registered and awaiting resolution.
	IntentPending IntentState = iota

	// IntentResolving means the intent's resolver is currently running.
	IntentResolving

	// IntentResolved means the reserved argument now aliases a concrete value.
	IntentResolved

	// IntentFailed means the resolver returned an error.
	IntentFailed
)

// IntentResolver makes a registered intent concrete. On success it must
// alias the intent's reserved argument to a concrete input or result, and
// must not leave any identifier it introduced unresolved. Resolvers may
// add inputs, gas objects, commands, and further intents to the builder.
type IntentResolver interface {
	Resolve(ctx context.Context, intent *Intent, b *Builder, reader StateReader) error
}

// Intent is a named request for a value that only becomes concrete via
// external state lookup. It reserves an argument identifier at
// registration; draining binds that identifier during Finish.
type Intent struct {
	Name     string
	arg      Argument
	state    IntentState
	resolver IntentResolver
}

// Argument returns the reserved argument the resolver must bind.
func (i *Intent) Argument() Argument {
	return i.arg
}

// State returns the intent's lifecycle state.
func (i *Intent) State() IntentState {
	return i.state
}

// RegisterIntent reserves an argument identifier for a value resolved by r
// during Finish. Most callers want a purpose-built helper such as
// CoinWithBalance instead.
func (b *Builder) RegisterIntent(name string, r IntentResolver) (Argument, error) {
	if err := b.usable(); err != nil {
		return Argument{}, err
	}
	if r == nil {
		return Argument{}, inputErrorf("resolver", "intent %s registered without a resolver", name)
	}
	intent := &Intent{Name: name, state: IntentPending, resolver: r}
	intent.arg = b.table.allocate(&intentEntry{intent: intent})
	b.pending = append(b.pending, intent)
	return intent.arg, nil
}

// PendingIntents returns the number of intents not yet resolved.
func (b *Builder) PendingIntents() int {
	return len(b.pending)
}

// drainIntents resolves pending intents one at a time until none remain.
// Sequential on purpose: a resolver may register new inputs, commands, or
// intents while running.
func (b *Builder) drainIntents(ctx context.Context) error {
	for len(b.pending) > 0 {
		if b.reader == nil {
			return &InputError{Field: "intents", Err: ErrUnresolvedOffline}
		}
		intent := b.pending[0]
		b.pending = b.pending[1:]

		intent.state = IntentResolving
		if err := intent.resolver.Resolve(ctx, intent, b, b.reader); err != nil {
			intent.state = IntentFailed
			var rerr *ResolutionError
			if !errors.As(err, &rerr) {
				err = &ResolutionError{Intent: intent.Name, Kind: ResolutionUnavailable, Err: err}
			}
			return err
		}
		intent.state = IntentResolved
	}
	return nil
}

// GasCoinType is the canonical type of the coin that pays for gas.
var GasCoinType = MustParseTypeTag("0x2::sui::SUI").String()

// CoinWithBalance reserves an argument for a coin worth at least balance,
// located at finish time. Gas-type coins are split off the gas coin;
// other types are found through the state reader, merged when a single
// coin does not cover the balance, and split to the exact amount. The
// split (and merge) commands are inserted ahead of every command already
// in the builder so later consumers see the result.
func (b *Builder) CoinWithBalance(coinType string, balance uint64) (Argument, error) {
	tag, err := ParseTypeTag(coinType)
	if err != nil {
		return Argument{}, err
	}
	if balance == 0 {
		return Argument{}, inputErrorf("balance", "coin balance must be positive")
	}
	return b.RegisterIntent("CoinWithBalance", &coinWithBalance{
		coinType: tag.String(),
		balance:  balance,
	})
}

// coinWithBalance resolves a CoinWithBalance intent.
type coinWithBalance struct {
	coinType string
	balance  uint64
}

func (c *coinWithBalance) Resolve(ctx context.Context, intent *Intent, b *Builder, reader StateReader) error {
	amount, err := b.PureU64(c.balance)
	if err != nil {
		return err
	}

	if c.coinType == GasCoinType {
		split := b.insertCommand(0, &SplitCoinsCommand{Coin: b.Gas(), Amounts: []Argument{amount}})
		return b.bindIntent(intent, split, 0)
	}

	coins, err := reader.GetCoins(ctx, b.sender, c.coinType)
	if err != nil {
		return &ResolutionError{Intent: intent.Name, Kind: ResolutionUnavailable, Err: err}
	}

	var (
		selected []Coin
		total    uint64
	)
	for _, coin := range coins {
		selected = append(selected, coin)
		total += coin.Balance
		if total >= c.balance {
			break
		}
	}
	if total < c.balance {
		return &ResolutionError{
			Intent: intent.Name,
			Kind:   ResolutionNotFound,
			Err:    fmt.Errorf("no coins of type %s with balance >= %d", c.coinType, c.balance),
		}
	}

	first, err := b.Object(OwnedObject(selected[0].Ref))
	if err != nil {
		return err
	}
	if len(selected) > 1 {
		rest := make([]Argument, 0, len(selected)-1)
		for _, coin := range selected[1:] {
			src, err := b.Object(OwnedObject(coin.Ref))
			if err != nil {
				return err
			}
			rest = append(rest, src)
		}
		b.insertCommand(0, &MergeCoinsCommand{Target: first, Sources: rest})
		// The merge lands at index 0, so the split goes after it.
		split := b.insertCommand(1, &SplitCoinsCommand{Coin: first, Amounts: []Argument{amount}})
		return b.bindIntent(intent, split, 0)
	}

	split := b.insertCommand(0, &SplitCoinsCommand{Coin: first, Amounts: []Argument{amount}})
	return b.bindIntent(intent, split, 0)
}
