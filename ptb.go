// Package ptb builds programmable transaction blocks for Sui-style chains.
//
// A transaction is a typed graph of inputs (objects, gas coins, pure
// values) and commands (Move calls, coin splits/merges, transfers, vector
// construction, package publish/upgrade). The builder assigns every input
// and command output a dense argument identifier, lets later operations
// consume those identifiers as operands, and finally collapses the whole
// graph into a flat, canonically BCS-encodable transaction.
//
// # Basic Usage
//
// Create a builder, add inputs and commands, and finish:
//
//	b := ptb.New()
//	b.SetSender(sender)
//	b.SetGasBudget(10_000_000)
//	b.SetGasPrice(1_000)
//	b.AddGasObjects(ptb.ObjectRef{ID: coinID, Version: 2, Digest: digest})
//
//	amount, _ := b.PureU64(100_000_000)
//	base, _ := b.SplitCoins(b.Gas(), amount)
//	coin, _ := b.NestedResult(base, 0)
//	recipient, _ := b.PureAddress(addr)
//	if err := b.TransferObjects(recipient, coin); err != nil {
//	    log.Fatal(err)
//	}
//
//	raw, err := b.Build(ctx) // BCS bytes ready for signing
//
// # Arguments
//
// Every construction operation returns an Argument, a handle into the
// builder's resolution table. Arguments never carry a value directly;
// they may alias other arguments (nested results, resolved intents) and
// all aliasing is collapsed when the builder is finished. Multi-output
// commands such as SplitCoins return a base Argument; address the Nth
// output with NestedResult(base, n).
//
// # Deferred Resolution
//
// Values that depend on on-chain state are registered as intents.
// CoinWithBalance, for example, reserves an argument for "a coin worth at
// least N" and locates concrete coins only when the builder is finished,
// through the StateReader configured with WithStateReader. Finishing a
// builder that holds pending intents without a reader fails rather than
// silently dropping inputs.
//
// # Finishing
//
// Finish (or Build, which also encodes) consumes the builder: it drains
// intents, validates configured limits, resolves every operand reference
// to a flat positional index, and emits the terminal Transaction value.
// The builder must not be used afterwards.
//
// The wire format is produced by the external BCS codec
// (github.com/fardream/go-bcs); this package only shapes values the codec
// accepts.
package ptb
