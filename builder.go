package ptb

import (
	"context"
)

// Builder accumulates the inputs and commands of a programmable
// transaction and mints the argument identifiers that connect them.
//
// A Builder is for exclusive single-owner use: operations are synchronous
// and non-blocking, nothing locks internally, and Finish consumes the
// builder. Only intent draining inside Finish may block, on the
// configured state reader.
type Builder struct {
	table    resolutionTable
	commands []*Command

	sender    Address
	senderSet bool

	gasBudget uint64
	budgetSet bool
	gasPrice  uint64
	priceSet  bool

	gasObjects []ObjectRef
	gasArg     Argument
	gasMinted  bool

	expiration *uint64 // epoch; nil means no expiration

	limits   Limits
	reader   StateReader
	pending  []*Intent
	consumed bool
	draining bool
}

// usable rejects operations on a consumed builder. Intent resolvers run
// inside Finish and may still mutate the builder while draining.
func (b *Builder) usable() error {
	if b.consumed && !b.draining {
		return ErrBuilderConsumed
	}
	return nil
}

// New creates an empty Builder with the given options.
func New(opts ...BuilderOption) *Builder {
	b := &Builder{
		limits: DefaultLimits(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetSender sets the transaction sender. The sender also owns the gas
// payment.
func (b *Builder) SetSender(sender Address) {
	b.sender = sender
	b.senderSet = true
}

// SetGasBudget sets the maximum gas the transaction may spend.
func (b *Builder) SetGasBudget(budget uint64) {
	b.gasBudget = budget
	b.budgetSet = true
}

// SetGasPrice sets the gas price in base units.
func (b *Builder) SetGasPrice(price uint64) {
	b.gasPrice = price
	b.priceSet = true
}

// SetExpiration makes the transaction invalid after the given epoch.
func (b *Builder) SetExpiration(epoch uint64) {
	e := epoch
	b.expiration = &e
}

// AddGasObjects appends owned coins to the gas payment. Exceeding the
// configured gas-object ceiling fails without appending anything.
func (b *Builder) AddGasObjects(refs ...ObjectRef) error {
	if err := b.usable(); err != nil {
		return err
	}
	if len(b.gasObjects)+len(refs) > b.limits.MaxGasObjects {
		return inputErrorf("gas", "gas objects exceed limit of %d", b.limits.MaxGasObjects)
	}
	for _, ref := range refs {
		if ref.Digest == (Digest{}) {
			return inputErrorf("gas", "gas object %s requires a digest", ref.ID)
		}
	}
	b.gasObjects = append(b.gasObjects, refs...)
	return nil
}

// GasObjects returns the gas payment accumulated so far.
func (b *Builder) GasObjects() []ObjectRef {
	return b.gasObjects
}

// Gas returns the argument for the coin(s) paying for this transaction.
// The identifier is minted on first call and every later call returns the
// same one.
func (b *Builder) Gas() Argument {
	if !b.gasMinted {
		b.gasArg = b.table.allocate(&gasEntry{})
		b.gasMinted = true
	}
	return b.gasArg
}

// Object adds an object input and returns its argument.
func (b *Builder) Object(obj ObjectInput) (Argument, error) {
	if err := b.usable(); err != nil {
		return Argument{}, err
	}
	if err := obj.validate(); err != nil {
		return Argument{}, err
	}
	return b.table.allocate(&objectEntry{obj: obj}), nil
}

// Pure BCS-encodes v and adds it as a pure input. v may be any value the
// codec accepts: unsigned integers, bool, Address, string, slices.
func (b *Builder) Pure(v any) (Argument, error) {
	if err := b.usable(); err != nil {
		return Argument{}, err
	}
	raw, err := encodePure(v)
	if err != nil {
		return Argument{}, err
	}
	return b.table.allocate(&pureEntry{bytes: raw}), nil
}

// PureBool adds a bool pure input.
func (b *Builder) PureBool(v bool) (Argument, error) { return b.Pure(v) }

// PureU8 adds a u8 pure input.
func (b *Builder) PureU8(v uint8) (Argument, error) { return b.Pure(v) }

// PureU16 adds a u16 pure input.
func (b *Builder) PureU16(v uint16) (Argument, error) { return b.Pure(v) }

// PureU32 adds a u32 pure input.
func (b *Builder) PureU32(v uint32) (Argument, error) { return b.Pure(v) }

// PureU64 adds a u64 pure input.
func (b *Builder) PureU64(v uint64) (Argument, error) { return b.Pure(v) }

// PureU128 adds a u128 pure input supplied as high/low uint64 halves.
func (b *Builder) PureU128(hi, lo uint64) (Argument, error) {
	return b.PureBytes(encodeU128(hi, lo))
}

// PureAddress adds an address pure input.
func (b *Builder) PureAddress(addr Address) (Argument, error) { return b.Pure(addr) }

// PureBytes adds already BCS-encoded bytes as a pure input. Escape hatch
// for values the caller encoded themselves.
func (b *Builder) PureBytes(raw []byte) (Argument, error) {
	if err := b.usable(); err != nil {
		return Argument{}, err
	}
	cp := make([]byte, len(raw))
	copy(cp, raw)
	return b.table.allocate(&pureEntry{bytes: cp}), nil
}

// NestedResult mints an argument addressing the Nth output of a
// multi-output command result, e.g. the Nth coin from SplitCoins.
func (b *Builder) NestedResult(base Argument, n int) (Argument, error) {
	if err := b.usable(); err != nil {
		return Argument{}, err
	}
	if err := b.table.checkKnown(base); err != nil {
		return Argument{}, err
	}
	if n < 0 {
		return Argument{}, inputErrorf("subIndex", "negative sub-index %d", n)
	}
	target := Argument{id: base.id, subIndex: n}
	return b.table.allocate(&replacementEntry{target: target}), nil
}

// MoveCall adds a call to pkg::module::function and returns its result
// argument.
func (b *Builder) MoveCall(pkg Address, module, function string, typeArgs []TypeTag, args ...Argument) (Argument, error) {
	if err := b.usable(); err != nil {
		return Argument{}, err
	}
	if !validIdentifier(module) {
		return Argument{}, &InvalidModuleError{Name: module}
	}
	if !validIdentifier(function) {
		return Argument{}, &InvalidFunctionError{Name: function}
	}
	if err := b.table.checkKnown(args...); err != nil {
		return Argument{}, err
	}
	cmd := b.pushCommand(&MoveCallCommand{
		Package:       pkg,
		Module:        module,
		Function:      function,
		TypeArguments: typeArgs,
		Arguments:     args,
	})
	return cmd.result, nil
}

// SplitCoins splits coin into len(amounts) new coins and returns the base
// result. Address individual coins with NestedResult(base, n).
func (b *Builder) SplitCoins(coin Argument, amounts ...Argument) (Argument, error) {
	if err := b.usable(); err != nil {
		return Argument{}, err
	}
	if len(amounts) == 0 {
		return Argument{}, inputErrorf("amounts", "at least one amount required")
	}
	if err := b.table.checkKnown(append([]Argument{coin}, amounts...)...); err != nil {
		return Argument{}, err
	}
	cmd := b.pushCommand(&SplitCoinsCommand{Coin: coin, Amounts: amounts})
	return cmd.result, nil
}

// MergeCoins merges sources into target. The target coin absorbs all
// sources; no result is produced.
func (b *Builder) MergeCoins(target Argument, sources ...Argument) error {
	if err := b.usable(); err != nil {
		return err
	}
	if len(sources) == 0 {
		return inputErrorf("sources", "at least one source required")
	}
	if err := b.table.checkKnown(append([]Argument{target}, sources...)...); err != nil {
		return err
	}
	b.pushCommand(&MergeCoinsCommand{Target: target, Sources: sources})
	return nil
}

// TransferObjects sends objects to the recipient address argument. No
// result is produced.
func (b *Builder) TransferObjects(recipient Argument, objects ...Argument) error {
	if err := b.usable(); err != nil {
		return err
	}
	if len(objects) == 0 {
		return inputErrorf("objects", "at least one object required")
	}
	if err := b.table.checkKnown(append([]Argument{recipient}, objects...)...); err != nil {
		return err
	}
	b.pushCommand(&TransferObjectsCommand{Objects: objects, Recipient: recipient})
	return nil
}

// MakeMoveVector builds a vector from elements and returns its result.
// elementType may be nil when it can be inferred from the elements; an
// empty vector requires it.
func (b *Builder) MakeMoveVector(elementType *TypeTag, elements ...Argument) (Argument, error) {
	if err := b.usable(); err != nil {
		return Argument{}, err
	}
	if len(elements) == 0 && elementType == nil {
		return Argument{}, inputErrorf("elements", "empty vector requires an element type")
	}
	if err := b.table.checkKnown(elements...); err != nil {
		return Argument{}, err
	}
	cmd := b.pushCommand(&MakeMoveVectorCommand{ElementType: elementType, Elements: elements})
	return cmd.result, nil
}

// Publish publishes compiled Move modules and returns the upgrade
// capability result.
func (b *Builder) Publish(modules [][]byte, dependencies []Address) (Argument, error) {
	if err := b.usable(); err != nil {
		return Argument{}, err
	}
	if len(modules) == 0 {
		return Argument{}, inputErrorf("modules", "at least one module required")
	}
	cmd := b.pushCommand(&PublishCommand{Modules: modules, Dependencies: dependencies})
	return cmd.result, nil
}

// Upgrade upgrades the package at pkg using the upgrade ticket produced
// by the package's authorize function, and returns the upgrade receipt
// result.
func (b *Builder) Upgrade(modules [][]byte, dependencies []Address, pkg Address, ticket Argument) (Argument, error) {
	if err := b.usable(); err != nil {
		return Argument{}, err
	}
	if len(modules) == 0 {
		return Argument{}, inputErrorf("modules", "at least one module required")
	}
	if err := b.table.checkKnown(ticket); err != nil {
		return Argument{}, err
	}
	cmd := b.pushCommand(&UpgradeCommand{
		Modules:      modules,
		Dependencies: dependencies,
		Package:      pkg,
		Ticket:       ticket,
	})
	return cmd.result, nil
}

// producesResult reports whether a command variant declares an output.
func producesResult(data commandData) bool {
	switch data.kind() {
	case CommandMergeCoins, CommandTransferObjects:
		return false
	default:
		return true
	}
}

// pushCommand appends a command, allocating its result identifier when
// the variant declares one.
func (b *Builder) pushCommand(data commandData) *Command {
	cmd := &Command{data: data}
	if producesResult(data) {
		cmd.result = b.table.allocate(&resultEntry{cmd: cmd})
		cmd.hasResult = true
	}
	b.commands = append(b.commands, cmd)
	return cmd
}

// insertCommand places a command at position idx, shifting later commands
// back. Result entries reference commands by identity, so existing
// results stay valid. Used by intent resolvers that must run their
// commands ahead of already-recorded consumers.
func (b *Builder) insertCommand(idx int, data commandData) *Command {
	cmd := &Command{data: data}
	if producesResult(data) {
		cmd.result = b.table.allocate(&resultEntry{cmd: cmd})
		cmd.hasResult = true
	}
	if idx < 0 {
		idx = 0
	}
	if idx > len(b.commands) {
		idx = len(b.commands)
	}
	b.commands = append(b.commands, nil)
	copy(b.commands[idx+1:], b.commands[idx:])
	b.commands[idx] = cmd
	return cmd
}

// bindIntent aliases an intent's reserved argument to the sub-th output
// of cmd.
func (b *Builder) bindIntent(intent *Intent, cmd *Command, sub int) error {
	if !cmd.hasResult {
		return inputErrorf("intent", "command %s produces no result", cmd.Kind())
	}
	target := Argument{id: cmd.result.id, subIndex: sub}
	return b.table.alias(intent.arg.id, target)
}

// CommandCount returns the number of commands recorded so far.
func (b *Builder) CommandCount() int {
	return len(b.commands)
}

// CommandAt returns the command at index i, or nil when out of range.
func (b *Builder) CommandAt(i int) *Command {
	if i < 0 || i >= len(b.commands) {
		return nil
	}
	return b.commands[i]
}

// InputCount returns the number of pure and object inputs recorded so far.
func (b *Builder) InputCount() int {
	n := 0
	for _, e := range b.table.entries {
		switch e.(type) {
		case *pureEntry, *objectEntry:
			n++
		}
	}
	return n
}

// ArgumentCount returns the number of argument identifiers allocated so
// far, including results and aliases.
func (b *Builder) ArgumentCount() int {
	return b.table.len()
}

// Finish consumes the builder and produces the terminal transaction
// value: it drains pending intents, validates the configured limits and
// required fields, collapses all argument indirection, and rewrites every
// reference to a flat positional index. The builder must not be used
// afterwards, whether Finish succeeds or fails.
func (b *Builder) Finish(ctx context.Context) (*Transaction, error) {
	if b.consumed {
		return nil, ErrBuilderConsumed
	}
	b.consumed = true

	b.draining = true
	err := b.drainIntents(ctx)
	b.draining = false
	if err != nil {
		return nil, err
	}
	if err := b.validateLimits(); err != nil {
		return nil, err
	}
	if err := b.validateRequired(); err != nil {
		return nil, err
	}
	return b.assemble()
}

// Build is Finish plus canonical encoding: it returns the BCS bytes of
// the finished transaction, ready for signing. Codec failures surface as
// EncodingError, distinct from graph validation errors.
func (b *Builder) Build(ctx context.Context) ([]byte, error) {
	tx, err := b.Finish(ctx)
	if err != nil {
		return nil, err
	}
	return tx.MarshalBCS()
}

func (b *Builder) validateLimits() error {
	if n := len(b.gasObjects); n > b.limits.MaxGasObjects {
		return inputErrorf("gas", "%d gas objects exceed limit of %d", n, b.limits.MaxGasObjects)
	}
	if n := len(b.commands); n > b.limits.MaxCommands {
		return inputErrorf("commands", "%d commands exceed limit of %d", n, b.limits.MaxCommands)
	}
	if n := b.InputCount(); n > b.limits.MaxInputObjects {
		return inputErrorf("inputs", "%d inputs exceed limit of %d", n, b.limits.MaxInputObjects)
	}
	if n := b.table.len(); n > b.limits.MaxArguments {
		return inputErrorf("arguments", "%d arguments exceed limit of %d", n, b.limits.MaxArguments)
	}
	return nil
}

func (b *Builder) validateRequired() error {
	if !b.senderSet {
		return inputErrorf("sender", "sender address not set")
	}
	if !b.budgetSet {
		return inputErrorf("gasBudget", "gas budget not set")
	}
	if !b.priceSet {
		return inputErrorf("gasPrice", "gas price not set")
	}
	if len(b.gasObjects) == 0 {
		return inputErrorf("gas", "no gas objects added")
	}
	if len(b.commands) == 0 {
		return &InputError{Field: "commands", Err: ErrNoCommands}
	}
	return nil
}
