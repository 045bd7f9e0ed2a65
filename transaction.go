package ptb

import (
	"math"

	"github.com/fardream/go-bcs/bcs"
)

// The types below are the codec-facing value structure of a finished
// transaction. Enum types are structs of nilable fields implementing
// bcs.Enum: the populated field's position selects the variant tag, so
// field order is wire-significant and must not change.

// Transaction is the terminal, versioned transaction value produced by
// Builder.Finish and consumed by the canonical BCS codec.
type Transaction struct {
	V1 *TransactionV1
}

// IsBcsEnum marks Transaction as a BCS enum for the codec.
func (Transaction) IsBcsEnum() {}

// TransactionV1 is version 1 of the transaction layout.
type TransactionV1 struct {
	Kind       TransactionKind
	Sender     Address
	GasData    GasData
	Expiration Expiration
}

// TransactionKind selects the transaction flavor. Only programmable
// transactions are built here.
type TransactionKind struct {
	Programmable *ProgrammableTransaction
}

// IsBcsEnum marks TransactionKind as a BCS enum for the codec.
func (TransactionKind) IsBcsEnum() {}

// ProgrammableTransaction is the flat input and command lists with every
// reference rewritten to a positional index.
type ProgrammableTransaction struct {
	Inputs   []CallArg
	Commands []TransactionCommand
}

// CallArg is one transaction input: a pure BCS value or an object.
type CallArg struct {
	Pure   *[]byte
	Object *ObjectArg
}

// IsBcsEnum marks CallArg as a BCS enum for the codec.
func (CallArg) IsBcsEnum() {}

// ObjectArg is an object input in wire form.
type ObjectArg struct {
	ImmOrOwned *WireObjectRef
	Shared     *WireSharedRef
	Receiving  *WireObjectRef
}

// IsBcsEnum marks ObjectArg as a BCS enum for the codec.
func (ObjectArg) IsBcsEnum() {}

// WireObjectRef pins an object to an exact version and digest.
type WireObjectRef struct {
	ID      Address
	Version uint64
	Digest  []byte // 32 bytes, length-prefixed on the wire
}

// WireSharedRef references a shared object by its initial shared version.
type WireSharedRef struct {
	ID                   Address
	InitialSharedVersion uint64
	Mutable              bool
}

// CommandArgument is a fully resolved operand reference.
type CommandArgument struct {
	GasCoin      *struct{}
	Input        *uint16
	Result       *uint16
	NestedResult *WireNestedResult
}

// IsBcsEnum marks CommandArgument as a BCS enum for the codec.
func (CommandArgument) IsBcsEnum() {}

// WireNestedResult addresses one output of a multi-output command.
type WireNestedResult struct {
	Result uint16
	Index  uint16
}

// TransactionCommand is one command in wire form. Field order fixes the
// variant tags.
type TransactionCommand struct {
	MoveCall        *WireMoveCall
	TransferObjects *WireTransferObjects
	SplitCoins      *WireSplitCoins
	MergeCoins      *WireMergeCoins
	Publish         *WirePublish
	MakeMoveVec     *WireMakeMoveVec
	Upgrade         *WireUpgrade
}

// IsBcsEnum marks TransactionCommand as a BCS enum for the codec.
func (TransactionCommand) IsBcsEnum() {}

// WireMoveCall is a resolved Move call.
type WireMoveCall struct {
	Package       Address
	Module        string
	Function      string
	TypeArguments []TypeTag
	Arguments     []CommandArgument
}

// WireTransferObjects is a resolved TransferObjects command.
type WireTransferObjects struct {
	Objects   []CommandArgument
	Recipient CommandArgument
}

// WireSplitCoins is a resolved SplitCoins command.
type WireSplitCoins struct {
	Coin    CommandArgument
	Amounts []CommandArgument
}

// WireMergeCoins is a resolved MergeCoins command.
type WireMergeCoins struct {
	Target  CommandArgument
	Sources []CommandArgument
}

// WirePublish is a resolved Publish command.
type WirePublish struct {
	Modules      [][]byte
	Dependencies []Address
}

// WireMakeMoveVec is a resolved MakeMoveVector command.
type WireMakeMoveVec struct {
	Type     OptionTypeTag
	Elements []CommandArgument
}

// OptionTypeTag encodes Option<TypeTag>: variant 0 is None, variant 1
// carries the tag, matching BCS option encoding.
type OptionTypeTag struct {
	None *struct{}
	Some *TypeTag
}

// IsBcsEnum marks OptionTypeTag as a BCS enum for the codec.
func (OptionTypeTag) IsBcsEnum() {}

// WireUpgrade is a resolved Upgrade command.
type WireUpgrade struct {
	Modules      [][]byte
	Dependencies []Address
	Package      Address
	Ticket       CommandArgument
}

// GasData is the resolved gas payment.
type GasData struct {
	Payment []WireObjectRef
	Owner   Address
	Price   uint64
	Budget  uint64
}

// Expiration bounds the transaction's validity.
type Expiration struct {
	None  *struct{}
	Epoch *uint64
}

// IsBcsEnum marks Expiration as a BCS enum for the codec.
func (Expiration) IsBcsEnum() {}

// wireTransaction mirrors Transaction without its MarshalBCS method so
// the codec encodes the enum fields instead of re-entering the method.
type wireTransaction Transaction

// IsBcsEnum marks wireTransaction as a BCS enum for the codec.
func (wireTransaction) IsBcsEnum() {}

// MarshalBCS hands the transaction to the canonical codec. Identical
// transactions always produce identical bytes.
func (t *Transaction) MarshalBCS() ([]byte, error) {
	raw, err := bcs.Marshal((*wireTransaction)(t))
	if err != nil {
		return nil, &EncodingError{Value: t, Err: err}
	}
	return raw, nil
}

// Programmable returns the transaction's input and command lists.
func (t *Transaction) Programmable() *ProgrammableTransaction {
	if t.V1 == nil {
		return nil
	}
	return t.V1.Kind.Programmable
}

func wireRef(ref ObjectRef) WireObjectRef {
	digest := make([]byte, DigestLength)
	copy(digest, ref.Digest[:])
	return WireObjectRef{ID: ref.ID, Version: ref.Version, Digest: digest}
}

func (o ObjectInput) wire() ObjectArg {
	ref := WireObjectRef{ID: o.ID, Version: o.Version}
	ref.Digest = make([]byte, DigestLength)
	copy(ref.Digest, o.Digest[:])
	switch o.Kind {
	case ObjectReceiving:
		return ObjectArg{Receiving: &ref}
	case ObjectShared:
		return ObjectArg{Shared: &WireSharedRef{
			ID:                   o.ID,
			InitialSharedVersion: o.Version,
			Mutable:              o.Mutable,
		}}
	default:
		return ObjectArg{ImmOrOwned: &ref}
	}
}

// assemble collapses the builder into the terminal transaction value:
// inputs and commands in order, every operand rewritten to a flat
// positional index.
func (b *Builder) assemble() (*Transaction, error) {
	cmdIndex := make(map[*Command]int, len(b.commands))
	for i, cmd := range b.commands {
		cmdIndex[cmd] = i
	}

	inputIndex := make(map[resolutionEntry]int, len(b.table.entries))
	inputs := make([]CallArg, 0, len(b.table.entries))
	for _, entry := range b.table.entries {
		switch e := entry.(type) {
		case *pureEntry:
			inputIndex[entry] = len(inputs)
			raw := e.bytes
			inputs = append(inputs, CallArg{Pure: &raw})
		case *objectEntry:
			inputIndex[entry] = len(inputs)
			arg := e.obj.wire()
			inputs = append(inputs, CallArg{Object: &arg})
		}
	}
	if len(inputs) > math.MaxUint16 {
		return nil, inputErrorf("inputs", "%d inputs exceed addressable range", len(inputs))
	}

	resolveOperand := func(a Argument) (CommandArgument, error) {
		term, err := b.table.resolve(a)
		if err != nil {
			return CommandArgument{}, err
		}
		switch e := term.entry.(type) {
		case *gasEntry:
			return CommandArgument{GasCoin: &unit}, nil
		case *pureEntry, *objectEntry:
			idx := uint16(inputIndex[term.entry])
			return CommandArgument{Input: &idx}, nil
		case *resultEntry:
			ci, ok := cmdIndex[e.cmd]
			if !ok || ci > math.MaxUint16 {
				return CommandArgument{}, inputErrorf("argument", "result of unknown command")
			}
			if term.subIndex != noSubIndex {
				if term.subIndex > math.MaxUint16 {
					return CommandArgument{}, inputErrorf("subIndex", "sub-index %d out of range", term.subIndex)
				}
				return CommandArgument{NestedResult: &WireNestedResult{
					Result: uint16(ci),
					Index:  uint16(term.subIndex),
				}}, nil
			}
			idx := uint16(ci)
			return CommandArgument{Result: &idx}, nil
		default:
			return CommandArgument{}, inputErrorf("argument", "unresolvable entry %T", term.entry)
		}
	}
	resolveOperands := func(args []Argument) ([]CommandArgument, error) {
		out := make([]CommandArgument, len(args))
		for i, a := range args {
			w, err := resolveOperand(a)
			if err != nil {
				return nil, err
			}
			out[i] = w
		}
		return out, nil
	}

	commands := make([]TransactionCommand, 0, len(b.commands))
	for _, cmd := range b.commands {
		wire, err := assembleCommand(cmd, resolveOperand, resolveOperands)
		if err != nil {
			return nil, err
		}
		commands = append(commands, wire)
	}

	payment := make([]WireObjectRef, len(b.gasObjects))
	for i, ref := range b.gasObjects {
		payment[i] = wireRef(ref)
	}

	expiration := Expiration{None: &unit}
	if b.expiration != nil {
		expiration = Expiration{Epoch: b.expiration}
	}

	return &Transaction{
		V1: &TransactionV1{
			Kind: TransactionKind{
				Programmable: &ProgrammableTransaction{
					Inputs:   inputs,
					Commands: commands,
				},
			},
			Sender: b.sender,
			GasData: GasData{
				Payment: payment,
				Owner:   b.sender,
				Price:   b.gasPrice,
				Budget:  b.gasBudget,
			},
			Expiration: expiration,
		},
	}, nil
}

func assembleCommand(
	cmd *Command,
	one func(Argument) (CommandArgument, error),
	many func([]Argument) ([]CommandArgument, error),
) (TransactionCommand, error) {
	switch d := cmd.data.(type) {
	case *MoveCallCommand:
		args, err := many(d.Arguments)
		if err != nil {
			return TransactionCommand{}, err
		}
		return TransactionCommand{MoveCall: &WireMoveCall{
			Package:       d.Package,
			Module:        d.Module,
			Function:      d.Function,
			TypeArguments: d.TypeArguments,
			Arguments:     args,
		}}, nil
	case *SplitCoinsCommand:
		coin, err := one(d.Coin)
		if err != nil {
			return TransactionCommand{}, err
		}
		amounts, err := many(d.Amounts)
		if err != nil {
			return TransactionCommand{}, err
		}
		return TransactionCommand{SplitCoins: &WireSplitCoins{Coin: coin, Amounts: amounts}}, nil
	case *MergeCoinsCommand:
		target, err := one(d.Target)
		if err != nil {
			return TransactionCommand{}, err
		}
		sources, err := many(d.Sources)
		if err != nil {
			return TransactionCommand{}, err
		}
		return TransactionCommand{MergeCoins: &WireMergeCoins{Target: target, Sources: sources}}, nil
	case *TransferObjectsCommand:
		objects, err := many(d.Objects)
		if err != nil {
			return TransactionCommand{}, err
		}
		recipient, err := one(d.Recipient)
		if err != nil {
			return TransactionCommand{}, err
		}
		return TransactionCommand{TransferObjects: &WireTransferObjects{
			Objects:   objects,
			Recipient: recipient,
		}}, nil
	case *MakeMoveVectorCommand:
		elements, err := many(d.Elements)
		if err != nil {
			return TransactionCommand{}, err
		}
		typ := OptionTypeTag{None: &unit}
		if d.ElementType != nil {
			typ = OptionTypeTag{Some: d.ElementType}
		}
		return TransactionCommand{MakeMoveVec: &WireMakeMoveVec{Type: typ, Elements: elements}}, nil
	case *PublishCommand:
		return TransactionCommand{Publish: &WirePublish{
			Modules:      d.Modules,
			Dependencies: d.Dependencies,
		}}, nil
	case *UpgradeCommand:
		ticket, err := one(d.Ticket)
		if err != nil {
			return TransactionCommand{}, err
		}
		return TransactionCommand{Upgrade: &WireUpgrade{
			Modules:      d.Modules,
			Dependencies: d.Dependencies,
			Package:      d.Package,
			Ticket:       ticket,
		}}, nil
	default:
		return TransactionCommand{}, inputErrorf("command", "unknown command variant %T", cmd.data)
	}
}
