package ptb

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"
)

func appendU64(raw []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(raw, v)
}

func appendU16(raw []byte, v uint16) []byte {
	return binary.LittleEndian.AppendUint16(raw, v)
}

// TestMarshalGolden checks the exact canonical bytes of a minimal
// transaction: one pure input, one SplitCoins off the gas coin, one
// gas object, no expiration.
func TestMarshalGolden(t *testing.T) {
	b := New()
	configure(t, b)

	amount, err := b.PureU64(5)
	if err != nil {
		t.Fatalf("PureU64: %v", err)
	}
	if _, err := b.SplitCoins(b.Gas(), amount); err != nil {
		t.Fatalf("SplitCoins: %v", err)
	}

	raw, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	gas := testGasRef()

	var want []byte
	want = append(want, 0) // Transaction::V1
	want = append(want, 0) // TransactionKind::Programmable

	want = append(want, 1)                       // one input
	want = append(want, 0)                       // CallArg::Pure
	want = append(want, 8)                       // pure byte length
	want = appendU64(want, 5)                    // u64 amount
	want = append(want, 1)                       // one command
	want = append(want, 2)                       // Command::SplitCoins
	want = append(want, 0)                       // Argument::GasCoin
	want = append(want, 1)                       // one amount
	want = append(want, 1)                       // Argument::Input
	want = appendU16(want, 0)                    // input index
	want = append(want, testSender[:]...)        // sender
	want = append(want, 1)                       // one gas object
	want = append(want, gas.ID[:]...)            // object id
	want = appendU64(want, gas.Version)          // version
	want = append(want, byte(DigestLength))      // digest length
	want = append(want, gas.Digest[:]...)        // digest
	want = append(want, testSender[:]...)        // gas owner
	want = appendU64(want, 1_000)                // price
	want = appendU64(want, 10_000_000)           // budget
	want = append(want, 0)                       // Expiration::None

	if !bytes.Equal(raw, want) {
		t.Errorf("encoded bytes mismatch\n got %x\nwant %x", raw, want)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	build := func() []byte {
		t.Helper()
		b := New()
		configure(t, b)
		amount, _ := b.PureU64(7)
		base, err := b.SplitCoins(b.Gas(), amount)
		if err != nil {
			t.Fatalf("SplitCoins: %v", err)
		}
		coin, err := b.NestedResult(base, 0)
		if err != nil {
			t.Fatalf("NestedResult: %v", err)
		}
		recipient, _ := b.PureAddress(testRecipient)
		if err := b.TransferObjects(recipient, coin); err != nil {
			t.Fatalf("TransferObjects: %v", err)
		}
		raw, err := b.Build(context.Background())
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		return raw
	}

	first := build()
	for i := 0; i < 3; i++ {
		if !bytes.Equal(build(), first) {
			t.Fatalf("build %d produced different bytes", i+2)
		}
	}
}

func TestObjectInputWireForms(t *testing.T) {
	ref := ObjectRef{ID: MustAddress("0xace"), Version: 9, Digest: testDigest(3)}

	cases := []struct {
		name  string
		input ObjectInput
		check func(t *testing.T, arg ObjectArg)
	}{
		{
			name:  "owned",
			input: OwnedObject(ref),
			check: func(t *testing.T, arg ObjectArg) {
				if arg.ImmOrOwned == nil {
					t.Fatalf("arg = %+v, want ImmOrOwned", arg)
				}
				if arg.ImmOrOwned.Version != 9 {
					t.Errorf("version = %d", arg.ImmOrOwned.Version)
				}
				if !bytes.Equal(arg.ImmOrOwned.Digest, ref.Digest[:]) {
					t.Errorf("digest mismatch")
				}
			},
		},
		{
			name:  "immutable",
			input: ImmutableObject(ref),
			check: func(t *testing.T, arg ObjectArg) {
				if arg.ImmOrOwned == nil {
					t.Fatalf("arg = %+v, want ImmOrOwned", arg)
				}
			},
		},
		{
			name:  "receiving",
			input: ReceivingObject(ref),
			check: func(t *testing.T, arg ObjectArg) {
				if arg.Receiving == nil {
					t.Fatalf("arg = %+v, want Receiving", arg)
				}
			},
		},
		{
			name:  "shared mutable",
			input: SharedObject(ref.ID, 4, true),
			check: func(t *testing.T, arg ObjectArg) {
				if arg.Shared == nil {
					t.Fatalf("arg = %+v, want Shared", arg)
				}
				if arg.Shared.InitialSharedVersion != 4 || !arg.Shared.Mutable {
					t.Errorf("shared = %+v", arg.Shared)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.check(t, tc.input.wire())
		})
	}
}

func TestAssembleMoveCall(t *testing.T) {
	ctx := context.Background()
	b := New()
	configure(t, b)

	clock, err := b.Object(SharedObject(MustAddress("0x6"), 1, false))
	if err != nil {
		t.Fatalf("Object: %v", err)
	}
	amount, _ := b.PureU64(10)
	tag := MustParseTypeTag("0x2::sui::SUI")
	result, err := b.MoveCall(testPackage, "coin", "mint", []TypeTag{tag}, clock, amount)
	if err != nil {
		t.Fatalf("MoveCall: %v", err)
	}
	recipient, _ := b.PureAddress(testRecipient)
	if err := b.TransferObjects(recipient, result); err != nil {
		t.Fatalf("TransferObjects: %v", err)
	}

	tx, err := b.Finish(ctx)
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}

	pt := tx.Programmable()
	call := pt.Commands[0].MoveCall
	if call == nil {
		t.Fatal("command 0 is not MoveCall")
	}
	if call.Package != testPackage || call.Module != "coin" || call.Function != "mint" {
		t.Errorf("call target = %s::%s::%s", call.Package, call.Module, call.Function)
	}
	if len(call.TypeArguments) != 1 || call.TypeArguments[0].String() != "0x2::sui::SUI" {
		t.Errorf("type arguments = %v", call.TypeArguments)
	}
	if len(call.Arguments) != 2 {
		t.Fatalf("arguments = %d, want 2", len(call.Arguments))
	}
	if call.Arguments[0].Input == nil || *call.Arguments[0].Input != 0 {
		t.Errorf("argument 0 = %+v, want Input(0)", call.Arguments[0])
	}
	if call.Arguments[1].Input == nil || *call.Arguments[1].Input != 1 {
		t.Errorf("argument 1 = %+v, want Input(1)", call.Arguments[1])
	}

	// The undecorated call result maps to a plain Result reference.
	transfer := pt.Commands[1].TransferObjects
	if transfer.Objects[0].Result == nil || *transfer.Objects[0].Result != 0 {
		t.Errorf("transfer object = %+v, want Result(0)", transfer.Objects[0])
	}
}

func TestAssembleMakeMoveVector(t *testing.T) {
	ctx := context.Background()

	t.Run("inferred type", func(t *testing.T) {
		b := New()
		configure(t, b)
		a, _ := b.PureU64(1)
		c, _ := b.PureU64(2)
		vec, err := b.MakeMoveVector(nil, a, c)
		if err != nil {
			t.Fatalf("MakeMoveVector: %v", err)
		}
		recipient, _ := b.PureAddress(testRecipient)
		if err := b.TransferObjects(recipient, vec); err != nil {
			t.Fatalf("TransferObjects: %v", err)
		}

		tx, err := b.Finish(ctx)
		if err != nil {
			t.Fatalf("Finish: %v", err)
		}
		wire := tx.Programmable().Commands[0].MakeMoveVec
		if wire == nil {
			t.Fatal("command 0 is not MakeMoveVec")
		}
		if wire.Type.None == nil {
			t.Errorf("type = %+v, want None", wire.Type)
		}
		if len(wire.Elements) != 2 {
			t.Errorf("elements = %d, want 2", len(wire.Elements))
		}
	})

	t.Run("explicit type", func(t *testing.T) {
		b := New()
		configure(t, b)
		tag := MustParseTypeTag("u64")
		vec, err := b.MakeMoveVector(&tag)
		if err != nil {
			t.Fatalf("MakeMoveVector: %v", err)
		}
		recipient, _ := b.PureAddress(testRecipient)
		if err := b.TransferObjects(recipient, vec); err != nil {
			t.Fatalf("TransferObjects: %v", err)
		}

		tx, err := b.Finish(ctx)
		if err != nil {
			t.Fatalf("Finish: %v", err)
		}
		wire := tx.Programmable().Commands[0].MakeMoveVec
		if wire.Type.Some == nil || wire.Type.Some.String() != "u64" {
			t.Errorf("type = %+v, want Some(u64)", wire.Type)
		}
	})
}

func TestAssemblePublishAndUpgrade(t *testing.T) {
	ctx := context.Background()
	b := New()
	configure(t, b)

	module := []byte{0xa1, 0x1c, 0xeb, 0x0b}
	dep := MustAddress("0x1")

	upgradeCap, err := b.Publish([][]byte{module}, []Address{dep})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	receipt, err := b.Upgrade([][]byte{module}, []Address{dep}, testPackage, upgradeCap)
	if err != nil {
		t.Fatalf("Upgrade: %v", err)
	}
	recipient, _ := b.PureAddress(testRecipient)
	if err := b.TransferObjects(recipient, receipt); err != nil {
		t.Fatalf("TransferObjects: %v", err)
	}

	tx, err := b.Finish(ctx)
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}

	pt := tx.Programmable()
	pub := pt.Commands[0].Publish
	if pub == nil {
		t.Fatal("command 0 is not Publish")
	}
	if len(pub.Modules) != 1 || !bytes.Equal(pub.Modules[0], module) {
		t.Errorf("publish modules = %v", pub.Modules)
	}

	up := pt.Commands[1].Upgrade
	if up == nil {
		t.Fatal("command 1 is not Upgrade")
	}
	if up.Package != testPackage {
		t.Errorf("upgrade package = %s", up.Package)
	}
	if up.Ticket.Result == nil || *up.Ticket.Result != 0 {
		t.Errorf("upgrade ticket = %+v, want Result(0)", up.Ticket)
	}
}
