package ptb

import (
	"encoding/binary"

	"github.com/fardream/go-bcs/bcs"
)

// ObjectKind describes how an object is used as an input.
type ObjectKind int

const (
	// ObjectOwned is an object the sender has exclusive access to; the
	// exact version and digest are checked on chain.
	ObjectOwned ObjectKind = iota

	// ObjectImmutable is a frozen object, pinned like an owned one.
	ObjectImmutable

	// ObjectReceiving is an object being received via transfer-to-object.
	ObjectReceiving

	// ObjectShared is a concurrently accessible object; its version is the
	// initial shared version and no digest is pinned.
	ObjectShared
)

func (k ObjectKind) String() string {
	switch k {
	case ObjectOwned:
		return "owned"
	case ObjectImmutable:
		return "immutable"
	case ObjectReceiving:
		return "receiving"
	case ObjectShared:
		return "shared"
	default:
		return "unknown"
	}
}

// ObjectInput is an object used as a transaction input.
//
// Digest is required for owned, immutable, and receiving objects.
// Mutable applies only to shared objects.
type ObjectInput struct {
	Kind    ObjectKind
	ID      Address
	Version uint64
	Digest  Digest
	Mutable bool
}

// OwnedObject builds an owned object input from a pinned reference.
func OwnedObject(ref ObjectRef) ObjectInput {
	return ObjectInput{Kind: ObjectOwned, ID: ref.ID, Version: ref.Version, Digest: ref.Digest}
}

// ImmutableObject builds an immutable object input from a pinned reference.
func ImmutableObject(ref ObjectRef) ObjectInput {
	return ObjectInput{Kind: ObjectImmutable, ID: ref.ID, Version: ref.Version, Digest: ref.Digest}
}

// ReceivingObject builds a receiving object input from a pinned reference.
func ReceivingObject(ref ObjectRef) ObjectInput {
	return ObjectInput{Kind: ObjectReceiving, ID: ref.ID, Version: ref.Version, Digest: ref.Digest}
}

// SharedObject builds a shared object input. initialVersion is the version
// at which the object first became shared.
func SharedObject(id Address, initialVersion uint64, mutable bool) ObjectInput {
	return ObjectInput{Kind: ObjectShared, ID: id, Version: initialVersion, Mutable: mutable}
}

// validate checks kind-specific required metadata.
func (o ObjectInput) validate() error {
	switch o.Kind {
	case ObjectOwned, ObjectImmutable, ObjectReceiving:
		if o.Digest == (Digest{}) {
			return inputErrorf("digest", "%s object %s requires a digest", o.Kind, o.ID)
		}
	case ObjectShared:
	default:
		return inputErrorf("kind", "unknown object kind %d", int(o.Kind))
	}
	return nil
}

// encodePure BCS-encodes a scalar value for use as a pure input.
func encodePure(v any) ([]byte, error) {
	raw, err := bcs.Marshal(v)
	if err != nil {
		return nil, &EncodingError{Value: v, Err: err}
	}
	return raw, nil
}

// encodeU128 lays out a u128 supplied as two uint64 halves in BCS order
// (little-endian, low half first).
func encodeU128(hi, lo uint64) []byte {
	out := make([]byte, 0, 16)
	out = binary.LittleEndian.AppendUint64(out, lo)
	out = binary.LittleEndian.AppendUint64(out, hi)
	return out
}
