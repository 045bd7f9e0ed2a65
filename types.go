package ptb

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// AddressLength is the byte length of an on-chain address or object ID.
const AddressLength = 32

// Address is a 32-byte account address. Object IDs and package IDs share
// the same representation.
type Address [AddressLength]byte

// AddressFromHex parses a 0x-prefixed hex address. Short addresses such as
// "0x2" are left-padded to 32 bytes.
func AddressFromHex(s string) (Address, error) {
	var a Address
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return a, inputErrorf("address", "missing 0x prefix in %q", s)
	}
	digits := s[2:]
	if digits == "" {
		return a, inputErrorf("address", "empty address %q", s)
	}
	if len(digits)%2 == 1 {
		digits = "0" + digits
	}
	raw, err := hexutil.Decode("0x" + digits)
	if err != nil {
		return a, inputErrorf("address", "invalid hex in %q: %v", s, err)
	}
	if len(raw) > AddressLength {
		return a, inputErrorf("address", "address %q longer than %d bytes", s, AddressLength)
	}
	copy(a[AddressLength-len(raw):], raw)
	return a, nil
}

// MustAddress is like AddressFromHex but panics on error.
// Use only with compile-time constant addresses.
func MustAddress(s string) Address {
	a, err := AddressFromHex(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Hex returns the full-width 0x-prefixed hex form of the address.
func (a Address) Hex() string {
	return hexutil.Encode(a[:])
}

func (a Address) String() string {
	return a.Hex()
}

// DigestLength is the byte length of an object digest.
const DigestLength = 32

// Digest is a 32-byte object digest, rendered as base58 on the wire APIs.
type Digest [DigestLength]byte

// DigestFromBase58 parses a base58-encoded 32-byte digest.
func DigestFromBase58(s string) (Digest, error) {
	var d Digest
	raw := base58.Decode(s)
	if len(raw) != DigestLength {
		return d, inputErrorf("digest", "invalid base58 digest %q", s)
	}
	copy(d[:], raw)
	return d, nil
}

// Base58 returns the base58 form of the digest.
func (d Digest) Base58() string {
	return base58.Encode(d[:])
}

func (d Digest) String() string {
	return d.Base58()
}

// ObjectRef identifies one specific version of an on-chain object.
type ObjectRef struct {
	ID      Address
	Version uint64
	Digest  Digest
}

// maxIdentifierLen matches the Move source identifier limit.
const maxIdentifierLen = 128

// validIdentifier reports whether s is a syntactically valid Move
// identifier: a letter or underscore followed by letters, digits, or
// underscores.
func validIdentifier(s string) bool {
	if s == "" || s == "_" || len(s) > maxIdentifierLen {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// TypeTag is the runtime type of a Move value. Exactly one field is
// non-nil; the populated field selects the BCS enum variant.
type TypeTag struct {
	Bool    *struct{}
	U8      *struct{}
	U64     *struct{}
	U128    *struct{}
	Address *struct{}
	Signer  *struct{}
	Vector  *TypeTag
	Struct  *StructTag
	U16     *struct{}
	U32     *struct{}
	U256    *struct{}
}

// IsBcsEnum marks TypeTag as a BCS enum for the codec.
func (TypeTag) IsBcsEnum() {}

// StructTag names a concrete Move struct type, e.g. 0x2::sui::SUI.
type StructTag struct {
	Address    Address
	Module     string
	Name       string
	TypeParams []TypeTag
}

var unit struct{}

var primitiveTags = map[string]func() TypeTag{
	"bool":    func() TypeTag { return TypeTag{Bool: &unit} },
	"u8":      func() TypeTag { return TypeTag{U8: &unit} },
	"u16":     func() TypeTag { return TypeTag{U16: &unit} },
	"u32":     func() TypeTag { return TypeTag{U32: &unit} },
	"u64":     func() TypeTag { return TypeTag{U64: &unit} },
	"u128":    func() TypeTag { return TypeTag{U128: &unit} },
	"u256":    func() TypeTag { return TypeTag{U256: &unit} },
	"address": func() TypeTag { return TypeTag{Address: &unit} },
	"signer":  func() TypeTag { return TypeTag{Signer: &unit} },
}

// ParseTypeTag parses a type tag string such as "u64",
// "vector<u8>", or "0x2::coin::Coin<0x2::sui::SUI>".
func ParseTypeTag(s string) (TypeTag, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TypeTag{}, inputErrorf("type", "empty type tag")
	}
	if mk, ok := primitiveTags[s]; ok {
		return mk(), nil
	}
	if inner, ok := strings.CutPrefix(s, "vector<"); ok {
		if !strings.HasSuffix(inner, ">") {
			return TypeTag{}, inputErrorf("type", "unterminated vector in %q", s)
		}
		elem, err := ParseTypeTag(inner[:len(inner)-1])
		if err != nil {
			return TypeTag{}, err
		}
		return TypeTag{Vector: &elem}, nil
	}
	st, err := parseStructTag(s)
	if err != nil {
		return TypeTag{}, err
	}
	return TypeTag{Struct: st}, nil
}

// MustParseTypeTag is like ParseTypeTag but panics on error.
func MustParseTypeTag(s string) TypeTag {
	t, err := ParseTypeTag(s)
	if err != nil {
		panic(err)
	}
	return t
}

func parseStructTag(s string) (*StructTag, error) {
	base := s
	var params []TypeTag
	if open := strings.IndexByte(s, '<'); open >= 0 {
		if !strings.HasSuffix(s, ">") {
			return nil, inputErrorf("type", "unterminated type parameters in %q", s)
		}
		base = s[:open]
		for _, part := range splitTopLevel(s[open+1 : len(s)-1]) {
			p, err := ParseTypeTag(part)
			if err != nil {
				return nil, err
			}
			params = append(params, p)
		}
		if len(params) == 0 {
			return nil, inputErrorf("type", "empty type parameters in %q", s)
		}
	}
	parts := strings.Split(base, "::")
	if len(parts) != 3 {
		return nil, inputErrorf("type", "expected address::module::name in %q", s)
	}
	addr, err := AddressFromHex(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, err
	}
	module := strings.TrimSpace(parts[1])
	name := strings.TrimSpace(parts[2])
	if !validIdentifier(module) {
		return nil, &InvalidModuleError{Name: module}
	}
	if !validIdentifier(name) {
		return nil, inputErrorf("type", "invalid struct name %q", name)
	}
	return &StructTag{Address: addr, Module: module, Name: name, TypeParams: params}, nil
}

// splitTopLevel splits a comma-separated type parameter list, ignoring
// commas nested inside angle brackets.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// String renders the tag in canonical source form with full-width
// addresses.
func (t TypeTag) String() string {
	switch {
	case t.Bool != nil:
		return "bool"
	case t.U8 != nil:
		return "u8"
	case t.U16 != nil:
		return "u16"
	case t.U32 != nil:
		return "u32"
	case t.U64 != nil:
		return "u64"
	case t.U128 != nil:
		return "u128"
	case t.U256 != nil:
		return "u256"
	case t.Address != nil:
		return "address"
	case t.Signer != nil:
		return "signer"
	case t.Vector != nil:
		return "vector<" + t.Vector.String() + ">"
	case t.Struct != nil:
		return t.Struct.String()
	default:
		return "<invalid>"
	}
}

func (st *StructTag) String() string {
	s := fmt.Sprintf("%s::%s::%s", st.Address.Hex(), st.Module, st.Name)
	if len(st.TypeParams) > 0 {
		names := make([]string, len(st.TypeParams))
		for i, p := range st.TypeParams {
			names[i] = p.String()
		}
		s += "<" + strings.Join(names, ", ") + ">"
	}
	return s
}
