package ptb

// noSubIndex marks an Argument that addresses a whole value rather than
// one output of a multi-output command.
const noSubIndex = -1

// Argument is a handle to a value available to commands: an input, a
// command result, or an alias of either. Arguments are minted by the
// builder and never carry the value itself; they are keys into the
// builder's resolution table.
type Argument struct {
	id       int
	subIndex int
}

func newArgument(id int) Argument {
	return Argument{id: id, subIndex: noSubIndex}
}

// ID returns the argument's dense identifier within its builder.
func (a Argument) ID() int {
	return a.id
}

// SubIndex returns the selected output of a multi-output command and
// whether one is selected.
func (a Argument) SubIndex() (int, bool) {
	return a.subIndex, a.subIndex != noSubIndex
}

// resolutionEntry is the value bound to one argument identifier.
// This is a sealed interface - only types within this package implement it.
type resolutionEntry interface {
	isEntry()
}

// pureEntry is a concrete BCS-encoded value.
type pureEntry struct {
	bytes []byte
}

func (*pureEntry) isEntry() {}

// objectEntry references an on-chain object input.
type objectEntry struct {
	obj ObjectInput
}

func (*objectEntry) isEntry() {}

// gasEntry is the per-builder gas pseudo-input.
type gasEntry struct{}

func (*gasEntry) isEntry() {}

// resultEntry is the output of a command. It holds the command itself,
// not its index, so that intent resolution may insert commands without
// invalidating previously minted results.
type resultEntry struct {
	cmd *Command
}

func (*resultEntry) isEntry() {}

// replacementEntry aliases another argument. Chains of replacements are
// collapsed at resolution time.
type replacementEntry struct {
	target Argument
}

func (*replacementEntry) isEntry() {}

// intentEntry reserves an identifier for a value that only becomes
// concrete during intent draining.
type intentEntry struct {
	intent *Intent
}

func (*intentEntry) isEntry() {}

// resolutionTable is the arena of entries indexed by argument identifier.
// Identifiers are dense, append-only, and never reused.
type resolutionTable struct {
	entries []resolutionEntry
}

// allocate mints a fresh identifier bound to entry.
func (t *resolutionTable) allocate(entry resolutionEntry) Argument {
	t.entries = append(t.entries, entry)
	return newArgument(len(t.entries) - 1)
}

// lookup returns the entry currently bound to id.
func (t *resolutionTable) lookup(id int) (resolutionEntry, error) {
	if id < 0 || id >= len(t.entries) {
		return nil, &UnknownArgumentError{ID: id}
	}
	return t.entries[id], nil
}

// checkKnown verifies that every argument was allocated by this table.
// Used to surface UnknownArgumentError at the call that supplied the
// argument instead of deferring it to finish time.
func (t *resolutionTable) checkKnown(args ...Argument) error {
	for _, a := range args {
		if a.id < 0 || a.id >= len(t.entries) {
			return &UnknownArgumentError{ID: a.id}
		}
	}
	return nil
}

// alias rebinds id to a replacement pointing at target. Existing
// identifiers keep their numbers, so earlier references stay valid.
func (t *resolutionTable) alias(id int, target Argument) error {
	if id < 0 || id >= len(t.entries) {
		return &UnknownArgumentError{ID: id}
	}
	t.entries[id] = &replacementEntry{target: target}
	return nil
}

// terminalRef is a fully collapsed argument reference: a non-replacement
// entry plus the innermost sub-index selection, if any.
type terminalRef struct {
	entry    resolutionEntry
	subIndex int
}

// resolve follows replacement links from a until it reaches a terminal
// entry. A chain revisiting an identifier fails with
// CyclicReferenceError; intent entries fail because the value is not
// concrete yet.
func (t *resolutionTable) resolve(a Argument) (terminalRef, error) {
	seen := make(map[int]bool, 4)
	sub := a.subIndex
	for {
		if seen[a.id] {
			return terminalRef{}, &CyclicReferenceError{ID: a.id}
		}
		seen[a.id] = true

		entry, err := t.lookup(a.id)
		if err != nil {
			return terminalRef{}, err
		}
		switch e := entry.(type) {
		case *replacementEntry:
			a = e.target
			// The innermost selection wins: NestedResult mints a
			// replacement whose target carries the sub-index.
			if a.subIndex != noSubIndex {
				sub = a.subIndex
			}
		case *intentEntry:
			return terminalRef{}, &ResolutionError{
				Intent: e.intent.Name,
				Kind:   ResolutionNotFound,
				Err:    ErrUnresolvedOffline,
			}
		case *resultEntry:
			return terminalRef{entry: e, subIndex: sub}, nil
		default:
			if sub != noSubIndex {
				return terminalRef{}, inputErrorf("argument",
					"sub-index %d on argument %d, which is not a command result", sub, a.id)
			}
			return terminalRef{entry: entry, subIndex: noSubIndex}, nil
		}
	}
}

// len returns the number of allocated identifiers.
func (t *resolutionTable) len() int {
	return len(t.entries)
}
