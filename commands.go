package ptb

// CommandKind identifies a command variant.
type CommandKind int

const (
	// CommandMoveCall calls a Move function.
	CommandMoveCall CommandKind = iota

	// CommandSplitCoins splits a coin into N new coins.
	CommandSplitCoins

	// CommandMergeCoins merges source coins into a target coin.
	CommandMergeCoins

	// CommandTransferObjects sends objects to a recipient address.
	CommandTransferObjects

	// CommandMakeMoveVector builds a Move vector from elements.
	CommandMakeMoveVector

	// CommandPublish publishes a new Move package.
	CommandPublish

	// CommandUpgrade upgrades an existing Move package.
	CommandUpgrade
)

func (k CommandKind) String() string {
	switch k {
	case CommandMoveCall:
		return "MoveCall"
	case CommandSplitCoins:
		return "SplitCoins"
	case CommandMergeCoins:
		return "MergeCoins"
	case CommandTransferObjects:
		return "TransferObjects"
	case CommandMakeMoveVector:
		return "MakeMoveVector"
	case CommandPublish:
		return "Publish"
	case CommandUpgrade:
		return "Upgrade"
	default:
		return "unknown"
	}
}

// commandData is the variant payload of a Command.
// This is a sealed interface - only types within this package implement it.
type commandData interface {
	kind() CommandKind
}

// MoveCallCommand calls package::module::function with type and value
// arguments.
type MoveCallCommand struct {
	Package       Address
	Module        string
	Function      string
	TypeArguments []TypeTag
	Arguments     []Argument
}

func (*MoveCallCommand) kind() CommandKind { return CommandMoveCall }

// SplitCoinsCommand splits Coin into len(Amounts) new coins.
type SplitCoinsCommand struct {
	Coin    Argument
	Amounts []Argument
}

func (*SplitCoinsCommand) kind() CommandKind { return CommandSplitCoins }

// MergeCoinsCommand merges Sources into Target. Produces no result.
type MergeCoinsCommand struct {
	Target  Argument
	Sources []Argument
}

func (*MergeCoinsCommand) kind() CommandKind { return CommandMergeCoins }

// TransferObjectsCommand sends Objects to Recipient. Produces no result.
type TransferObjectsCommand struct {
	Objects   []Argument
	Recipient Argument
}

func (*TransferObjectsCommand) kind() CommandKind { return CommandTransferObjects }

// MakeMoveVectorCommand builds a vector from Elements. ElementType is
// required when Elements is empty and optional otherwise.
type MakeMoveVectorCommand struct {
	ElementType *TypeTag
	Elements    []Argument
}

func (*MakeMoveVectorCommand) kind() CommandKind { return CommandMakeMoveVector }

// PublishCommand publishes compiled module bytecodes with their package
// dependencies. The bytecode is carried opaquely. Its result is the new
// package's upgrade capability.
type PublishCommand struct {
	Modules      [][]byte
	Dependencies []Address
}

func (*PublishCommand) kind() CommandKind { return CommandPublish }

// UpgradeCommand upgrades the package at Package using an upgrade ticket.
// Its result is the upgrade receipt.
type UpgradeCommand struct {
	Modules      [][]byte
	Dependencies []Address
	Package      Address
	Ticket       Argument
}

func (*UpgradeCommand) kind() CommandKind { return CommandUpgrade }

// Command is a single operation in the transaction. Commands consume
// arguments as operands and may produce a result argument.
type Command struct {
	data      commandData
	result    Argument
	hasResult bool
}

// Kind returns the command variant.
func (c *Command) Kind() CommandKind {
	return c.data.kind()
}

// Result returns the command's result argument and whether the variant
// produces one.
func (c *Command) Result() (Argument, bool) {
	return c.result, c.hasResult
}

// MoveCall returns the payload of a MoveCall command, or nil.
func (c *Command) MoveCall() *MoveCallCommand {
	d, _ := c.data.(*MoveCallCommand)
	return d
}

// SplitCoins returns the payload of a SplitCoins command, or nil.
func (c *Command) SplitCoins() *SplitCoinsCommand {
	d, _ := c.data.(*SplitCoinsCommand)
	return d
}

// MergeCoins returns the payload of a MergeCoins command, or nil.
func (c *Command) MergeCoins() *MergeCoinsCommand {
	d, _ := c.data.(*MergeCoinsCommand)
	return d
}

// TransferObjects returns the payload of a TransferObjects command, or nil.
func (c *Command) TransferObjects() *TransferObjectsCommand {
	d, _ := c.data.(*TransferObjectsCommand)
	return d
}

// MakeMoveVector returns the payload of a MakeMoveVector command, or nil.
func (c *Command) MakeMoveVector() *MakeMoveVectorCommand {
	d, _ := c.data.(*MakeMoveVectorCommand)
	return d
}

// Publish returns the payload of a Publish command, or nil.
func (c *Command) Publish() *PublishCommand {
	d, _ := c.data.(*PublishCommand)
	return d
}

// Upgrade returns the payload of an Upgrade command, or nil.
func (c *Command) Upgrade() *UpgradeCommand {
	d, _ := c.data.(*UpgradeCommand)
	return d
}
