package ptb

// Protocol maxima for reference. The default limits sit below these to
// leave headroom for encoding overhead and client-side batching.
const (
	ProtocolMaxGasObjects   = 256
	ProtocolMaxCommands     = 1024
	ProtocolMaxInputObjects = 2048
	ProtocolMaxArguments    = 512
)

// Limits caps the aggregate size of a transaction graph. Zero values fall
// back to the defaults.
type Limits struct {
	MaxGasObjects   int
	MaxCommands     int
	MaxInputObjects int
	MaxArguments    int
}

// DefaultLimits returns the limits applied when none are configured.
func DefaultLimits() Limits {
	return Limits{
		MaxGasObjects:   250,
		MaxCommands:     1000,
		MaxInputObjects: 2000,
		MaxArguments:    500,
	}
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.MaxGasObjects <= 0 {
		l.MaxGasObjects = d.MaxGasObjects
	}
	if l.MaxCommands <= 0 {
		l.MaxCommands = d.MaxCommands
	}
	if l.MaxInputObjects <= 0 {
		l.MaxInputObjects = d.MaxInputObjects
	}
	if l.MaxArguments <= 0 {
		l.MaxArguments = d.MaxArguments
	}
	return l
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLimits overrides the default graph limits.
func WithLimits(l Limits) BuilderOption {
	return func(b *Builder) {
		b.limits = l.withDefaults()
	}
}

// WithStateReader configures the state-query channel used to resolve
// intents at finish time. A builder without a reader rejects finishing
// while intents are pending instead of silently dropping them.
func WithStateReader(r StateReader) BuilderOption {
	return func(b *Builder) {
		b.reader = r
	}
}
