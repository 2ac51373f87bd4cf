package table

// Ordering selects whether full-table iteration yields key-sorted output.
type Ordering int

const (
	// Unordered stores at most one value per key with unspecified
	// iteration order.
	Unordered Ordering = iota
	// Ordered additionally guarantees snapshots sorted by key.
	Ordered
)

func (o Ordering) String() string {
	switch o {
	case Unordered:
		return "unordered"
	case Ordered:
		return "ordered"
	default:
		return "unknown"
	}
}

// Privacy is the access-control policy gating who may read or write a table.
type Privacy int

const (
	// Private tables reject all access except from the owner.
	Private Privacy = iota
	// Protected tables permit reads from anyone, writes only from the owner.
	Protected
	// Public tables permit reads and writes from anyone.
	Public
)

func (p Privacy) String() string {
	switch p {
	case Private:
		return "private"
	case Protected:
		return "protected"
	case Public:
		return "public"
	default:
		return "unknown"
	}
}

// CounterMode selects how the table tracks its entry count.
type CounterMode int

const (
	// Centralized keeps a single atomic counter. Size reads are one load.
	Centralized CounterMode = iota
	// Decentralized keeps per-shard counts, avoiding a shared hot counter
	// under concurrent writes. Size reads sum the shards.
	Decentralized
)

func (c CounterMode) String() string {
	switch c {
	case Centralized:
		return "centralized"
	case Decentralized:
		return "decentralized"
	default:
		return "unknown"
	}
}

// Options is the validated configuration a table is created with.
//
// ReadConcurrency, WriteConcurrency and Compressed are tuning hints, not
// behavior switches: misconfiguring them costs memory or throughput, never
// correctness. WriteConcurrency selects the striped shard count; Compressed
// is recorded and surfaced via Info but has no in-memory representation for
// generic values.
type Options struct {
	Ordering         Ordering
	Privacy          Privacy
	ReadConcurrency  bool
	WriteConcurrency bool
	Compressed       bool
	CounterMode      CounterMode
}

// DefaultOptions returns the documented defaults: an unordered, protected
// table with no concurrency hints and a centralized counter.
func DefaultOptions() Options {
	return Options{
		Ordering:    Unordered,
		Privacy:     Protected,
		CounterMode: Centralized,
	}
}
