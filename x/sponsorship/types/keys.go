package types

const (
	// ModuleName defines the module name
	ModuleName = "sponsorship"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey is the message route for sponsorship
	RouterKey = ModuleName

	// QuerierRoute defines the module's query routing key
	QuerierRoute = ModuleName
)

const (
	// FieldElementSize is the byte width of every 256-bit wire value
	// (group identifiers, merkle roots, nullifiers, messages, scopes).
	FieldElementSize = 32

	// ProofPointCount is the number of 256-bit proof points in a
	// serialized Groth16 membership proof.
	ProofPointCount = 8
)
