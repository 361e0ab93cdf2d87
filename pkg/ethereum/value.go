package ethereum

// ValueKind discriminates the scalar kinds a read-only call can return.
// New ABI types extend the set without breaking callers.
type ValueKind string

const (
	KindString  ValueKind = "string"
	KindInteger ValueKind = "integer"
	KindBool    ValueKind = "bool"
	KindAddress ValueKind = "address"
	KindBytes   ValueKind = "bytes"
)

// Value is a decoded scalar result tagged with its kind.
type Value struct {
	Kind  ValueKind `json:"kind"`
	Value string    `json:"value"`
}

func (v Value) String() string {
	return v.Value
}
