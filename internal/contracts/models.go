package contracts

import (
	"github.com/yope/ethereum-contract/pkg/ethereum"
)

// Descriptor identifies a contract for one request: the key used to look
// up compiled output, the account acting on it, the raw source, and the
// methods needed for this operation. Read-only to the service once
// methods are attached.
type Descriptor struct {
	Key     string            `json:"key"`
	Account string            `json:"account"`
	Source  string            `json:"source"`
	Methods []ethereum.Method `json:"methods"`

	// Populate supplies the method set when none was provided. Invoked at
	// most once; the result is treated as immutable for the rest of the
	// call.
	Populate func() []ethereum.Method `json:"-"`
}

// attachMethods is a no-op if method metadata is already present.
func (d *Descriptor) attachMethods() {
	if len(d.Methods) == 0 && d.Populate != nil {
		d.Methods = d.Populate()
	}
}

// method returns the first method of the given type.
func (d *Descriptor) method(t ethereum.MethodType) (ethereum.Method, bool) {
	for _, m := range d.Methods {
		if m.Type == t {
			return m, true
		}
	}
	return ethereum.Method{}, false
}
