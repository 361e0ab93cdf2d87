package ethereum

// MethodType is the role a method plays in a contract request.
type MethodType string

const (
	// MethodCreate marks metadata used in the creation context.
	MethodCreate MethodType = "CREATE"

	// MethodModify marks a state-changing method.
	MethodModify MethodType = "MODIFY"

	// MethodRun marks a read-only method.
	MethodRun MethodType = "RUN"
)

// Method names a contract method with its positional arguments. Whether
// the method exists on the compiled contract is only known at call time.
type Method struct {
	Type MethodType    `json:"type"`
	Name string        `json:"name"`
	Args []interface{} `json:"args,omitempty"`
}
