package txbuilder

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/yope/ethereum-contract/pkg/ethereum"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

// coerceArgs converts loosely typed positional arguments, typically
// decoded from JSON, into the Go values the ABI encoder expects.
func coerceArgs(method abi.Method, args []interface{}) ([]interface{}, error) {
	if len(args) != len(method.Inputs) {
		return nil, errors.Errorf("takes %d arguments, got %d", len(method.Inputs), len(args))
	}

	out := make([]interface{}, len(args))
	for i, input := range method.Inputs {
		v, err := coerceArg(input.Type, args[i])
		if err != nil {
			return nil, errors.Wrapf(err, "argument %d (%s)", i, input.Type.String())
		}
		out[i] = v
	}

	return out, nil
}

func coerceArg(t abi.Type, arg interface{}) (interface{}, error) {
	switch t.T {
	case abi.UintTy, abi.IntTy:
		n, err := toBigInt(arg)
		if err != nil {
			return nil, err
		}
		return sizedInteger(t, n), nil

	case abi.AddressTy:
		s, ok := arg.(string)
		if !ok {
			return nil, errors.Errorf("address argument must be a string, got %T", arg)
		}
		return common.HexToAddress(s), nil

	case abi.BoolTy:
		switch v := arg.(type) {
		case bool:
			return v, nil
		case string:
			return strconv.ParseBool(v)
		}
		return nil, errors.Errorf("bool argument must be a bool or string, got %T", arg)

	case abi.StringTy:
		s, ok := arg.(string)
		if !ok {
			return nil, errors.Errorf("string argument must be a string, got %T", arg)
		}
		return s, nil

	case abi.BytesTy:
		switch v := arg.(type) {
		case []byte:
			return v, nil
		case string:
			return decodeHex(v)
		}
		return nil, errors.Errorf("bytes argument must be hex or bytes, got %T", arg)
	}

	return nil, errors.Errorf("unsupported argument type %s", t.String())
}

func toBigInt(arg interface{}) (*big.Int, error) {
	switch v := arg.(type) {
	case *big.Int:
		return v, nil
	case string:
		if strings.HasPrefix(v, "0x") {
			return hexutil.DecodeBig(v)
		}
		n, ok := new(big.Int).SetString(v, 10)
		if !ok {
			return nil, errors.Errorf("invalid integer %q", v)
		}
		return n, nil
	case json.Number:
		n, ok := new(big.Int).SetString(v.String(), 10)
		if !ok {
			return nil, errors.Errorf("invalid integer %q", v.String())
		}
		return n, nil
	case float64:
		return big.NewInt(int64(v)), nil
	case int:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	}
	return nil, errors.Errorf("integer argument must be a number or string, got %T", arg)
}

// sizedInteger narrows a big integer to the native type matching the ABI
// size. Sizes without a native Go counterpart stay big integers.
func sizedInteger(t abi.Type, n *big.Int) interface{} {
	if t.T == abi.IntTy {
		switch t.Size {
		case 8:
			return int8(n.Int64())
		case 16:
			return int16(n.Int64())
		case 32:
			return int32(n.Int64())
		case 64:
			return n.Int64()
		}
		return n
	}

	switch t.Size {
	case 8:
		return uint8(n.Uint64())
	case 16:
		return uint16(n.Uint64())
	case 32:
		return uint32(n.Uint64())
	case 64:
		return n.Uint64()
	}
	return n
}

// newValue tags a decoded output with its scalar kind.
func newValue(t abi.Type, v interface{}) *ethereum.Value {
	switch t.T {
	case abi.UintTy, abi.IntTy:
		return &ethereum.Value{Kind: ethereum.KindInteger, Value: fmt.Sprintf("%v", v)}
	case abi.BoolTy:
		return &ethereum.Value{Kind: ethereum.KindBool, Value: fmt.Sprintf("%v", v)}
	case abi.AddressTy:
		if addr, ok := v.(common.Address); ok {
			return &ethereum.Value{Kind: ethereum.KindAddress, Value: addr.Hex()}
		}
	case abi.BytesTy, abi.FixedBytesTy:
		if b, ok := v.([]byte); ok {
			return &ethereum.Value{Kind: ethereum.KindBytes, Value: hex.EncodeToString(b)}
		}
	}
	return &ethereum.Value{Kind: ethereum.KindString, Value: fmt.Sprintf("%v", v)}
}
