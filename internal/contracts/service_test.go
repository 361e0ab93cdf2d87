package contracts

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/yope/ethereum-contract/pkg/ethereum"

	"github.com/pkg/errors"
)

func newTestService(node NodeClient) *Service {
	return NewService(node, Config{
		GasPrice:       big.NewInt(20000000000),
		PollInterval:   10 * time.Millisecond,
		ReceiptTimeout: 200 * time.Millisecond,
	})
}

func testDescriptor() *Descriptor {
	return &Descriptor{
		Key:     "Storage",
		Account: "0xfeed",
		Source:  "contract Storage { uint value; }",
		Methods: []ethereum.Method{
			{Type: ethereum.MethodModify, Name: "set", Args: []interface{}{"7"}},
			{Type: ethereum.MethodRun, Name: "get"},
		},
	}
}

func TestCheckGas(t *testing.T) {
	tests := []struct {
		name       string
		accountGas uint64
		gas        uint64
		wantErr    bool
	}{
		{"estimate above allowance", 99, 100, true},
		{"estimate equals allowance", 100, 100, false},
		{"estimate below allowance", 100, 99, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkGas("0xfeed", tt.accountGas, tt.gas)

			if tt.wantErr && errors.Cause(err) != ErrGasExceeded {
				t.Errorf("Got %v, want %v", err, ErrGasExceeded)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Got %v, want nil", err)
			}
		})
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	node := newNodeStub()
	node.receipt = &ethereum.Receipt{TxHash: "0xabc"}
	svc := newTestService(node)

	receipts, err := svc.Create(ctx, testDescriptor(), 100)
	if err != nil {
		t.Fatalf("Failed to create : %s", err)
	}

	future, ok := receipts[ethereum.ReceiptTypeCreate]
	if !ok {
		t.Fatalf("Missing CREATE future")
	}

	waitCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	receipt, err := future.Wait(waitCtx)
	if err != nil {
		t.Fatalf("Future did not resolve : %s", err)
	}

	if receipt.Type != ethereum.ReceiptTypeCreate {
		t.Errorf("Got %v, want %v", receipt.Type, ethereum.ReceiptTypeCreate)
	}
	if receipt.TxHash != "0xabc" {
		t.Errorf("Got %v, want %v", receipt.TxHash, "0xabc")
	}
	if receipt.ContractAddress != "" {
		t.Errorf("Got %v, want empty contract address", receipt.ContractAddress)
	}

	if node.lastSent.Data != "606060405260008055" {
		t.Errorf("Got %v, want stripped bytecode payload", node.lastSent.Data)
	}
	if uint64(node.lastSent.Gas) != 50 {
		t.Errorf("Got %v, want %v", uint64(node.lastSent.Gas), 50)
	}
	if node.lastSent.GasPrice == nil {
		t.Errorf("Want a gas price on the submitted request")
	}
}

func TestCreateExceededGas(t *testing.T) {
	ctx := context.Background()
	node := newNodeStub()
	node.estimate = 1000
	svc := newTestService(node)

	_, err := svc.Create(ctx, testDescriptor(), 999)

	if errors.Cause(err) != ErrGasExceeded {
		t.Errorf("Got %v, want %v", err, ErrGasExceeded)
	}

	_, _, send, _ := node.counts()
	if send != 0 {
		t.Errorf("Got %v submissions after a failed gas check, want 0", send)
	}
}

func TestCreateMissingContractKey(t *testing.T) {
	ctx := context.Background()
	node := newNodeStub()
	svc := newTestService(node)

	d := testDescriptor()
	d.Key = "Unknown"

	_, err := svc.Create(ctx, d, 100)

	if errors.Cause(err) != ErrNotCompiled {
		t.Errorf("Got %v, want %v", err, ErrNotCompiled)
	}
}

func TestModify(t *testing.T) {
	ctx := context.Background()
	node := newNodeStub()
	node.receipt = &ethereum.Receipt{TxHash: "0xabc"}
	svc := newTestService(node)

	future, err := svc.Modify(ctx, "0xcafe", testDescriptor(), 100)
	if err != nil {
		t.Fatalf("Failed to modify : %s", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	receipt, err := future.Wait(waitCtx)
	if err != nil {
		t.Fatalf("Future did not resolve : %s", err)
	}

	if receipt.Type != ethereum.ReceiptTypeModify {
		t.Errorf("Got %v, want %v", receipt.Type, ethereum.ReceiptTypeModify)
	}
	if receipt.ContractAddress != "0xcafe" {
		t.Errorf("Got %v, want %v", receipt.ContractAddress, "0xcafe")
	}

	if node.lastSent.To != "0xcafe" {
		t.Errorf("Got %v, want %v", node.lastSent.To, "0xcafe")
	}
}

func TestModifyMethodNotInABI(t *testing.T) {
	ctx := context.Background()
	node := newNodeStub()
	svc := newTestService(node)

	d := testDescriptor()
	d.Methods = []ethereum.Method{
		{Type: ethereum.MethodModify, Name: "missing"},
	}

	_, err := svc.Modify(ctx, "0xcafe", d, 100)

	if errors.Cause(err) != ErrNoSuchMethod {
		t.Errorf("Got %v, want %v", err, ErrNoSuchMethod)
	}

	_, estimate, send, _ := node.counts()
	if estimate != 0 || send != 0 {
		t.Errorf("Got %v estimates and %v submissions for a missing method, want none", estimate, send)
	}
}

func TestModifyMethodNotDeclared(t *testing.T) {
	ctx := context.Background()
	node := newNodeStub()
	svc := newTestService(node)

	d := testDescriptor()
	d.Methods = []ethereum.Method{
		{Type: ethereum.MethodRun, Name: "get"},
	}

	_, err := svc.Modify(ctx, "0xcafe", d, 100)

	if errors.Cause(err) != ErrNoSuchMethod {
		t.Errorf("Got %v, want %v", err, ErrNoSuchMethod)
	}
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	node := newNodeStub()
	node.callResult = "0x000000000000000000000000000000000000000000000000000000000000002a"
	svc := newTestService(node)

	value, err := svc.Run(ctx, "0xcafe", testDescriptor())
	if err != nil {
		t.Fatalf("Failed to run : %s", err)
	}

	if value.Value != "42" {
		t.Errorf("Got %v, want %v", value.Value, "42")
	}
	if value.Kind != ethereum.KindInteger {
		t.Errorf("Got %v, want %v", value.Kind, ethereum.KindInteger)
	}

	_, estimate, send, _ := node.counts()
	if estimate != 0 || send != 0 {
		t.Errorf("Got %v estimates and %v submissions on the run path, want none", estimate, send)
	}
}

func TestAttachMethodsIdempotent(t *testing.T) {
	ctx := context.Background()
	node := newNodeStub()
	node.callResult = "0x000000000000000000000000000000000000000000000000000000000000002a"
	svc := newTestService(node)

	populated := 0
	d := &Descriptor{
		Key:     "Storage",
		Account: "0xfeed",
		Source:  "contract Storage { uint value; }",
		Populate: func() []ethereum.Method {
			populated++
			return []ethereum.Method{{Type: ethereum.MethodRun, Name: "get"}}
		},
	}

	if _, err := svc.Run(ctx, "0xcafe", d); err != nil {
		t.Fatalf("Failed to run : %s", err)
	}
	if _, err := svc.Run(ctx, "0xcafe", d); err != nil {
		t.Fatalf("Failed to run : %s", err)
	}

	if populated != 1 {
		t.Errorf("Got %v method attachments, want 1", populated)
	}
}

func TestCompileCache(t *testing.T) {
	ctx := context.Background()
	node := newNodeStub()
	node.callResult = "0x000000000000000000000000000000000000000000000000000000000000002a"
	svc := newTestService(node)

	d := testDescriptor()
	if _, err := svc.Run(ctx, "0xcafe", d); err != nil {
		t.Fatalf("Failed to run : %s", err)
	}
	if _, err := svc.Run(ctx, "0xcafe", d); err != nil {
		t.Fatalf("Failed to run : %s", err)
	}

	compile, _, _, _ := node.counts()
	if compile != 1 {
		t.Errorf("Got %v compilations of identical source, want 1", compile)
	}
}
