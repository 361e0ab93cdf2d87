package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/yope/ethereum-contract/internal/contracts"
	"github.com/yope/ethereum-contract/internal/platform/db"
	"github.com/yope/ethereum-contract/internal/platform/web"
	"github.com/yope/ethereum-contract/internal/sweeper"
	"github.com/yope/ethereum-contract/pkg/ethereum"
)

const testABI = `[
	{"constant":false,"inputs":[{"name":"value","type":"uint256"}],"name":"set","outputs":[],"payable":false,"type":"function"},
	{"constant":true,"inputs":[],"name":"get","outputs":[{"name":"","type":"uint256"}],"payable":false,"type":"function"}
]`

// nodeStub scripts the node responses for the API tests.
type nodeStub struct {
	estimate   uint64
	receipt    *ethereum.Receipt
	callResult string
}

func (n *nodeStub) CompileSolidity(ctx context.Context, source string) (map[string]*ethereum.CompiledContract, error) {
	return map[string]*ethereum.CompiledContract{
		"Storage": {
			Code: "0x606060405260008055",
			Info: ethereum.ContractInfo{
				AbiDefinition: json.RawMessage(testABI),
			},
		},
	}, nil
}

func (n *nodeStub) EstimateGas(ctx context.Context, tx *ethereum.TxRequest) (uint64, error) {
	return n.estimate, nil
}

func (n *nodeStub) SendTransaction(ctx context.Context, tx *ethereum.TxRequest) (string, error) {
	return "0xabc", nil
}

func (n *nodeStub) TransactionReceipt(ctx context.Context, txHash string) (*ethereum.Receipt, error) {
	return n.receipt, nil
}

func (n *nodeStub) Call(ctx context.Context, tx *ethereum.TxRequest) (string, error) {
	return n.callResult, nil
}

func newTestAPI(t *testing.T, node *nodeStub) http.Handler {
	t.Helper()

	masterDB, err := db.New(&db.StorageConfig{
		Bucket: "standalone",
		Root:   t.TempDir(),
	})
	if err != nil {
		t.Fatal(err)
	}

	return newTestAPIWithDB(node, masterDB)
}

func newTestAPIWithDB(node *nodeStub, masterDB *db.DB) http.Handler {
	svc := contracts.NewService(node, contracts.Config{
		GasPrice:       big.NewInt(20000000000),
		PollInterval:   5 * time.Millisecond,
		ReceiptTimeout: 100 * time.Millisecond,
	})

	return API(svc, node, masterDB, sweeper.New(node, masterDB))
}

func testRequestBody(accountGas uint64) string {
	body, _ := json.Marshal(ContractRequest{
		Key:     "Storage",
		Account: "0xfeed000000000000000000000000000000000000",
		Source:  "contract Storage {}",
		Methods: []ethereum.Method{
			{Type: ethereum.MethodModify, Name: "set", Args: []interface{}{"7"}},
			{Type: ethereum.MethodRun, Name: "get"},
		},
		AccountGas: accountGas,
	})
	return string(body)
}

func doRequest(t *testing.T, api http.Handler, method, path, body string) (*httptest.ResponseRecorder, web.Envelope) {
	t.Helper()

	r := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	api.ServeHTTP(w, r)

	var env web.Envelope
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("Decoding response envelope : %s", err)
	}

	return w, env
}

func decodeStatus(t *testing.T, env web.Envelope) receiptStatus {
	t.Helper()

	b, err := json.Marshal(env.Response)
	if err != nil {
		t.Fatal(err)
	}

	var rs receiptStatus
	if err := json.Unmarshal(b, &rs); err != nil {
		t.Fatal(err)
	}

	return rs
}

func TestCreateConfirmed(t *testing.T) {
	node := &nodeStub{
		estimate: 50,
		receipt: &ethereum.Receipt{
			TxHash:          "0xabc",
			ContractAddress: "0xcafe",
		},
	}
	api := newTestAPI(t, node)

	w, env := doRequest(t, api, "POST", "/contracts", testRequestBody(50))
	if w.Code != http.StatusOK {
		t.Fatalf("Got %v, want %v", w.Code, http.StatusOK)
	}

	rs := decodeStatus(t, env)
	if rs.Status != statusConfirmed {
		t.Fatalf("Got %v, want %v", rs.Status, statusConfirmed)
	}
	if rs.TxHash != "0xabc" {
		t.Fatalf("Got %v, want %v", rs.TxHash, "0xabc")
	}
	if rs.Receipt == nil || rs.Receipt.ContractAddress != "0xcafe" {
		t.Fatalf("Got %+v, want receipt with contract address", rs.Receipt)
	}

	// The deployment should now be listed.
	w, env = doRequest(t, api, "GET", "/contracts", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Got %v, want %v", w.Code, http.StatusOK)
	}

	records, ok := env.Response.([]interface{})
	if !ok || len(records) != 1 {
		t.Fatalf("Got %v, want one registry record", env.Response)
	}
}

func TestCreateConfirmedRegistryDown(t *testing.T) {
	node := &nodeStub{
		estimate: 50,
		receipt: &ethereum.Receipt{
			TxHash:          "0xabc",
			ContractAddress: "0xcafe",
		},
	}

	// A DB without storage rejects every write.
	masterDB, err := db.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	api := newTestAPIWithDB(node, masterDB)

	w, env := doRequest(t, api, "POST", "/contracts", testRequestBody(50))
	if w.Code != http.StatusOK {
		t.Fatalf("Got %v, want %v", w.Code, http.StatusOK)
	}

	// The deployment confirmed on chain, so the receipt must come back
	// even though it could not be recorded.
	rs := decodeStatus(t, env)
	if rs.Status != statusConfirmed {
		t.Fatalf("Got %v, want %v", rs.Status, statusConfirmed)
	}
	if rs.Receipt == nil || rs.Receipt.ContractAddress != "0xcafe" {
		t.Fatalf("Got %+v, want receipt with contract address", rs.Receipt)
	}
}

func TestCreatePending(t *testing.T) {
	node := &nodeStub{estimate: 50} // no receipt, stays unmined
	api := newTestAPI(t, node)

	w, env := doRequest(t, api, "POST", "/contracts", testRequestBody(50))
	if w.Code != http.StatusOK {
		t.Fatalf("Got %v, want %v", w.Code, http.StatusOK)
	}

	rs := decodeStatus(t, env)
	if rs.Status != statusPending {
		t.Fatalf("Got %v, want %v", rs.Status, statusPending)
	}
	if rs.Receipt != nil {
		t.Fatalf("Got %+v, want no receipt", rs.Receipt)
	}
}

func TestCreateGasExceeded(t *testing.T) {
	node := &nodeStub{estimate: 100}
	api := newTestAPI(t, node)

	w, env := doRequest(t, api, "POST", "/contracts", testRequestBody(99))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Got %v, want %v", w.Code, http.StatusBadRequest)
	}
	if !strings.Contains(env.Message, "Gas exceeded") {
		t.Fatalf("Got %q, want gas exceeded message", env.Message)
	}
}

func TestCreateBadBody(t *testing.T) {
	api := newTestAPI(t, &nodeStub{})

	w, _ := doRequest(t, api, "POST", "/contracts", "{not json")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Got %v, want %v", w.Code, http.StatusBadRequest)
	}
}

func TestModifyConfirmed(t *testing.T) {
	node := &nodeStub{
		estimate: 50,
		receipt:  &ethereum.Receipt{TxHash: "0xabc"},
	}
	api := newTestAPI(t, node)

	w, env := doRequest(t, api, "PUT", "/contracts/0xcafe", testRequestBody(50))
	if w.Code != http.StatusOK {
		t.Fatalf("Got %v, want %v", w.Code, http.StatusOK)
	}

	rs := decodeStatus(t, env)
	if rs.Status != statusConfirmed {
		t.Fatalf("Got %v, want %v", rs.Status, statusConfirmed)
	}
}

func TestModifyMethodNotFound(t *testing.T) {
	node := &nodeStub{estimate: 50}
	api := newTestAPI(t, node)

	body, _ := json.Marshal(ContractRequest{
		Key:     "Storage",
		Account: "0xfeed000000000000000000000000000000000000",
		Source:  "contract Storage {}",
		Methods: []ethereum.Method{
			{Type: ethereum.MethodModify, Name: "missing"},
		},
		AccountGas: 50,
	})

	w, _ := doRequest(t, api, "PUT", "/contracts/0xcafe", string(body))
	if w.Code != http.StatusNotFound {
		t.Fatalf("Got %v, want %v", w.Code, http.StatusNotFound)
	}
}

func TestRun(t *testing.T) {
	node := &nodeStub{
		callResult: "0x000000000000000000000000000000000000000000000000000000000000002a",
	}
	api := newTestAPI(t, node)

	w, env := doRequest(t, api, "POST", "/contracts/0xcafe", testRequestBody(0))
	if w.Code != http.StatusOK {
		t.Fatalf("Got %v, want %v", w.Code, http.StatusOK)
	}

	b, _ := json.Marshal(env.Response)
	var value ethereum.Value
	if err := json.Unmarshal(b, &value); err != nil {
		t.Fatal(err)
	}

	if value.Value != "42" {
		t.Fatalf("Got %v, want %v", value.Value, "42")
	}
	if value.Kind != ethereum.KindInteger {
		t.Fatalf("Got %v, want %v", value.Kind, ethereum.KindInteger)
	}
}

func TestDelete(t *testing.T) {
	node := &nodeStub{
		estimate: 50,
		receipt: &ethereum.Receipt{
			TxHash:          "0xabc",
			ContractAddress: "0xcafe",
		},
	}
	api := newTestAPI(t, node)

	// Deploy so there is a record to remove.
	w, _ := doRequest(t, api, "POST", "/contracts", testRequestBody(50))
	if w.Code != http.StatusOK {
		t.Fatalf("Got %v, want %v", w.Code, http.StatusOK)
	}

	w, _ = doRequest(t, api, "DELETE", "/contracts/0xcafe", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Got %v, want %v", w.Code, http.StatusOK)
	}

	w, env := doRequest(t, api, "GET", "/contracts", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Got %v, want %v", w.Code, http.StatusOK)
	}
	records, ok := env.Response.([]interface{})
	if !ok || len(records) != 0 {
		t.Fatalf("Got %v, want empty registry", env.Response)
	}
}

func TestDeleteNotFound(t *testing.T) {
	api := newTestAPI(t, &nodeStub{})

	w, _ := doRequest(t, api, "DELETE", "/contracts/0xmissing", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("Got %v, want %v", w.Code, http.StatusNotFound)
	}
}

func TestReceiptPending(t *testing.T) {
	api := newTestAPI(t, &nodeStub{})

	w, env := doRequest(t, api, "GET", "/receipts/0xabc", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Got %v, want %v", w.Code, http.StatusOK)
	}

	rs := decodeStatus(t, env)
	if rs.Status != statusPending {
		t.Fatalf("Got %v, want %v", rs.Status, statusPending)
	}
}

func TestReceiptConfirmed(t *testing.T) {
	node := &nodeStub{
		receipt: &ethereum.Receipt{TxHash: "0xabc", ContractAddress: "0xcafe"},
	}
	api := newTestAPI(t, node)

	w, env := doRequest(t, api, "GET", "/receipts/0xabc", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Got %v, want %v", w.Code, http.StatusOK)
	}

	rs := decodeStatus(t, env)
	if rs.Status != statusConfirmed {
		t.Fatalf("Got %v, want %v", rs.Status, statusConfirmed)
	}
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t, &nodeStub{})

	w, _ := doRequest(t, api, "GET", "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Got %v, want %v", w.Code, http.StatusOK)
	}
}
