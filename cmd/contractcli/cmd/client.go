package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/yope/ethereum-contract/pkg/ethereum"
)

var (
	ErrNotFound = errors.New("Not Found")
)

// contractRequest mirrors the service's contract operation body.
type contractRequest struct {
	Key        string            `json:"key"`
	Account    string            `json:"account"`
	Source     string            `json:"source"`
	Methods    []ethereum.Method `json:"methods"`
	AccountGas uint64            `json:"accountGas"`
}

// envelope mirrors the service's response wrapper.
type envelope struct {
	Response json.RawMessage `json:"response"`
	Code     int             `json:"code"`
	Message  string          `json:"message"`
}

func newHTTPClient() *http.Client {
	transport := &http.Transport{
		Dial: (&net.Dialer{
			Timeout: 5 * time.Second,
		}).Dial,
		TLSHandshakeTimeout: 5 * time.Second,
	}

	return &http.Client{
		Timeout:   time.Second * 10,
		Transport: transport,
	}
}

// send performs an HTTP request against the service and returns the
// decoded envelope.
func send(method, url string, request interface{}) (*envelope, error) {
	var body bytes.Buffer
	if request != nil {
		if err := json.NewEncoder(&body).Encode(request); err != nil {
			return nil, errors.Wrap(err, "marshal request")
		}
	}

	httpRequest, err := http.NewRequest(method, url, &body)
	if err != nil {
		return nil, err
	}
	httpRequest.Header.Set("Content-Type", "application/json")

	httpResponse, err := newHTTPClient().Do(httpRequest)
	if err != nil {
		return nil, err
	}
	defer httpResponse.Body.Close()

	env := &envelope{}
	if err := json.NewDecoder(httpResponse.Body).Decode(env); err != nil {
		return nil, errors.Wrap(err, "decode response")
	}

	if httpResponse.StatusCode < 200 || httpResponse.StatusCode > 299 {
		if httpResponse.StatusCode == 404 {
			return nil, errors.Wrapf(ErrNotFound, "%s", env.Message)
		}
		return nil, fmt.Errorf("%v %s", httpResponse.StatusCode, env.Message)
	}

	return env, nil
}

// printResponse pretty prints the payload of an envelope.
func printResponse(env *envelope) error {
	var out bytes.Buffer
	if err := json.Indent(&out, env.Response, "", "    "); err != nil {
		return err
	}

	fmt.Printf("%s\n", out.String())
	return nil
}
