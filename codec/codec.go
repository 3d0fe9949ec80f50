package codec

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/viant/jsonrpc"
)

// Version is the only accepted protocol version.
const Version = "2.0"

const (
	ParseError     = jsonrpc.ParseError
	InvalidRequest = jsonrpc.InvalidRequest
	MethodNotFound = jsonrpc.MethodNotFound
	InvalidParams  = jsonrpc.InvalidParams
	InternalError  = jsonrpc.InternalError
	ServerError    = -32000
)

type (
	// Request is an inbound envelope. Id is kept raw so that it is echoed back verbatim.
	Request struct {
		Jsonrpc string          `json:"jsonrpc"`
		Id      json.RawMessage `json:"id,omitempty"`
		Method  string          `json:"method"`
		Params  json.RawMessage `json:"params,omitempty"`
	}

	// Response carries exactly one of Result or Error.
	Response struct {
		Jsonrpc string          `json:"jsonrpc"`
		Id      json.RawMessage `json:"id"`
		Result  json.RawMessage `json:"result,omitempty"`
		Error   *Error          `json:"error,omitempty"`
	}

	Error struct {
		Code    int         `json:"code"`
		Message string      `json:"message"`
		Data    interface{} `json:"data,omitempty"`
	}
)

func (e *Error) Error() string {
	return e.Message
}

// Decode parses data into a request envelope; invalid JSON yields a ParseError.
func Decode(data []byte) (*Request, *Error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, &Error{Code: ParseError, Message: "Parse error: empty body"}
	}
	request := &Request{}
	if err := json.Unmarshal(data, request); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) || !json.Valid(data) {
			return nil, &Error{Code: ParseError, Message: "Parse error: " + err.Error()}
		}
		// well formed JSON with the wrong shape, e.g. a number for method
		return request, &Error{Code: InvalidRequest, Message: "Invalid Request: " + err.Error()}
	}
	return request, nil
}

// Validate checks envelope shape: version, method and id/params types.
func Validate(request *Request) *Error {
	if request == nil {
		return &Error{Code: InvalidRequest, Message: "Invalid Request: empty envelope"}
	}
	if request.Jsonrpc != Version {
		return &Error{Code: InvalidRequest, Message: "Invalid Request: jsonrpc must be \"2.0\""}
	}
	if request.Method == "" {
		return &Error{Code: InvalidRequest, Message: "Invalid Request: method is required"}
	}
	if !validID(request.Id) {
		return &Error{Code: InvalidRequest, Message: "Invalid Request: id must be a string, number or null"}
	}
	if !validParams(request.Params) {
		return &Error{Code: InvalidRequest, Message: "Invalid Request: params must be an object"}
	}
	return nil
}

// ResponseID returns the id to echo for request; an absent or malformed id yields null.
func ResponseID(request *Request) json.RawMessage {
	if request == nil || !validID(request.Id) || !json.Valid(request.Id) {
		return nil
	}
	return request.Id
}

func validID(id json.RawMessage) bool {
	if len(id) == 0 {
		return true
	}
	switch id[0] {
	case '"', 'n', '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return true
	}
	return false
}

func validParams(params json.RawMessage) bool {
	if len(params) == 0 {
		return true
	}
	return params[0] == '{' || bytes.Equal(params, []byte("null"))
}

// EncodeResult builds a success envelope.
func EncodeResult(id json.RawMessage, result interface{}) *Response {
	data, err := json.Marshal(result)
	if err != nil {
		return EncodeError(id, InternalError, "failed to encode result: "+err.Error(), nil)
	}
	return &Response{Jsonrpc: Version, Id: id, Result: data}
}

// EncodeError builds an error envelope.
func EncodeError(id json.RawMessage, code int, message string, data interface{}) *Response {
	return &Response{Jsonrpc: Version, Id: id, Error: &Error{Code: code, Message: message, Data: data}}
}

// NewErrorResponse wraps an already classified error.
func NewErrorResponse(id json.RawMessage, rpcErr *Error) *Response {
	return &Response{Jsonrpc: Version, Id: id, Error: rpcErr}
}

// Marshal serializes a response envelope.
func Marshal(response *Response) ([]byte, error) {
	return json.Marshal(response)
}
