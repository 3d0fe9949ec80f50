package codec

import (
	"encoding/json"
	"errors"

	"github.com/viant/jsonrpc"
	"github.com/viant/mcpgate/schema"
)

// CodeOf maps an error kind onto its protocol code.
func CodeOf(kind schema.Kind) int {
	switch kind {
	case schema.KindUnknown:
		return MethodNotFound
	case schema.KindInvalid:
		return InvalidParams
	case schema.KindServer:
		return ServerError
	}
	return InternalError
}

// FromError classifies a handler error by type; the message text is never inspected.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var rpcErr *Error
	if errors.As(err, &rpcErr) {
		return rpcErr
	}
	var tagged *schema.Error
	if errors.As(err, &tagged) {
		return &Error{Code: CodeOf(tagged.Kind), Message: tagged.Message, Data: tagged.Data}
	}
	var jErr *jsonrpc.Error
	if errors.As(err, &jErr) {
		ret := &Error{Code: jErr.Code, Message: jErr.Message}
		if len(jErr.Data) > 0 {
			ret.Data = json.RawMessage(jErr.Data)
		}
		return ret
	}
	return &Error{Code: InternalError, Message: err.Error()}
}
