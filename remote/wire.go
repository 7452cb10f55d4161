// Package remote serves a registry's exposed surface over HTTP and
// rebuilds local registries from a remote server's introspection.
package remote

import (
	"encoding/json"
	"fmt"
)

// ProtocolVersion is the wire protocol version spoken by this package.
// Requests carrying any other version are rejected.
const ProtocolVersion = 1

// introspectQuery is the wire key of the registry introspection call.
const introspectQuery = "introspect=>"

// Request is the envelope every remote call travels in.
type Request struct {
	Query   json.RawMessage `json:"query"`
	Version int             `json:"version" example:"1"`
}

// NewRequest wraps a query in an envelope carrying the current
// protocol version.
func NewRequest(query any) (Request, error) {
	raw, err := json.Marshal(query)
	if err != nil {
		return Request{}, fmt.Errorf("marshal query: %w", err)
	}
	return Request{Query: raw, Version: ProtocolVersion}, nil
}

// IntrospectQuery returns the wire query asking a server to describe
// its registry.
func IntrospectQuery() any {
	return map[string]any{introspectQuery: map[string]any{"()": []any{}}}
}

// Result is the success envelope.
type Result struct {
	Result any `json:"result"`
}

// ErrorResponse is the error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human message.
type ErrorDetail struct {
	Code    string `json:"code" example:"bad_request"`
	Message string `json:"message" example:"unknown query"`
}

// UnknownQueryError reports a request whose query matches no operation
// this server understands.
type UnknownQueryError struct {
	Query string
}

func (e *UnknownQueryError) Error() string {
	return fmt.Sprintf("unknown query: %s", e.Query)
}
