package service

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// jsonCodec serializes plain Go structs. The built-in "json" codec only
// accepts protobuf messages, so this one replaces it under the same name.
type jsonCodec struct{}

var _ connect.Codec = jsonCodec{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// WithJSON returns the option that makes a client speak the service's JSON
// encoding. Handlers built by this package register it already.
func WithJSON() connect.ClientOption {
	return connect.WithCodec(jsonCodec{})
}
