// Package rpc exposes the two selector operations as a small gRPC
// service, so a scheduler process distinct from this core (§1's "external
// scheduler calling into this core") can invoke autoSelectBestProxy and
// getBestAvailableProxy without linking the Go package directly.
//
// Messages are plain structs marshaled with encoding/json rather than
// protoc-generated protobuf types: registering a custom grpc codec is a
// documented extension point of google.golang.org/grpc, and the
// request/response shapes here are simple enough that hand-writing
// protobuf wire types would add risk without adding anything the JSON
// codec doesn't already give the wire format.
package rpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// CodecName is the content-subtype this package registers and expects
// both client and server to select via grpc.CallContentSubtype.
const CodecName = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string { return CodecName }
