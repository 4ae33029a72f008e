// Package api defines the PayLedger RPC surface: message types, procedure
// names, Connect handlers and clients.
//
// Messages are plain Go structs exchanged as JSON over the Connect protocol.
// Handlers and clients built here install Codec, so a request is
// a POST of application/json to /<service>/<method>.
package api

import (
	"encoding/json"
	"fmt"
)

// Codec serializes messages with encoding/json. It is registered under the
// name "json", replacing Connect's protobuf-only JSON codec.
type Codec struct{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", msg, err)
	}
	return data, nil
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("unmarshal %T: %w", msg, err)
	}
	return nil
}
