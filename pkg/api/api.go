// Package api defines the freeslots.v1 RPC messages.
//
// Messages are plain Go structs carried by Codec over Connect, so any HTTP
// client can call the API with a JSON body:
//
//	curl -H 'Content-Type: application/json' \
//	     -d '{"groupId":"..."}' \
//	     http://localhost:8080/freeslots.v1.AvailabilityService/ResolveGroup
//
// Instants are RFC 3339 strings; calendar dates are "yyyy-mm-dd".
package api

import (
	"encoding/json"
)

// Codec marshals messages as JSON. It is registered under the name "json" so
// Connect negotiates it for application/json requests.
type Codec struct{}

// Name implements connect.Codec.
func (Codec) Name() string {
	return "json"
}

// Marshal implements connect.Codec.
func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

// Unmarshal implements connect.Codec. An empty body decodes to the zero message.
func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}
