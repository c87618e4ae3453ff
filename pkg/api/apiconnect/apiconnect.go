// Package apiconnect binds the freeslots.v1 services to Connect handlers and
// clients. Every handler and client speaks api.Codec.
package apiconnect

import (
	"fmt"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/freeslots/pkg/api"
)

const packageName = "freeslots.v1"

func servicePath(service string) string {
	return "/" + packageName + "." + service + "/"
}

func procedure(service, method string) string {
	return servicePath(service) + method
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
}

func trimBaseURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/")
}

func unimplemented(service, method string) error {
	return connect.NewError(connect.CodeUnimplemented,
		fmt.Errorf("%s.%s.%s is not implemented", packageName, service, method))
}
