package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/freeslots/pkg/api"
)

// AvailabilityServiceName is the fully-qualified name of the AvailabilityService service.
const AvailabilityServiceName = packageName + ".AvailabilityService"

// AvailabilityService procedures.
var (
	AvailabilityServiceSubmitAvailabilityProcedure = procedure("AvailabilityService", "SubmitAvailability")
	AvailabilityServiceListAvailabilityProcedure   = procedure("AvailabilityService", "ListAvailability")
	AvailabilityServiceRemoveAvailabilityProcedure = procedure("AvailabilityService", "RemoveAvailability")
	AvailabilityServiceResolveGroupProcedure       = procedure("AvailabilityService", "ResolveGroup")
	AvailabilityServiceResolveGroupsProcedure      = procedure("AvailabilityService", "ResolveGroups")
)

// AvailabilityServiceHandler is implemented by the server side of AvailabilityService.
type AvailabilityServiceHandler interface {
	SubmitAvailability(context.Context, *connect.Request[api.SubmitAvailabilityRequest]) (*connect.Response[api.SubmitAvailabilityResponse], error)
	ListAvailability(context.Context, *connect.Request[api.ListAvailabilityRequest]) (*connect.Response[api.ListAvailabilityResponse], error)
	RemoveAvailability(context.Context, *connect.Request[api.RemoveAvailabilityRequest]) (*connect.Response[api.RemoveAvailabilityResponse], error)
	ResolveGroup(context.Context, *connect.Request[api.ResolveGroupRequest]) (*connect.Response[api.ResolveGroupResponse], error)
	ResolveGroups(context.Context, *connect.Request[api.ResolveGroupsRequest]) (*connect.Response[api.ResolveGroupsResponse], error)
}

// AvailabilityServiceClient is a client for AvailabilityService.
type AvailabilityServiceClient interface {
	SubmitAvailability(context.Context, *connect.Request[api.SubmitAvailabilityRequest]) (*connect.Response[api.SubmitAvailabilityResponse], error)
	ListAvailability(context.Context, *connect.Request[api.ListAvailabilityRequest]) (*connect.Response[api.ListAvailabilityResponse], error)
	RemoveAvailability(context.Context, *connect.Request[api.RemoveAvailabilityRequest]) (*connect.Response[api.RemoveAvailabilityResponse], error)
	ResolveGroup(context.Context, *connect.Request[api.ResolveGroupRequest]) (*connect.Response[api.ResolveGroupResponse], error)
	ResolveGroups(context.Context, *connect.Request[api.ResolveGroupsRequest]) (*connect.Response[api.ResolveGroupsResponse], error)
}

// NewAvailabilityServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewAvailabilityServiceHandler(svc AvailabilityServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	submitAvailability := connect.NewUnaryHandler(AvailabilityServiceSubmitAvailabilityProcedure, svc.SubmitAvailability, opts...)
	listAvailability := connect.NewUnaryHandler(AvailabilityServiceListAvailabilityProcedure, svc.ListAvailability, opts...)
	removeAvailability := connect.NewUnaryHandler(AvailabilityServiceRemoveAvailabilityProcedure, svc.RemoveAvailability, opts...)
	resolveGroup := connect.NewUnaryHandler(AvailabilityServiceResolveGroupProcedure, svc.ResolveGroup, opts...)
	resolveGroups := connect.NewUnaryHandler(AvailabilityServiceResolveGroupsProcedure, svc.ResolveGroups, opts...)

	return servicePath("AvailabilityService"), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case AvailabilityServiceSubmitAvailabilityProcedure:
			submitAvailability.ServeHTTP(w, r)
		case AvailabilityServiceListAvailabilityProcedure:
			listAvailability.ServeHTTP(w, r)
		case AvailabilityServiceRemoveAvailabilityProcedure:
			removeAvailability.ServeHTTP(w, r)
		case AvailabilityServiceResolveGroupProcedure:
			resolveGroup.ServeHTTP(w, r)
		case AvailabilityServiceResolveGroupsProcedure:
			resolveGroups.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// NewAvailabilityServiceClient constructs a client for AvailabilityService at baseURL.
func NewAvailabilityServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AvailabilityServiceClient {
	baseURL = trimBaseURL(baseURL)
	opts = clientOptions(opts)
	return &availabilityServiceClient{
		submitAvailability: connect.NewClient[api.SubmitAvailabilityRequest, api.SubmitAvailabilityResponse](httpClient, baseURL+AvailabilityServiceSubmitAvailabilityProcedure, opts...),
		listAvailability:   connect.NewClient[api.ListAvailabilityRequest, api.ListAvailabilityResponse](httpClient, baseURL+AvailabilityServiceListAvailabilityProcedure, opts...),
		removeAvailability: connect.NewClient[api.RemoveAvailabilityRequest, api.RemoveAvailabilityResponse](httpClient, baseURL+AvailabilityServiceRemoveAvailabilityProcedure, opts...),
		resolveGroup:       connect.NewClient[api.ResolveGroupRequest, api.ResolveGroupResponse](httpClient, baseURL+AvailabilityServiceResolveGroupProcedure, opts...),
		resolveGroups:      connect.NewClient[api.ResolveGroupsRequest, api.ResolveGroupsResponse](httpClient, baseURL+AvailabilityServiceResolveGroupsProcedure, opts...),
	}
}

type availabilityServiceClient struct {
	submitAvailability *connect.Client[api.SubmitAvailabilityRequest, api.SubmitAvailabilityResponse]
	listAvailability   *connect.Client[api.ListAvailabilityRequest, api.ListAvailabilityResponse]
	removeAvailability *connect.Client[api.RemoveAvailabilityRequest, api.RemoveAvailabilityResponse]
	resolveGroup       *connect.Client[api.ResolveGroupRequest, api.ResolveGroupResponse]
	resolveGroups      *connect.Client[api.ResolveGroupsRequest, api.ResolveGroupsResponse]
}

func (c *availabilityServiceClient) SubmitAvailability(ctx context.Context, req *connect.Request[api.SubmitAvailabilityRequest]) (*connect.Response[api.SubmitAvailabilityResponse], error) {
	return c.submitAvailability.CallUnary(ctx, req)
}

func (c *availabilityServiceClient) ListAvailability(ctx context.Context, req *connect.Request[api.ListAvailabilityRequest]) (*connect.Response[api.ListAvailabilityResponse], error) {
	return c.listAvailability.CallUnary(ctx, req)
}

func (c *availabilityServiceClient) RemoveAvailability(ctx context.Context, req *connect.Request[api.RemoveAvailabilityRequest]) (*connect.Response[api.RemoveAvailabilityResponse], error) {
	return c.removeAvailability.CallUnary(ctx, req)
}

func (c *availabilityServiceClient) ResolveGroup(ctx context.Context, req *connect.Request[api.ResolveGroupRequest]) (*connect.Response[api.ResolveGroupResponse], error) {
	return c.resolveGroup.CallUnary(ctx, req)
}

func (c *availabilityServiceClient) ResolveGroups(ctx context.Context, req *connect.Request[api.ResolveGroupsRequest]) (*connect.Response[api.ResolveGroupsResponse], error) {
	return c.resolveGroups.CallUnary(ctx, req)
}

// UnimplementedAvailabilityServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedAvailabilityServiceHandler struct{}

func (UnimplementedAvailabilityServiceHandler) SubmitAvailability(context.Context, *connect.Request[api.SubmitAvailabilityRequest]) (*connect.Response[api.SubmitAvailabilityResponse], error) {
	return nil, unimplemented("AvailabilityService", "SubmitAvailability")
}

func (UnimplementedAvailabilityServiceHandler) ListAvailability(context.Context, *connect.Request[api.ListAvailabilityRequest]) (*connect.Response[api.ListAvailabilityResponse], error) {
	return nil, unimplemented("AvailabilityService", "ListAvailability")
}

func (UnimplementedAvailabilityServiceHandler) RemoveAvailability(context.Context, *connect.Request[api.RemoveAvailabilityRequest]) (*connect.Response[api.RemoveAvailabilityResponse], error) {
	return nil, unimplemented("AvailabilityService", "RemoveAvailability")
}

func (UnimplementedAvailabilityServiceHandler) ResolveGroup(context.Context, *connect.Request[api.ResolveGroupRequest]) (*connect.Response[api.ResolveGroupResponse], error) {
	return nil, unimplemented("AvailabilityService", "ResolveGroup")
}

func (UnimplementedAvailabilityServiceHandler) ResolveGroups(context.Context, *connect.Request[api.ResolveGroupsRequest]) (*connect.Response[api.ResolveGroupsResponse], error) {
	return nil, unimplemented("AvailabilityService", "ResolveGroups")
}
