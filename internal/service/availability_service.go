package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/freeslots/internal/calculator"
	"github.com/mmynk/freeslots/internal/middleware"
	"github.com/mmynk/freeslots/internal/models"
	"github.com/mmynk/freeslots/internal/resolver"
	"github.com/mmynk/freeslots/internal/storage"
	"github.com/mmynk/freeslots/pkg/api"
	"github.com/mmynk/freeslots/pkg/api/apiconnect"
)

var (
	errEmptyWindow = errors.New("start must be before end")
	errNotOwner    = errors.New("availability belongs to another user")
)

// AvailabilityService implements the Connect AvailabilityService: members
// submit free windows and read back the times every member shares.
type AvailabilityService struct {
	apiconnect.UnimplementedAvailabilityServiceHandler
	store    storage.Store
	resolver *resolver.Resolver
}

// NewAvailabilityService creates an AvailabilityService backed by store.
func NewAvailabilityService(store storage.Store, res *resolver.Resolver) *AvailabilityService {
	return &AvailabilityService{store: store, resolver: res}
}

// SubmitAvailability records a free window for the caller in a group they belong to.
func (s *AvailabilityService) SubmitAvailability(ctx context.Context, req *connect.Request[api.SubmitAvailabilityRequest]) (*connect.Response[api.SubmitAvailabilityResponse], error) {
	userID := middleware.GetUserID(ctx)
	groupID := req.Msg.GroupID
	slog.Info("SubmitAvailability request received",
		"group_id", groupID,
		"user_id", userID,
		"start", req.Msg.Start,
		"end", req.Msg.End,
	)

	if groupID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errGroupIDRequired)
	}
	start, err := parseInstant("start", req.Msg.Start)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	end, err := parseInstant("end", req.Msg.End)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if !start.Before(end) {
		return nil, connect.NewError(connect.CodeInvalidArgument, errEmptyWindow)
	}

	if err := s.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}

	entry := &models.Availability{
		UserID:  userID,
		GroupID: groupID,
		Start:   start,
		End:     end,
	}
	if err := s.store.CreateAvailability(ctx, entry); err != nil {
		slog.Error("SubmitAvailability failed", "group_id", groupID, "error", err)
		return nil, storeError(err)
	}

	slog.Info("Availability submitted", "availability_id", entry.ID, "group_id", groupID)

	return connect.NewResponse(&api.SubmitAvailabilityResponse{
		Availability: toAPIAvailability(entry),
	}), nil
}

// ListAvailability returns the caller's own windows for a group, earliest first.
func (s *AvailabilityService) ListAvailability(ctx context.Context, req *connect.Request[api.ListAvailabilityRequest]) (*connect.Response[api.ListAvailabilityResponse], error) {
	userID := middleware.GetUserID(ctx)
	groupID := req.Msg.GroupID
	slog.Info("ListAvailability request received", "group_id", groupID, "user_id", userID)

	if groupID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errGroupIDRequired)
	}

	entries, err := s.store.ListUserAvailability(ctx, groupID, userID)
	if err != nil {
		slog.Error("ListAvailability failed", "group_id", groupID, "error", err)
		return nil, storeError(err)
	}

	out := make([]*api.Availability, len(entries))
	for i := range entries {
		out[i] = toAPIAvailability(&entries[i])
	}

	slog.Info("ListAvailability successful", "group_id", groupID, "count", len(entries))

	return connect.NewResponse(&api.ListAvailabilityResponse{Availability: out}), nil
}

// RemoveAvailability deletes one of the caller's windows.
func (s *AvailabilityService) RemoveAvailability(ctx context.Context, req *connect.Request[api.RemoveAvailabilityRequest]) (*connect.Response[api.RemoveAvailabilityResponse], error) {
	userID := middleware.GetUserID(ctx)
	id := req.Msg.AvailabilityID
	slog.Info("RemoveAvailability request received", "availability_id", id, "user_id", userID)

	if id == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("availability_id is required"))
	}

	entry, err := s.store.GetAvailability(ctx, id)
	if err != nil {
		slog.Error("RemoveAvailability failed - not found", "availability_id", id, "error", err)
		return nil, storeError(err)
	}
	if entry.UserID != userID {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotOwner)
	}

	if err := s.store.DeleteAvailability(ctx, id); err != nil {
		slog.Error("RemoveAvailability failed", "availability_id", id, "error", err)
		return nil, storeError(err)
	}

	slog.Info("Availability removed", "availability_id", id, "group_id", entry.GroupID)

	return connect.NewResponse(&api.RemoveAvailabilityResponse{}), nil
}

// ResolveGroup returns, per date, the windows in which every member of the
// group is free. A group without members is reported as NotFound.
func (s *AvailabilityService) ResolveGroup(ctx context.Context, req *connect.Request[api.ResolveGroupRequest]) (*connect.Response[api.ResolveGroupResponse], error) {
	groupID := req.Msg.GroupID
	slog.Info("ResolveGroup request received", "group_id", groupID)

	days, err := s.resolver.Resolve(ctx, groupID)
	if err != nil {
		slog.Error("ResolveGroup failed", "group_id", groupID, "error", err)
		return nil, resolveError(err)
	}

	slog.Info("ResolveGroup successful", "group_id", groupID, "days", len(days))

	return connect.NewResponse(&api.ResolveGroupResponse{Days: toAPIDays(days)}), nil
}

// ResolveGroups resolves several groups at once. Groups that cannot be
// resolved are left out of the response.
func (s *AvailabilityService) ResolveGroups(ctx context.Context, req *connect.Request[api.ResolveGroupsRequest]) (*connect.Response[api.ResolveGroupsResponse], error) {
	slog.Info("ResolveGroups request received", "groups_count", len(req.Msg.GroupIDs))

	resolved, err := s.resolver.ResolveMany(ctx, req.Msg.GroupIDs)
	if err != nil {
		slog.Error("ResolveGroups failed", "error", err)
		return nil, resolveError(err)
	}

	groups := make(map[string]api.Days, len(resolved))
	for groupID, days := range resolved {
		groups[groupID] = toAPIDays(days)
	}

	slog.Info("ResolveGroups successful",
		"requested", len(req.Msg.GroupIDs),
		"resolved", len(groups),
	)

	return connect.NewResponse(&api.ResolveGroupsResponse{Groups: groups}), nil
}

func (s *AvailabilityService) requireMember(ctx context.Context, groupID, userID string) error {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		slog.Error("Group lookup failed", "group_id", groupID, "error", err)
		return storeError(err)
	}

	ok, err := s.store.IsMember(ctx, groupID, userID)
	if err != nil {
		slog.Error("Membership check failed", "group_id", groupID, "error", err)
		return storeError(err)
	}
	if !ok {
		return connect.NewError(connect.CodePermissionDenied, errNotMember)
	}
	return nil
}

// instantLayout is RFC 3339 in UTC with milliseconds, the precision instants
// are stored at.
const instantLayout = "2006-01-02T15:04:05.000Z07:00"

// parseInstant parses an RFC 3339 timestamp and truncates it to milliseconds.
func parseInstant(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("%s is required", field)
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be an RFC 3339 timestamp: %w", field, err)
	}
	return t.Truncate(time.Millisecond), nil
}

func formatInstant(t time.Time) string {
	return t.UTC().Format(instantLayout)
}

func toAPIAvailability(entry *models.Availability) *api.Availability {
	return &api.Availability{
		ID:      entry.ID,
		GroupID: entry.GroupID,
		UserID:  entry.UserID,
		Start:   formatInstant(entry.Start),
		End:     formatInstant(entry.End),
	}
}

func toAPIDays(days calculator.Days) api.Days {
	out := make(api.Days, len(days))
	for date, slots := range days {
		apiSlots := make([]*api.Slot, len(slots))
		for i, slot := range slots {
			apiSlots[i] = &api.Slot{
				Start: formatInstant(slot.Start),
				End:   formatInstant(slot.End),
			}
		}
		out[date] = apiSlots
	}
	return out
}
