package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/freeslots/internal/middleware"
	"github.com/mmynk/freeslots/internal/models"
	"github.com/mmynk/freeslots/internal/storage"
	"github.com/mmynk/freeslots/pkg/api"
	"github.com/mmynk/freeslots/pkg/api/apiconnect"
)

var errGroupNameRequired = errors.New("group name is required")

// GroupService implements the Connect GroupService
type GroupService struct {
	apiconnect.UnimplementedGroupServiceHandler
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// CreateGroup creates a new group owned by the caller, who becomes its first member.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	userID := middleware.GetUserID(ctx)
	slog.Info("CreateGroup request received", "name", req.Msg.Name, "user_id", userID)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errGroupNameRequired)
	}

	group := &models.Group{
		Name:      name,
		CreatedBy: userID,
	}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "name", name, "error", err)
		return nil, storeError(err)
	}

	slog.Info("Group created", "group_id", group.ID)

	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(group)}), nil
}

// JoinGroup adds the caller to an existing group. Joining twice is a no-op.
func (s *GroupService) JoinGroup(ctx context.Context, req *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.JoinGroupResponse], error) {
	userID := middleware.GetUserID(ctx)
	groupID := req.Msg.GroupID
	slog.Info("JoinGroup request received", "group_id", groupID, "user_id", userID)

	if groupID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errGroupIDRequired)
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		slog.Error("JoinGroup failed - group not found", "group_id", groupID, "error", err)
		return nil, storeError(err)
	}

	if err := s.store.AddMember(ctx, groupID, userID); err != nil {
		slog.Error("JoinGroup failed", "group_id", groupID, "error", err)
		return nil, storeError(err)
	}

	slog.Info("Group joined", "group_id", groupID, "user_id", userID)

	return connect.NewResponse(&api.JoinGroupResponse{GroupName: group.Name}), nil
}

// LeaveGroup removes the caller and their availability from a group. The group
// is deleted when its last member leaves.
func (s *GroupService) LeaveGroup(ctx context.Context, req *connect.Request[api.LeaveGroupRequest]) (*connect.Response[api.LeaveGroupResponse], error) {
	userID := middleware.GetUserID(ctx)
	groupID := req.Msg.GroupID
	slog.Info("LeaveGroup request received", "group_id", groupID, "user_id", userID)

	if groupID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errGroupIDRequired)
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		slog.Error("LeaveGroup failed - group not found", "group_id", groupID, "error", err)
		return nil, storeError(err)
	}

	deleted, err := s.store.RemoveMember(ctx, groupID, userID)
	if err != nil {
		slog.Error("LeaveGroup failed", "group_id", groupID, "error", err)
		return nil, storeError(err)
	}

	slog.Info("Group left", "group_id", groupID, "user_id", userID, "group_deleted", deleted)

	return connect.NewResponse(&api.LeaveGroupResponse{
		GroupName:    group.Name,
		GroupDeleted: deleted,
	}), nil
}

// ListGroups returns the groups the caller belongs to.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	userID := middleware.GetUserID(ctx)
	slog.Info("ListGroups request received", "user_id", userID)

	groups, err := s.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, storeError(err)
	}

	apiGroups := make([]*api.Group, len(groups))
	for i, group := range groups {
		apiGroups[i] = toAPIGroup(group)
	}

	slog.Info("ListGroups successful", "count", len(groups))

	return connect.NewResponse(&api.ListGroupsResponse{Groups: apiGroups}), nil
}

// ListMembers returns every member of a group with a display name.
func (s *GroupService) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	groupID := req.Msg.GroupID
	slog.Info("ListMembers request received", "group_id", groupID)

	if groupID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errGroupIDRequired)
	}

	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		slog.Error("ListMembers failed - group not found", "group_id", groupID, "error", err)
		return nil, storeError(err)
	}

	members, err := s.store.ListMembers(ctx, groupID)
	if err != nil {
		slog.Error("ListMembers failed", "group_id", groupID, "error", err)
		return nil, storeError(err)
	}

	apiMembers := make([]*api.Member, len(members))
	for i, member := range members {
		apiMembers[i] = &api.Member{ID: member.UserID, Name: member.Name}
	}

	slog.Info("ListMembers successful", "group_id", groupID, "count", len(members))

	return connect.NewResponse(&api.ListMembersResponse{Members: apiMembers}), nil
}

func toAPIGroup(group *models.Group) *api.Group {
	return &api.Group{
		ID:        group.ID,
		Name:      group.Name,
		CreatedBy: group.CreatedBy,
		CreatedAt: group.CreatedAt,
	}
}
