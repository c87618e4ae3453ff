package api

// Group is a set of people whose common free time is resolved together.
type Group struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedBy string `json:"createdBy"`
	CreatedAt int64  `json:"createdAt"`
}

// Member is one member of a group. Name falls back to the email address.
type Member struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CreateGroupRequest struct {
	Name string `json:"name"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type JoinGroupRequest struct {
	GroupID string `json:"groupId"`
}

type JoinGroupResponse struct {
	GroupName string `json:"groupName"`
}

type LeaveGroupRequest struct {
	GroupID string `json:"groupId"`
}

type LeaveGroupResponse struct {
	GroupName string `json:"groupName"`
	// GroupDeleted is set when the caller was the last member.
	GroupDeleted bool `json:"groupDeleted"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type ListMembersRequest struct {
	GroupID string `json:"groupId"`
}

type ListMembersResponse struct {
	Members []*Member `json:"members"`
}
