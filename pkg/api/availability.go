package api

// Availability is one submitted free-time window.
type Availability struct {
	ID      string `json:"id"`
	GroupID string `json:"groupId"`
	UserID  string `json:"userId"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

// Slot is a window during which every group member is free.
type Slot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Days maps a calendar date ("yyyy-mm-dd") to the slots starting on it.
type Days map[string][]*Slot

type SubmitAvailabilityRequest struct {
	GroupID string `json:"groupId"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

type SubmitAvailabilityResponse struct {
	Availability *Availability `json:"availability"`
}

type ListAvailabilityRequest struct {
	GroupID string `json:"groupId"`
}

type ListAvailabilityResponse struct {
	Availability []*Availability `json:"availability"`
}

type RemoveAvailabilityRequest struct {
	AvailabilityID string `json:"availabilityId"`
}

type RemoveAvailabilityResponse struct{}

type ResolveGroupRequest struct {
	GroupID string `json:"groupId"`
}

type ResolveGroupResponse struct {
	Days Days `json:"days"`
}

type ResolveGroupsRequest struct {
	GroupIDs []string `json:"groupIds"`
}

// ResolveGroupsResponse holds one entry per group that resolved. Groups that
// could not be resolved are absent.
type ResolveGroupsResponse struct {
	Groups map[string]Days `json:"groups"`
}
