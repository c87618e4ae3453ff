package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/freeslots/internal/resolver"
	"github.com/mmynk/freeslots/internal/storage"
)

var (
	errGroupIDRequired = errors.New("group_id is required")
	errNotMember       = errors.New("not a member of this group")
)

// storeError maps storage errors onto Connect codes.
func storeError(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrDuplicate):
		return connect.NewError(connect.CodeAlreadyExists, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}

// resolveError maps resolver errors onto Connect codes. A group without
// members is reported as not found so clients can tell it apart from a
// group with no common time.
func resolveError(err error) error {
	switch {
	case errors.Is(err, resolver.ErrInvalidInput):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, resolver.ErrNoMembers):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, resolver.ErrUpstreamFetch):
		return connect.NewError(connect.CodeUnavailable, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}
