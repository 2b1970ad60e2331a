package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/settle/internal/calculator"
	"github.com/mmynk/settle/internal/metrics"
	"github.com/mmynk/settle/internal/models"
	"github.com/mmynk/settle/internal/storage"
	"github.com/mmynk/settle/pkg/api"
	"github.com/mmynk/settle/pkg/api/apiconnect"
)

// GroupService implements the Connect GroupService
type GroupService struct {
	apiconnect.UnimplementedGroupServiceHandler
	store   storage.Store
	metrics *metrics.Metrics
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store, m *metrics.Metrics) *GroupService {
	return &GroupService{store: store, metrics: m}
}

// CreateGroup creates a new group.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.Members),
	)

	if req.Msg.Name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("name required"))
	}
	if err := checkMembers(req.Msg.Members); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	group := &models.Group{
		Name:    req.Msg.Name,
		Members: req.Msg.Members,
	}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, storageError(err)
	}

	slog.Info("Group created", "group_id", group.ID)

	return connect.NewResponse(&api.CreateGroupResponse{Group: groupToAPI(group)}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	if req.Msg.GroupID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("group_id required"))
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storageError(err)
	}

	slog.Info("GetGroup successful", "group_id", group.ID, "name", group.Name)

	return connect.NewResponse(&api.GetGroupResponse{Group: groupToAPI(group)}), nil
}

// ListGroups retrieves all groups.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	slog.Info("ListGroups request received")

	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, storageError(err)
	}

	out := make([]*api.Group, len(groups))
	for i, group := range groups {
		out[i] = groupToAPI(group)
	}

	slog.Info("ListGroups successful", "count", len(groups))

	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// UpdateGroup replaces the name and members of an existing group.
func (s *GroupService) UpdateGroup(ctx context.Context, req *connect.Request[api.UpdateGroupRequest]) (*connect.Response[api.UpdateGroupResponse], error) {
	slog.Info("UpdateGroup request received",
		"group_id", req.Msg.GroupID,
		"name", req.Msg.Name,
		"members_count", len(req.Msg.Members),
	)

	if req.Msg.GroupID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("group_id required"))
	}
	if req.Msg.Name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("name required"))
	}
	if err := checkMembers(req.Msg.Members); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	group := &models.Group{
		ID:      req.Msg.GroupID,
		Name:    req.Msg.Name,
		Members: req.Msg.Members,
	}

	if err := s.store.UpdateGroup(ctx, group); err != nil {
		slog.Error("UpdateGroup failed", "error", err)
		return nil, storageError(err)
	}

	// Fetch updated group to get CreatedAt
	updated, err := s.store.GetGroup(ctx, group.ID)
	if err != nil {
		slog.Error("Failed to fetch updated group", "error", err)
		return nil, storageError(err)
	}

	slog.Info("Group updated", "group_id", group.ID)

	return connect.NewResponse(&api.UpdateGroupResponse{Group: groupToAPI(updated)}), nil
}

// DeleteGroup removes a group and its expenses.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	slog.Info("DeleteGroup request received", "group_id", req.Msg.GroupID)

	if req.Msg.GroupID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("group_id required"))
	}

	if err := s.store.DeleteGroup(ctx, req.Msg.GroupID); err != nil {
		slog.Error("DeleteGroup failed", "error", err)
		return nil, storageError(err)
	}

	slog.Info("Group deleted", "group_id", req.Msg.GroupID)

	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

// GetGroupBalances settles every expense recorded in a group.
func (s *GroupService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	groupID := req.Msg.GroupID
	slog.Info("GetGroupBalances request received", "group_id", groupID)

	if groupID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("group_id required"))
	}

	// Verify group exists
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		slog.Error("GetGroupBalances failed - group not found", "group_id", groupID, "error", err)
		return nil, storageError(err)
	}

	stored, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		slog.Error("GetGroupBalances failed - could not list expenses", "group_id", groupID, "error", err)
		return nil, storageError(err)
	}

	expenses := make([]calculator.Expense, len(stored))
	for i, e := range stored {
		expenses[i] = expenseFromModel(e)
	}

	// Stored expenses were validated on insert, so any failure here is ours.
	p, err := computePlan(expenses)
	if err != nil {
		slog.Error("GetGroupBalances failed - calculation error", "group_id", groupID, "error", err)
		return nil, calculatorError(s.metrics, err, fromStore)
	}
	s.metrics.ObservePlan("group", len(p.transactions))

	slog.Info("GetGroupBalances successful",
		"group_id", groupID,
		"expenses_count", len(expenses),
		"members_count", len(p.balances),
		"transactions_count", len(p.transactions),
	)

	return connect.NewResponse(&api.GetGroupBalancesResponse{
		Balances:     balancesToAPI(p.balances),
		Summaries:    summariesToAPI(p.summaries),
		Transactions: transactionsToAPI(p.transactions),
	}), nil
}

// checkMembers rejects empty and repeated member identifiers.
func checkMembers(members []string) error {
	seen := make(map[string]bool, len(members))
	for i, m := range members {
		if m == "" {
			return fmt.Errorf("member %d is empty", i)
		}
		if seen[m] {
			return fmt.Errorf("member %q listed twice", m)
		}
		seen[m] = true
	}
	return nil
}
