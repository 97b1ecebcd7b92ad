package user

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"langlink/internal/common"
	"langlink/internal/dbmysql"
)

// FriendService drives the connection protocol between two users. Per
// unordered pair the reachable states are: no request, one pending request
// (in one direction), accepted. Acceptance links both friend sets.
type FriendService interface {
	SendRequest(ctx context.Context, actorID, targetID uint64) (*dbmysql.FriendRequest, error)
	AcceptRequest(ctx context.Context, actorID, requestID uint64) error

	// ListFriendRequests returns the actor's actionable inbox (pending
	// requests addressed to them) and the accepted requests they are party
	// to, either side, with counterpart profiles attached.
	ListFriendRequests(ctx context.Context, actorID uint64) (incoming, accepted []*dbmysql.FriendRequest, err error)

	ListOutgoingRequests(ctx context.Context, actorID uint64) ([]*dbmysql.FriendRequest, error)
}

type friendService struct {
	userRepo    UserRepository
	requestRepo FriendRequestRepository
	tx          dbmysql.TxManager
}

func NewFriendService(userRepo UserRepository, requestRepo FriendRequestRepository, tx dbmysql.TxManager) FriendService {
	return &friendService{userRepo: userRepo, requestRepo: requestRepo, tx: tx}
}

func (s *friendService) SendRequest(ctx context.Context, actorID, targetID uint64) (*dbmysql.FriendRequest, error) {
	if actorID == 0 || targetID == 0 {
		return nil, fmt.Errorf("%w: missing user id", common.ErrValidation)
	}
	if actorID == targetID {
		return nil, common.ErrSelfRequest
	}

	if _, err := s.userRepo.GetUserByID(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: recipient", common.ErrNotFound)
		}
		return nil, fmt.Errorf("resolve recipient: %w", err)
	}

	// friendship is checked against the directory, not the ledger: an edge
	// can predate ledger history
	friends, err := s.userRepo.AreFriends(ctx, actorID, targetID)
	if err != nil {
		return nil, fmt.Errorf("check friendship: %w", err)
	}
	if friends {
		return nil, common.ErrAlreadyFriends
	}

	existing, err := s.requestRepo.FindBetween(ctx, actorID, targetID)
	if err != nil {
		return nil, fmt.Errorf("check existing request: %w", err)
	}
	if existing != nil {
		if existing.Status == dbmysql.RequestStatusAccepted {
			return nil, common.ErrAlreadyFriends
		}
		return nil, common.ErrDuplicateRequest
	}

	req := &dbmysql.FriendRequest{
		SenderID:    actorID,
		RecipientID: targetID,
	}
	if err := s.requestRepo.Create(ctx, req); err != nil {
		// the unique pair index catches a concurrent send we raced against
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, common.ErrDuplicateRequest
		}
		return nil, fmt.Errorf("create friend request: %w", err)
	}
	return req, nil
}

func (s *friendService) AcceptRequest(ctx context.Context, actorID, requestID uint64) error {
	if actorID == 0 || requestID == 0 {
		return fmt.Errorf("%w: missing id", common.ErrValidation)
	}

	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: friend request", common.ErrNotFound)
		}
		return fmt.Errorf("load friend request: %w", err)
	}

	// only the addressed recipient may accept; the sender cannot
	if req.RecipientID != actorID {
		return common.ErrForbidden
	}

	// status transition and friend edges commit together; a retry after a
	// partial failure converges since the transition is guarded and the edge
	// insert is idempotent
	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.requestRepo.MarkAccepted(txCtx, req); err != nil {
			return err
		}
		return s.userRepo.AddFriendEdge(txCtx, req.SenderID, req.RecipientID)
	})
	if err != nil {
		if errors.Is(err, common.ErrInvalidState) {
			return common.ErrInvalidState
		}
		return fmt.Errorf("accept friend request: %w", err)
	}
	return nil
}

func (s *friendService) ListFriendRequests(ctx context.Context, actorID uint64) ([]*dbmysql.FriendRequest, []*dbmysql.FriendRequest, error) {
	incoming, err := s.requestRepo.ListIncoming(ctx, actorID, dbmysql.RequestStatusPending)
	if err != nil {
		return nil, nil, fmt.Errorf("list incoming requests: %w", err)
	}

	accepted, err := s.requestRepo.ListInvolving(ctx, actorID, dbmysql.RequestStatusAccepted)
	if err != nil {
		return nil, nil, fmt.Errorf("list accepted requests: %w", err)
	}

	if err := s.populateProfiles(ctx, append(append([]*dbmysql.FriendRequest{}, incoming...), accepted...)); err != nil {
		return nil, nil, err
	}
	return incoming, accepted, nil
}

func (s *friendService) ListOutgoingRequests(ctx context.Context, actorID uint64) ([]*dbmysql.FriendRequest, error) {
	outgoing, err := s.requestRepo.ListOutgoing(ctx, actorID, dbmysql.RequestStatusPending)
	if err != nil {
		return nil, fmt.Errorf("list outgoing requests: %w", err)
	}
	if err := s.populateProfiles(ctx, outgoing); err != nil {
		return nil, err
	}
	return outgoing, nil
}

// populateProfiles attaches sender and recipient profiles to the given
// requests in one directory read.
func (s *friendService) populateProfiles(ctx context.Context, requests []*dbmysql.FriendRequest) error {
	if len(requests) == 0 {
		return nil
	}

	seen := make(map[uint64]bool)
	var ids []uint64
	for _, r := range requests {
		for _, id := range []uint64{r.SenderID, r.RecipientID} {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	users, err := s.userRepo.ListByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("load request profiles: %w", err)
	}

	byID := make(map[uint64]*dbmysql.User, len(users))
	for _, u := range users {
		byID[u.UserID] = u
	}
	for _, r := range requests {
		r.Sender = byID[r.SenderID]
		r.Recipient = byID[r.RecipientID]
	}
	return nil
}
