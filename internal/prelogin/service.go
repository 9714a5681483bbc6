// Package prelogin stashes the action an anonymous shopper attempted
// (add to cart, buy now) so it can resume after login. Stashes live in
// Redis under a TTL; an expired stash simply drops the action.
package prelogin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/modamarket/backend/pkg/enums"
	pkgerrors "github.com/modamarket/backend/pkg/errors"
)

type stashStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	PreloginKey(stashID string) string
}

// Action is one stashed pre-login intent.
type Action struct {
	Type    enums.PreloginActionType `json:"type"`
	Payload json.RawMessage          `json:"payload"`
}

// Service stashes and resumes pre-login actions.
type Service interface {
	Stash(ctx context.Context, action Action) (string, error)
	Pop(ctx context.Context, stashID string) (*Action, error)
}

type service struct {
	store stashStore
	ttl   time.Duration
}

// NewService wires the stash dependencies.
func NewService(store stashStore, ttl time.Duration) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("stash store required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("stash ttl must be positive")
	}
	return &service{store: store, ttl: ttl}, nil
}

// Stash stores the action and returns the stash id handed to the
// client for the post-login resume.
func (s *service) Stash(ctx context.Context, action Action) (string, error) {
	if !action.Type.IsValid() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "unknown pre-login action type")
	}
	if len(action.Payload) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "action payload is required")
	}

	raw, err := json.Marshal(action)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode stash")
	}

	stashID := uuid.NewString()
	if err := s.store.Set(ctx, s.store.PreloginKey(stashID), string(raw), s.ttl); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store stash")
	}
	return stashID, nil
}

// Pop retrieves and deletes the stashed action. A missing or expired
// stash reports not-found.
func (s *service) Pop(ctx context.Context, stashID string) (*Action, error) {
	if stashID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stash id is required")
	}

	key := s.store.PreloginKey(stashID)
	raw, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stash not found or expired")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stash")
	}
	if err := s.store.Del(ctx, key); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete stash")
	}

	var action Action
	if err := json.Unmarshal([]byte(raw), &action); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode stash")
	}
	return &action, nil
}
