package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisAccessTokenKeyPrefix matches the keys the auth service writes on login
// and deletes on logout: access_token:<user>:<token id>
const RedisAccessTokenKeyPrefix = "access_token:"

// TokenSessionService answers whether an access token is still live.
type TokenSessionService struct {
	redisClient *redis.Client
}

func NewTokenSessionService(redisClient *redis.Client) *TokenSessionService {
	return &TokenSessionService{redisClient: redisClient}
}

func (s *TokenSessionService) IsActive(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	key := fmt.Sprintf("%s%s:%s", RedisAccessTokenKeyPrefix, userID.String(), tokenID)
	exists, err := s.redisClient.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("check access token %s: %w", tokenID, err)
	}
	return exists > 0, nil
}
