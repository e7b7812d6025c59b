package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/netcode-labs/auth-service/internal/model"
	"github.com/redis/go-redis/v9"
)

const (
	tokenKeyPrefix   = "token:"
	refreshKeyPrefix = "refresh:"
)

// deleteTokenPairScript removes a stored pair and its refresh-token index in
// one atomic step. Returns 1 when the pair existed, 0 otherwise, so that two
// racing revocations cannot both observe a successful delete.
const deleteTokenPairScript = `
local data = redis.call("GET", KEYS[1])
if not data then
  return 0
end
local pair = cjson.decode(data)
redis.call("DEL", KEYS[1])
if pair["refreshToken"] then
  redis.call("DEL", ARGV[1] .. pair["refreshToken"])
end
return 1
`

var deleteTokenPairLua = redis.NewScript(deleteTokenPairScript)

type Tokens struct {
	rdb *redis.Client
}

func NewTokens(rdb *redis.Client) *Tokens {
	return &Tokens{rdb: rdb}
}

// Create persists a pair under its jti plus a reverse index keyed by the
// refresh-token value. Both entries expire with the access token.
func (t *Tokens) Create(ctx context.Context, pair *model.TokenPair) error {
	ttl := time.Until(pair.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("token pair already expired: jti=%s", pair.Jti)
	}

	data, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("failed to encode token pair: %w", err)
	}

	pipe := t.rdb.TxPipeline()
	pipe.Set(ctx, tokenKeyPrefix+pair.Jti, data, ttl)
	pipe.Set(ctx, refreshKeyPrefix+pair.RefreshToken, pair.Jti, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to persist token pair: %w", err)
	}
	return nil
}

func (t *Tokens) GetByID(ctx context.Context, jti string) (*model.TokenPair, error) {
	data, err := t.rdb.Get(ctx, tokenKeyPrefix+jti).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var pair model.TokenPair
	if err := json.Unmarshal(data, &pair); err != nil {
		return nil, fmt.Errorf("failed to decode token pair: %w", err)
	}
	return &pair, nil
}

func (t *Tokens) GetByRefreshToken(ctx context.Context, refreshToken string) (*model.TokenPair, error) {
	jti, err := t.rdb.Get(ctx, refreshKeyPrefix+refreshToken).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t.GetByID(ctx, jti)
}

// DeleteByID is atomic and idempotent: the first caller for a jti gets
// found=true, every later caller gets found=false.
func (t *Tokens) DeleteByID(ctx context.Context, jti string) (bool, error) {
	existed, err := deleteTokenPairLua.Run(ctx, t.rdb,
		[]string{tokenKeyPrefix + jti}, refreshKeyPrefix).Int()
	if err != nil {
		return false, err
	}
	return existed == 1, nil
}
