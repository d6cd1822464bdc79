package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AppSessionStore 操作员会话，放 Redis，审计落 actor 用
type AppSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAppSessionStore(rdb *redis.Client, ttl time.Duration) *AppSessionStore {
	return &AppSessionStore{rdb: rdb, ttl: ttl}
}

type AppSession struct {
	Actor     string `json:"actor"`
	Station   string `json:"station,omitempty"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

func key(id string) string { return fmt.Sprintf("app:sess:%s", id) }

func actorSetKey(actor string) string { return fmt.Sprintf("app:actor_sessions:%s", actor) }

func (s *AppSessionStore) Create(ctx context.Context, id, actor, station string) error {
	now := time.Now()
	b, _ := json.Marshal(AppSession{
		Actor:     actor,
		Station:   station,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.ttl).Unix(),
	})
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, key(id), b, s.ttl)
	pipe.SAdd(ctx, actorSetKey(actor), id)
	pipe.Expire(ctx, actorSetKey(actor), s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *AppSessionStore) Get(ctx context.Context, id string) (*AppSession, error) {
	b, err := s.rdb.Get(ctx, key(id)).Bytes()
	if err != nil {
		return nil, err
	}
	var as AppSession
	if err := json.Unmarshal(b, &as); err != nil {
		return nil, err
	}
	return &as, nil
}

func (s *AppSessionStore) Delete(ctx context.Context, id string) error {
	as, _ := s.Get(ctx, id) // 忽略失败
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, key(id))
	if as != nil {
		pipe.SRem(ctx, actorSetKey(as.Actor), id)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// 换班/吊销：清掉某操作员的全部会话
func (s *AppSessionStore) RevokeAllForActor(ctx context.Context, actor string) error {
	ids, err := s.rdb.SMembers(ctx, actorSetKey(actor)).Result()
	if err != nil && err != redis.Nil {
		return err
	}

	pipe := s.rdb.TxPipeline()
	for _, sid := range ids {
		pipe.Del(ctx, key(sid))
	}
	pipe.Del(ctx, actorSetKey(actor))
	_, err = pipe.Exec(ctx)
	return err
}
