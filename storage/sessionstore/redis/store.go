package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/walimu/walimu/core"
	"github.com/walimu/walimu/core/session"
)

// store persists each session under two fixed keys:
//
//	walimu:sess:<sid>:token
//	walimu:sess:<sid>:profile
//
// Both are written in one pipeline with the same TTL and deleted together;
// a missing or expired key on either side reads as logged out.
type store struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ session.Store = (*store)(nil)

func New(conf *core.Config) *store {
	return &store{
		rdb: redis.NewClient(&redis.Options{
			Addr:     conf.Redis.Addr,
			Password: conf.Redis.Password,
			DB:       conf.Redis.DB,
		}),
		ttl: conf.Session.TTL,
	}
}

// NewWithClient is used by tests.
func NewWithClient(rdb *redis.Client, ttl time.Duration) *store {
	return &store{rdb: rdb, ttl: ttl}
}

func (s *store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *store) Save(ctx context.Context, sid string, sess session.Session) error {
	data, err := json.Marshal(sess.User)
	if err != nil {
		return errors.Wrap(err, "encoding profile")
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, key(sid, session.KeyToken), sess.Token, s.ttl)
	pipe.Set(ctx, key(sid, session.KeyProfile), data, s.ttl)
	_, err = pipe.Exec(ctx)
	return errors.Wrap(err, "saving session")
}

func (s *store) Get(ctx context.Context, sid string) (session.Session, error) {
	vals, err := s.rdb.MGet(ctx, key(sid, session.KeyToken), key(sid, session.KeyProfile)).Result()
	if err != nil {
		return session.Session{}, errors.Wrap(err, "loading session")
	}

	token, ok := vals[0].(string)
	if !ok || token == "" {
		return session.Session{}, session.ErrNotFound
	}
	data, ok := vals[1].(string)
	if !ok {
		return session.Session{}, session.ErrNotFound
	}

	var profile session.UserProfile
	if err = json.Unmarshal([]byte(data), &profile); err != nil {
		return session.Session{}, errors.Wrap(err, "decoding profile")
	}
	return session.Session{SID: sid, Token: token, User: &profile}, nil
}

func (s *store) Delete(ctx context.Context, sid string) error {
	err := s.rdb.Del(ctx, key(sid, session.KeyToken), key(sid, session.KeyProfile)).Err()
	return errors.Wrap(err, "deleting session")
}

func key(sid, entry string) string {
	return fmt.Sprintf("walimu:sess:%s:%s", sid, entry)
}
