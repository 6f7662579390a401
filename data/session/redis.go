// Package session persists the signed-in session snapshot so the app restores
// it across restarts, the way the mobile client keeps it in secure native
// storage.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/freemarket-app/freemarket_client/config"
	"github.com/freemarket-app/freemarket_client/internal/model"
	"github.com/freemarket-app/freemarket_client/utils"
	"github.com/redis/go-redis/v9"
)

const sessionKey = "freemarket:session"

var ErrNotFound = errors.New("error session not found")

type RedisSession struct {
	redis *redis.Client
	cfg   *config.Config
}

func NewRedisSession(redisClient *redis.Client, cfg *config.Config) *RedisSession {
	return &RedisSession{redis: redisClient, cfg: cfg}
}

func (r *RedisSession) SaveSession(ctx context.Context, sess model.Session) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	sessionJson, err := json.Marshal(sess)
	if err != nil {
		slog.Error("can't marshal session in SaveSession", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return errors.New("can't marshal session")
	}

	_, err = r.redis.Set(ctx, sessionKey, sessionJson, r.cfg.SessionExpiration).Result()
	if err != nil {
		slog.Error("failed on redis.Set in SaveSession", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return err
	}

	return nil
}

func (r *RedisSession) LoadSession(ctx context.Context) (model.Session, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	res, err := r.redis.Get(ctx, sessionKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Session{}, ErrNotFound
		}
		slog.Error("failed on redis.Get in LoadSession", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return model.Session{}, err
	}

	sess := model.Session{}
	err = json.Unmarshal([]byte(res), &sess)
	if err != nil {
		slog.Error("can't unmarshal session in LoadSession", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return model.Session{}, errors.New("can't unmarshal session")
	}

	return sess, nil
}

func (r *RedisSession) ClearSession(ctx context.Context) error {
	rqID := utils.GetRequestIDFromCtx(ctx)

	_, err := r.redis.Del(ctx, sessionKey).Result()
	if err != nil {
		slog.Error("failed on redis.Del in ClearSession", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return err
	}

	return nil
}
