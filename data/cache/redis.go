package cache

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

const (
	profileKeyPrefix = "company:"
	symbolsKeyPrefix = "symbols:"
)

type RedisCache struct {
	redis *redis.Client
	cfg   *config.Config
}

func NewRedisCache(redisClient *redis.Client, cfg *config.Config) *RedisCache {
	return &RedisCache{redis: redisClient, cfg: cfg}
}

func (r *RedisCache) SetCompanyProfile(ctx context.Context, profile model.CompanyProfile) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("SetCompanyProfile start", slog.String("rqID", rqID), slog.String("symbol", profile.Symbol))

	profileJson, err := json.Marshal(profile)
	if err != nil {
		slog.Error(
			"can't marshal profile in SetCompanyProfile",
			slog.String("rqID", rqID),
			slog.String("err", err.Error()),
			slog.Any("profile", profile),
		)
		return errors.New("can't marshal company profile")
	}

	_, err = r.redis.Set(ctx, profileKeyPrefix+profile.Symbol, profileJson, r.cfg.Cache.ProfilesExpiration).Result()
	if err != nil {
		slog.Error("failed on redis.Set", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("symbol", profile.Symbol))
		return err
	}

	slog.Debug("SetCompanyProfile completed", slog.String("rqID", rqID))

	return nil
}

func (r *RedisCache) GetCompanyProfile(ctx context.Context, symbol string) (model.CompanyProfile, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("GetCompanyProfile start", slog.String("rqID", rqID), slog.String("symbol", symbol))

	res, err := r.redis.Get(ctx, profileKeyPrefix+symbol).Result()
	if err != nil {
		return model.CompanyProfile{}, err
	}

	profile := model.CompanyProfile{}
	err = json.Unmarshal([]byte(res), &profile)
	if err != nil {
		slog.Error(
			"can't unmarshal profile in GetCompanyProfile",
			slog.String("rqID", rqID),
			slog.String("err", err.Error()),
			slog.String("resultFromRedis", res),
		)
		return model.CompanyProfile{}, errors.New("can't unmarshal company profile")
	}

	slog.Debug("GetCompanyProfile finished", slog.String("rqID", rqID))

	return profile, nil
}

func (r *RedisCache) SetSymbols(ctx context.Context, prefix string, symbols []model.SymbolInfo) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("SetSymbols start", slog.String("rqID", rqID), slog.String("prefix", prefix))

	symbolsJson, err := json.Marshal(symbols)
	if err != nil {
		slog.Error("can't marshal symbols in SetSymbols", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return errors.New("can't marshal symbols")
	}

	_, err = r.redis.Set(ctx, symbolsKeyPrefix+prefix, symbolsJson, r.cfg.Cache.SymbolsExpiration).Result()
	if err != nil {
		slog.Error("failed on redis.Set", slog.String("rqID", rqID), slog.String("err", err.Error()), slog.String("prefix", prefix))
		return err
	}

	slog.Debug("SetSymbols completed", slog.String("rqID", rqID))

	return nil
}

func (r *RedisCache) GetSymbols(ctx context.Context, prefix string) ([]model.SymbolInfo, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("GetSymbols start", slog.String("rqID", rqID), slog.String("prefix", prefix))

	res, err := r.redis.Get(ctx, symbolsKeyPrefix+prefix).Result()
	if err != nil {
		return nil, err
	}

	var symbols []model.SymbolInfo
	err = json.Unmarshal([]byte(res), &symbols)
	if err != nil {
		slog.Error(
			"can't unmarshal symbols in GetSymbols",
			slog.String("rqID", rqID),
			slog.String("err", err.Error()),
			slog.String("resultFromRedis", res),
		)
		return nil, errors.New("can't unmarshal symbols")
	}

	slog.Debug("GetSymbols finished", slog.String("rqID", rqID))

	return symbols, nil
}
