package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

/*
 * Redis based storage of the translated queries
 */
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

/*
 * Connect to the Redis server and check the connection
 */
func setupRedis() (*Redis, error) {
	options := &redis.Options{
		Addr:     config.Redis.Addr,
		Username: config.Redis.User,
		Password: config.Redis.Password,
		DB:       config.Redis.DB,
	}

	client := redis.NewClient(options)

	r := &Redis{
		client: client,
		prefix: config.Redis.Prefix,
		ttl:    time.Duration(config.Cache.TTL) * time.Second,
	}

	// Be able to cancel too long execution
	ctx, cancel := r.newContext()
	defer cancel()

	err := client.Ping(ctx).Err()
	if err != nil {
		return nil, fmt.Errorf("Can't ping Redis: %s", err.Error())
	}

	log.Debug().Msg("Redis successfully connected")

	return r, nil
}

func (r *Redis) key(sql string) string {
	return r.prefix + cacheKey(sql)
}

/*
 * Get cache value by a query text
 */
func (r *Redis) getCache(sql string) (*Translation, error) {
	ctx, cancel := r.newContext()
	defer cancel()

	b, err := r.client.Get(ctx, r.key(sql)).Bytes()
	if errors.Is(err, redis.Nil) {
		log.Debug().
			Str("sql", sql).
			Msg("Key does not exist in cache")
		return nil, nil

	} else if err != nil {
		return nil, err
	}

	t := &Translation{}

	err = json.Unmarshal(b, t)
	if err != nil {
		return nil, fmt.Errorf("Can't unmarshal cached translation: %s", err.Error())
	}

	return t, nil
}

/*
 * Cache the translation, zero TTL keeps it forever
 */
func (r *Redis) setCache(sql string, t *Translation) {
	b, err := json.Marshal(t)
	if err != nil {
		log.Error().Msgf("Can't marshal '%s' translation: %s", sql, err.Error())
		return
	}

	ctx, cancel := r.newContext()
	defer cancel()

	err = r.client.Set(ctx, r.key(sql), b, r.ttl).Err()
	if err != nil {
		log.Error().Msgf("Can't save '%s' translation in cache: %s", sql, err.Error())
	} else {
		log.Debug().
			Str("sql", sql).
			Msg("Cache set")
	}
}

func (r *Redis) stop() error {
	return r.client.Close()
}

func (r *Redis) newContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(config.Redis.Timeout)*time.Second)
}
