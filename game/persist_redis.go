package game

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

type RedisTableStateTracker struct {
	rdclient *redis.Client
}

func NewRedisTableStateTracker(redisURL string, redisPW string, redisDB int) *RedisTableStateTracker {
	rdclient := redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: redisPW,
		DB:       redisDB,
	})
	return &RedisTableStateTracker{
		rdclient: rdclient,
	}
}

func tableKey(tableID string) string {
	return fmt.Sprintf("table|%s", tableID)
}

func (r *RedisTableStateTracker) Load(tableID string) (*TableSnapshot, error) {
	stateBytes, err := r.rdclient.Get(context.Background(), tableKey(tableID)).Result()
	if err == redis.Nil {
		return nil, errors.Wrapf(ErrTableNotFound, "Table state for Table: %s is not found", tableID)
	} else if err != nil {
		return nil, errors.Wrapf(err, "Unable to read state of table %s", tableID)
	}
	state := &TableSnapshot{}
	err = jsoniter.Unmarshal([]byte(stateBytes), state)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to decode state of table %s", tableID)
	}
	return state, nil
}

func (r *RedisTableStateTracker) Save(tableID string, state *TableSnapshot) error {
	stateInBytes, err := jsoniter.Marshal(state)
	if err != nil {
		return err
	}
	err = r.rdclient.Set(context.Background(), tableKey(tableID), stateInBytes, 0).Err()
	return err
}

func (r *RedisTableStateTracker) Remove(tableID string) error {
	err := r.rdclient.Del(context.Background(), tableKey(tableID)).Err()
	return err
}
