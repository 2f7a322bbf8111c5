package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	errorvalues "github.com/doomlife/pulse/internal/error_values"
	"github.com/doomlife/pulse/pkg/cleanup"
)

// RedisStateRepository is the redis-backed variant of the state blob store.
type RedisStateRepository struct {
	client *redis.Client
}

func NewRedisStateRepo(addr, password string) *RedisStateRepository {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal("error while pinging redis for stateRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing redis client",
		F:    client.Close,
	})
	return &RedisStateRepository{
		client: client,
	}
}

func NewRedisStateRepoWithClient(client *redis.Client) *RedisStateRepository {
	return &RedisStateRepository{
		client: client,
	}
}

func stateKey(uid uuid.UUID, kind string) string {
	return "state:" + uid.String() + ":" + kind
}

func (sr *RedisStateRepository) Load(ctx context.Context, uid uuid.UUID, kind string) ([]byte, error) {
	blob, err := sr.client.Get(ctx, stateKey(uid, kind)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errorvalues.ErrStateNotFound
		}
		return nil, errors.New("loading state blob error: " + err.Error())
	}
	return blob, nil
}

func (sr *RedisStateRepository) Save(ctx context.Context, uid uuid.UUID, kind string, blob []byte) error {
	if err := sr.client.Set(ctx, stateKey(uid, kind), blob, 0).Err(); err != nil {
		return errors.New("saving state blob error: " + err.Error())
	}
	return nil
}

func (sr *RedisStateRepository) Delete(ctx context.Context, uid uuid.UUID, kind string) error {
	if err := sr.client.Del(ctx, stateKey(uid, kind)).Err(); err != nil {
		return errors.New("deleting state blob error: " + err.Error())
	}
	return nil
}
