package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kestrelworks/taskweave/types"
)

// RedisConfig configures the redis-backed checkpoint store.
type RedisConfig struct {
	Addr      string `json:"addr" yaml:"addr"`
	Password  string `json:"password" yaml:"password"`
	DB        int    `json:"db" yaml:"db"`
	KeyPrefix string `json:"key_prefix" yaml:"key_prefix"`
	// TTL expires stale checkpoints; zero keeps them forever.
	TTL time.Duration `json:"ttl" yaml:"ttl"`
}

// RedisCheckpointStore persists checkpoints in Redis, one key per workflow.
// Suitable for distributed deployments where workers share recovery state.
type RedisCheckpointStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisCheckpointStore connects to Redis and verifies the connection
// with a ping before returning the store.
func NewRedisCheckpointStore(cfg RedisConfig) (*RedisCheckpointStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, types.NewError(types.ErrCheckpointIO, "failed to connect to redis").WithCause(err)
	}

	keyPrefix := cfg.KeyPrefix
	if keyPrefix == "" {
		keyPrefix = "taskweave:"
	}

	return &RedisCheckpointStore{
		client:    client,
		keyPrefix: keyPrefix + "checkpoint:",
		ttl:       cfg.TTL,
	}, nil
}

// Close releases the underlying client.
func (s *RedisCheckpointStore) Close() error {
	return s.client.Close()
}

// Ping checks store health.
func (s *RedisCheckpointStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisCheckpointStore) key(workflowID string) string {
	return s.keyPrefix + workflowID
}

func (s *RedisCheckpointStore) Save(ctx context.Context, cp *Checkpoint) error {
	data, err := json.Marshal(cp)
	if err != nil {
		return types.NewError(types.ErrCheckpointIO, "failed to encode checkpoint").WithCause(err)
	}
	if err := s.client.Set(ctx, s.key(cp.WorkflowID), data, s.ttl).Err(); err != nil {
		return types.NewError(types.ErrCheckpointIO, "failed to write checkpoint to redis").WithCause(err)
	}
	return nil
}

func (s *RedisCheckpointStore) Load(ctx context.Context, workflowID string) (*Checkpoint, error) {
	data, err := s.client.Get(ctx, s.key(workflowID)).Bytes()
	if err == redis.Nil {
		return nil, types.NewError(types.ErrCheckpointIO, fmt.Sprintf("no checkpoint for workflow %s", workflowID))
	}
	if err != nil {
		return nil, types.NewError(types.ErrCheckpointIO, "failed to read checkpoint from redis").WithCause(err)
	}
	return decodeCheckpoint(data)
}

var _ CheckpointStore = (*RedisCheckpointStore)(nil)
