package hub

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/valkey-io/valkey-go"
)

// joinScript adds a member to the room set only while it is below capacity.
// Returns {joined, count}.
var joinScript = valkey.NewLuaScript(`
if redis.call('SISMEMBER', KEYS[1], ARGV[1]) == 1 then
  return {1, redis.call('SCARD', KEYS[1])}
end
local n = redis.call('SCARD', KEYS[1])
if n >= tonumber(ARGV[2]) then
  return {0, n}
end
redis.call('SADD', KEYS[1], ARGV[1])
redis.call('EXPIRE', KEYS[1], ARGV[3])
return {1, n + 1}
`)

// valkeyStore keeps each room as a Valkey set so every hub instance sees the same counts.
type valkeyStore struct {
	client valkey.Client
	prefix string
	ttl    time.Duration
}

var _ OccupancyStore = &valkeyStore{}

// NewValkeyStore connects to a Valkey server and returns an OccupancyStore backed by it.
//
// Parameters:
//   - addr: host:port of the server
//   - ttl: how long an idle room set survives; protects against hubs that die without leaving
//
// Returns:
//   - OccupancyStore: the store
//   - error: error if the client cannot be created
func NewValkeyStore(addr string, ttl time.Duration) (OccupancyStore, error) {
	client, err := valkey.NewClient(valkey.ClientOption{InitAddress: []string{addr}})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to valkey at %s: %w", addr, err)
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &valkeyStore{client: client, prefix: "oxy:scene:", ttl: ttl}, nil
}

func (s *valkeyStore) key(sceneID string) string {
	return s.prefix + sceneID + ":members"
}

func (s *valkeyStore) Join(ctx context.Context, sceneID, connID string, max int) (int, bool, error) {
	ttl := strconv.Itoa(int(s.ttl / time.Second))
	res, err := joinScript.Exec(ctx, s.client, []string{s.key(sceneID)}, []string{connID, strconv.Itoa(max), ttl}).ToArray()
	if err != nil {
		return 0, false, fmt.Errorf("failed to join scene %s: %w", sceneID, err)
	}
	if len(res) != 2 {
		return 0, false, fmt.Errorf("failed to join scene %s: unexpected reply of %d values", sceneID, len(res))
	}
	joined, err := res[0].AsInt64()
	if err != nil {
		return 0, false, err
	}
	count, err := res[1].AsInt64()
	if err != nil {
		return 0, false, err
	}
	return int(count), joined == 1, nil
}

func (s *valkeyStore) Leave(ctx context.Context, sceneID, connID string) (int, error) {
	key := s.key(sceneID)
	if err := s.client.Do(ctx, s.client.B().Srem().Key(key).Member(connID).Build()).Error(); err != nil {
		return 0, fmt.Errorf("failed to leave scene %s: %w", sceneID, err)
	}
	return s.Count(ctx, sceneID)
}

func (s *valkeyStore) Count(ctx context.Context, sceneID string) (int, error) {
	n, err := s.client.Do(ctx, s.client.B().Scard().Key(s.key(sceneID)).Build()).AsInt64()
	if err != nil {
		return 0, fmt.Errorf("failed to count scene %s: %w", sceneID, err)
	}
	return int(n), nil
}

func (s *valkeyStore) Close() error {
	s.client.Close()
	return nil
}
