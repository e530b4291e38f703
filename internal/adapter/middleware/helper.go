package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// errCorruptEntry marks a stored record that cannot be trusted. The command
// behind it may or may not have run, so the key is neither replayed nor reused.
var errCorruptEntry = errors.New("corrupt idempotency entry")

func bodyHash(b []byte) string { s := sha256.Sum256(b); return hex.EncodeToString(s[:]) }

func nowUTC() time.Time { return time.Now().UTC() }

// entryKey scopes a record to one command attempt. The concrete path is used
// so /loans/1/fund and /loans/2/fund never share a record.
func entryKey(method, path, caller, requestID string) string {
	return "aura:idemp:" + strings.ToLower(method) + ":" + path + ":" + caller + ":" + requestID
}

// parseRequestAt accepts epoch seconds, epoch milliseconds or RFC3339 with a
// zone. Naive local timestamps are rejected.
func parseRequestAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("missing " + HeaderRequestAt)
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, errors.New(HeaderRequestAt + " must be epoch (s/ms) or RFC3339 with timezone")
}

// entryStore keeps one idempEntry per key.
type entryStore struct {
	rdb *redis.Client
}

// reserve claims key for an in-flight command and reports whether it won.
func (s entryStore) reserve(ctx context.Context, key string, e idempEntry) (bool, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return false, fmt.Errorf("encode idempotency entry: %w", err)
	}
	return s.rdb.SetNX(ctx, key, payload, provisionalLockTTL).Result()
}

// load returns redis.Nil when the key expired after reserve lost, and
// errCorruptEntry when the stored value is not a record this middleware wrote.
func (s entryStore) load(ctx context.Context, key string) (idempEntry, error) {
	v, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return idempEntry{}, err
	}
	var e idempEntry
	if err := json.Unmarshal(v, &e); err != nil {
		return idempEntry{}, fmt.Errorf("%w: %s: %w", errCorruptEntry, key, err)
	}
	if e.BodySHA256 == "" || (!e.InProgress && e.Code == 0) {
		return idempEntry{}, fmt.Errorf("%w: %s: incomplete record", errCorruptEntry, key)
	}
	return e, nil
}

// commit stores the final response for ttl.
func (s entryStore) commit(ctx context.Context, key string, e idempEntry, ttl time.Duration) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode idempotency entry: %w", err)
	}
	return s.rdb.Set(ctx, key, payload, ttl).Err()
}

// release drops the key so the client may retry.
func (s entryStore) release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
