package middleware

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newStore(t *testing.T) (*miniredis.Miniredis, entryStore) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run: %v", err)
	}
	t.Cleanup(mr.Close)
	return mr, entryStore{rdb: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
}

func Test_entryKey_SeparatesLoansAndCallers(t *testing.T) {
	reqID := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	base := entryKey("POST", "/loans/1/fund", "lender-1", reqID)
	if base != "aura:idemp:post:/loans/1/fund:lender-1:"+reqID {
		t.Fatalf("unexpected key %q", base)
	}
	for _, other := range []string{
		entryKey("POST", "/loans/2/fund", "lender-1", reqID),
		entryKey("POST", "/loans/1/fund", "lender-2", reqID),
		entryKey("PUT", "/loans/1/fund", "lender-1", reqID),
	} {
		if other == base {
			t.Fatalf("keys collide: %q", other)
		}
	}
}

func Test_parseRequestAt(t *testing.T) {
	sec := int64(1_736_123_456)
	want := time.Unix(sec, 0).UTC()
	for _, raw := range []string{
		strconv.FormatInt(sec, 10),
		strconv.FormatInt(sec*1000, 10),
		"2025-01-06T00:30:56Z",
		"2025-01-06T07:30:56+07:00",
	} {
		got, err := parseRequestAt(raw)
		if err != nil {
			t.Fatalf("parseRequestAt(%q): %v", raw, err)
		}
		if !got.Equal(want) || got.Location() != time.UTC {
			t.Fatalf("parseRequestAt(%q) = %v, want %v UTC", raw, got, want)
		}
	}
	for _, raw := range []string{"", "  ", "2025-01-06T00:30:56", "yesterday"} {
		if _, err := parseRequestAt(raw); err == nil {
			t.Fatalf("parseRequestAt(%q) should fail", raw)
		}
	}
}

func Test_entryStore_ReserveOnce_ThenCommit(t *testing.T) {
	mr, store := newStore(t)
	ctx := context.Background()
	key := entryKey("POST", "/loans", "borrower-1", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	pending := idempEntry{InProgress: true, BodySHA256: bodyHash([]byte(`{}`))}

	if ok, err := store.reserve(ctx, key, pending); err != nil || !ok {
		t.Fatalf("first reserve: ok=%v err=%v", ok, err)
	}
	if ok, err := store.reserve(ctx, key, pending); err != nil || ok {
		t.Fatalf("second reserve must lose: ok=%v err=%v", ok, err)
	}
	if ttl := mr.TTL(key); ttl <= 0 || ttl > provisionalLockTTL {
		t.Fatalf("provisional ttl = %v", ttl)
	}

	final := idempEntry{Code: 201, Body: []byte(`{"id":1}`), BodySHA256: pending.BodySHA256}
	if err := store.commit(ctx, key, final, 5*time.Minute); err != nil {
		t.Fatalf("commit: %v", err)
	}
	got, err := store.load(ctx, key)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.InProgress || got.Code != 201 || string(got.Body) != `{"id":1}` {
		t.Fatalf("unexpected entry %+v", got)
	}
	if ttl := mr.TTL(key); ttl != 5*time.Minute {
		t.Fatalf("final ttl = %v", ttl)
	}

	if err := store.release(ctx, key); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, err := store.load(ctx, key); !errors.Is(err, redis.Nil) {
		t.Fatalf("load after release: want redis.Nil, got %v", err)
	}
}

func Test_entryStore_LoadRejectsCorruptRecords(t *testing.T) {
	mr, store := newStore(t)
	for name, raw := range map[string]string{
		"not json":        "{oops",
		"empty object":    "{}",
		"final no status": `{"in_progress":false,"body_sha256":"abc"}`,
	} {
		key := "aura:idemp:" + name
		if err := mr.Set(key, raw); err != nil {
			t.Fatalf("seed: %v", err)
		}
		if _, err := store.load(context.Background(), key); !errors.Is(err, errCorruptEntry) {
			t.Fatalf("%s: want errCorruptEntry, got %v", name, err)
		}
	}
}
