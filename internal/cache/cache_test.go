package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestRedis_GetSet(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	c, err := NewRedis(ctx, mr.Addr(), "")
	if err != nil {
		t.Fatalf("NewRedis() error = %v", err)
	}
	defer c.Close()

	key := Key("BTCUSDT", "4h", 200)
	if key != "analysis:BTCUSDT:4h:200" {
		t.Errorf("Key() = %q", key)
	}

	if _, ok, err := c.Get(ctx, key); ok || err != nil {
		t.Fatalf("Get() on empty cache = %v, %v", ok, err)
	}

	if err := c.Set(ctx, key, []byte(`[{"close":1}]`), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	val, ok, err := c.Get(ctx, key)
	if err != nil || !ok || string(val) != `[{"close":1}]` {
		t.Fatalf("Get() = %q, %v, %v", val, ok, err)
	}

	mr.FastForward(2 * time.Minute)
	if _, ok, _ := c.Get(ctx, key); ok {
		t.Error("entry should have expired")
	}
}

func TestRedis_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := NewRedis(context.Background(), addr, ""); err == nil {
		t.Fatal("expected a ping error")
	}
}

func TestRedis_GetError(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := NewRedis(context.Background(), mr.Addr(), "")
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	mr.SetError("LOADING")
	if _, _, err := c.Get(context.Background(), "k"); err == nil {
		t.Error("expected an error from a failing server")
	}
}

func TestNoop(t *testing.T) {
	var c Cache = Noop{}
	ctx := context.Background()
	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := c.Get(ctx, "k"); ok || err != nil {
		t.Errorf("Noop.Get() = %v, %v", ok, err)
	}
}
