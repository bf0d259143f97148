package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"todo-api/pkg/config"
	"todo-api/pkg/logger"
)

const pingTimeout = 5 * time.Second

// Client ครอบ go-redis ให้เหลือแค่คำสั่งที่ cache กับ token store ใช้
type Client struct {
	rdb *redis.Client
}

// NewClient เชื่อมต่อตาม REDIS_URL แล้ว ping ทันที เชื่อมไม่ได้คืน error
func NewClient(cfg *config.RedisConfig) (*Client, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	// ค่าจาก env แยกชนะค่าใน URL
	if cfg.Password != "" {
		opt.Password = cfg.Password
	}
	if cfg.DB > 0 {
		opt.DB = cfg.DB
	}

	c := &Client{rdb: redis.NewClient(opt)}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	logger.Info("Redis connected", "addr", opt.Addr, "db", opt.DB)
	return c, nil
}

// NewClientFromRedis ใช้ใน test กับ miniredis
func NewClientFromRedis(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

func key(parts ...string) string {
	return strings.Join(parts, ":")
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

func (c *Client) setFlag(ctx context.Context, k string, ttl time.Duration) error {
	return c.rdb.Set(ctx, k, "1", ttl).Err()
}

func (c *Client) hasKey(ctx context.Context, k string) (bool, error) {
	n, err := c.rdb.Exists(ctx, k).Result()
	return n > 0, err
}

func (c *Client) getInt(ctx context.Context, k string) (int64, error) {
	n, err := c.rdb.Get(ctx, k).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// setJSONIfCounter เขียน k เฉพาะเมื่อ counterKey ยังเท่ากับ expected (WATCH/MULTI)
// คืน (false, nil) ถ้า counter เปลี่ยนไปแล้ว
func (c *Client) setJSONIfCounter(ctx context.Context, k, counterKey string, expected int64, value interface{}, ttl time.Duration) (bool, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return false, err
	}

	written := false
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, counterKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != expected {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, data, ttl)
			return nil
		})
		if err == nil {
			written = true
		}
		return err
	}, counterKey)

	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	return written, err
}

// delAndIncr ลบ k และเพิ่ม counterKey ใน transaction เดียว
func (c *Client) delAndIncr(ctx context.Context, k, counterKey string, counterTTL time.Duration) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, k)
		pipe.Incr(ctx, counterKey)
		pipe.Expire(ctx, counterKey, counterTTL)
		return nil
	})
	return err
}

// getJSON คืน (false, nil) เมื่อไม่มี key
func (c *Client) getJSON(ctx context.Context, k string, target interface{}) (bool, error) {
	data, err := c.rdb.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(data, target)
}
