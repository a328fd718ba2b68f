package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"campus-gate/backend/config"
)

// Client Redis 客户端封装
// 当前用于刷卡去重锁；后续可扩展缓存等场景
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── 刷卡去重锁 ──
//
// 同一学生在同一天同一时限内的并发刷卡要求串行处理（先读既有记录再判定），
// 这里用 SETNX + TTL 在数据库事务之外先挡掉并发重复请求。
// Redis 不可用时调用方退化为仅依赖数据库行锁。

const swipeLockPrefix = "attend:swipe:"

// AcquireSwipeLock 获取刷卡锁，成功返回 true
// key 粒度为 (学籍番号, 日期, 时限)；ttl 应覆盖一次判定往返
func (c *Client) AcquireSwipeLock(ctx context.Context, studentID int, date string, period int16, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("%s%d:%s:%d", swipeLockPrefix, studentID, date, period)
	return c.rdb.SetNX(ctx, key, "1", ttl).Result()
}

// ReleaseSwipeLock 释放刷卡锁
func (c *Client) ReleaseSwipeLock(ctx context.Context, studentID int, date string, period int16) error {
	key := fmt.Sprintf("%s%d:%s:%d", swipeLockPrefix, studentID, date, period)
	return c.rdb.Del(ctx, key).Err()
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
