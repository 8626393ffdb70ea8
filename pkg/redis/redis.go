package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fullahead747-jpg/SeaCrewManager-sub002/config"
)

// Client Redis 客户端封装
// 当前承担三类职责：Token 黑名单、接口限流窗口、到期提醒已发标记
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

// ── Token 黑名单 ──

const blacklistPrefix = "token:blacklist:"

// BlacklistToken 将 JWT ID 加入黑名单，TTL 与 Token 剩余有效期一致
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // Token 已过期，无需加入黑名单
	}
	return c.rdb.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsBlacklisted 检查 JWT ID 是否在黑名单中
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ── 接口限流（滑动窗口简化为固定窗口计数）──

// CheckRateLimit 对 key 做窗口计数限流，返回本次请求是否放行
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	n, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		// 窗口首个请求，设置过期
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return n <= int64(limit), nil
}

// ── 到期提醒已发标记 ──
//
// 提醒按 (类别, 记录, 天数标记) 只发一次；同日重复扫描依赖
// SETNX 语义去重。TTL 48 小时覆盖跨日界的重复观测窗口。

const reminderSentPrefix = "reminder:sent:"
const reminderMarkTTL = 48 * time.Hour

// MarkReminderSent 原子地写入已发标记，返回是否首次写入。
// 返回 false 表示该 (kind, recordID, dayMark) 已发过，调用方应跳过。
func (c *Client) MarkReminderSent(ctx context.Context, kind, recordID string, dayMark int) (bool, error) {
	key := fmt.Sprintf("%s%s:%s:%d", reminderSentPrefix, kind, recordID, dayMark)
	return c.rdb.SetNX(ctx, key, "1", reminderMarkTTL).Result()
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
