package services

import (
	"context"
	"encoding/hex"
	"time"

	"jielong/internal/models"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"
	"gorm.io/gorm"
)

// DuplicateWindow 同一用户相同标题的作品在此时间内只能创建一次
const DuplicateWindow = 10 * time.Second

// DuplicateGuard 防止客户端重试导致的重复创建，属于启发式防护而非唯一约束
type DuplicateGuard interface {
	Seen(ctx context.Context, ownerID, title string, now time.Time) (bool, error)
}

// DBGuard 查询窗口期内是否已有同名作品
type DBGuard struct {
	db *gorm.DB
}

func NewDBGuard(db *gorm.DB) *DBGuard {
	return &DBGuard{db: db}
}

func (g *DBGuard) Seen(ctx context.Context, ownerID, title string, now time.Time) (bool, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&models.Work{}).
		Where("creator_id = ? AND title = ? AND created_at > ?", ownerID, title, now.Add(-DuplicateWindow)).
		Count(&count).Error
	return count > 0, err
}

// RedisGuard 用 SET NX EX 原子占位，多实例部署时也能拦截并发的重复提交
type RedisGuard struct {
	client *redis.Client
}

func NewRedisGuard(client *redis.Client) *RedisGuard {
	return &RedisGuard{client: client}
}

func (g *RedisGuard) Seen(ctx context.Context, ownerID, title string, _ time.Time) (bool, error) {
	ok, err := g.client.SetNX(ctx, duplicateKey(ownerID, title), 1, DuplicateWindow).Result()
	if err != nil {
		return false, err
	}
	return !ok, nil
}

// duplicateKey 标题取哈希，key 长度固定
func duplicateKey(ownerID, title string) string {
	sum := blake2b.Sum256([]byte(title))
	return "jielong:dup:" + ownerID + ":" + hex.EncodeToString(sum[:16])
}
