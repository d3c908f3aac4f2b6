package db

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"jielong/internal/config"
	"jielong/internal/models"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init 连接数据库、自动迁移并写入初始屏蔽词
func Init(cfg config.Config) error {
	conn, err := Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	zap.L().Info("Database connection established", zap.String("driver", cfg.DBDriver))

	if err := Migrate(conn); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	zap.L().Info("Database migration completed")

	if cfg.BlacklistSeedFile != "" {
		if err := SeedBlacklist(conn, cfg.BlacklistSeedFile); err != nil {
			// 种子数据失败不阻止启动
			zap.L().Warn("Failed to seed blacklist", zap.Error(err))
		}
	}

	DB = conn
	return nil
}

// Open 根据驱动名打开连接，sqlite 用于本地开发和测试
func Open(driver, dsn string) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}

	switch driver {
	case "postgres", "":
		return gorm.Open(postgres.Open(dsn), gcfg)
	case "sqlite":
		return gorm.Open(sqlite.Open(sqliteDSN(dsn)), gcfg)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

// sqliteDSN 默认不启用外键，删除作品时依赖级联清理接龙与投票
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}

func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&models.Profile{},
		&models.Work{},
		&models.Contribution{},
		&models.Vote{},
		&models.BlacklistEntry{},
	)
}

type blacklistSeed struct {
	Entries []models.BlacklistEntry `yaml:"entries"`
}

// SeedBlacklist 屏蔽词表为空时从 YAML 文件导入
func SeedBlacklist(conn *gorm.DB, path string) error {
	var count int64
	if err := conn.Model(&models.BlacklistEntry{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		zap.L().Info("Blacklist already seeded, skipping")
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	entries, err := ParseBlacklistSeed(raw)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	if err := conn.Create(&entries).Error; err != nil {
		return err
	}
	zap.L().Info("Blacklist seeded", zap.Int("entries", len(entries)))
	return nil
}

// ParseBlacklistSeed 解析种子文件，忽略空白条目
func ParseBlacklistSeed(raw []byte) ([]models.BlacklistEntry, error) {
	var seed blacklistSeed
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil, err
	}
	entries := make([]models.BlacklistEntry, 0, len(seed.Entries))
	for _, e := range seed.Entries {
		if e.Pattern == "" {
			continue
		}
		entries = append(entries, models.BlacklistEntry{Pattern: e.Pattern, IsRegex: e.IsRegex})
	}
	if len(seed.Entries) > 0 && len(entries) == 0 {
		return nil, errors.New("seed file has no usable entries")
	}
	return entries, nil
}
