package database

import (
	"Parchment/internal/api/config"
	"Parchment/internal/model"
	"Parchment/internal/pkg/logger"
	"fmt"
	log "log/slog"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// NewGormDB 初始化并返回 *gorm.DB 实例，处理连接池配置
func NewGormDB(cfg *config.DBConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger:      logger.NewGormLogger(time.Duration(cfg.SlowThreshold) * time.Millisecond),
		PrepareStmt: true,
		// users/articles 等表由其他服务维护，不在这里建外键
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	sqlDB.SetMaxOpenConns(cfg.MaxOpen)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Minute)

	if err = sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database connection check failed: %w", err)
	}

	if cfg.AutoMigrate {
		if err = Migrate(db); err != nil {
			return nil, err
		}
	}

	log.Info("Database connection established successfully.")
	return db, nil
}

// Migrate 同步本服务读写的表结构
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&model.Article{}, "Categories", &model.ArticleCategory{}); err != nil {
		return fmt.Errorf("setup join table failed: %w", err)
	}
	err := db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Article{},
		&model.ArticleCategory{},
		&model.UserFollow{},
		&model.UserList{},
		&model.UserListArticle{},
		&model.ArticleViewCounter{},
		&model.AuthorFootprint{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	return nil
}
