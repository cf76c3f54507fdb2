package setup

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"thoughts-board/internal/domain"
)

// MigrateDB 使用传入的 GORM DB 执行所有迁移，返回错误以便调用者知道迁移是否成功。
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("cannot migrate database with nil DB connection")
	}

	// MySQL 默认排序规则大小写不敏感，users 表需要二进制排序，
	// 因此用自定义 SQL 建表；其他方言 (测试中的 SQLite) 直接 AutoMigrate。
	if db.Dialector.Name() == "mysql" {
		if err := migrateUsersTable(db); err != nil {
			return fmt.Errorf("failed to migrate users table: %w", err)
		}
	} else if err := db.AutoMigrate(&domain.User{}); err != nil {
		return fmt.Errorf("failed to auto-migrate users table: %w", err)
	}

	if err := db.AutoMigrate(&domain.Thought{}); err != nil {
		logrus.Errorf("Failed to auto-migrate thoughts table: %v", err)
		return fmt.Errorf("failed to auto-migrate thoughts table: %w", err)
	}
	if db.Dialector.Name() == "mysql" {
		if err := alignAuthorCollation(db); err != nil {
			return fmt.Errorf("failed to migrate thoughts.author collation: %w", err)
		}
	}
	if err := backfillSearchText(db); err != nil {
		return fmt.Errorf("failed to backfill thoughts.search_text: %w", err)
	}

	logrus.Info("Database migration completed successfully")
	return nil
}

// migrateUsersTable 在 users 表不存在时创建它
func migrateUsersTable(db *gorm.DB) error {
	var count int64
	err := db.Raw("SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = 'users'").
		Scan(&count).Error
	if err != nil {
		return fmt.Errorf("failed to inspect information_schema: %w", err)
	}
	if count > 0 {
		logrus.Debug("Users table already exists, skipping creation")
		return nil
	}
	return createUsersTable(db)
}

// createUsersTable 创建 users 表；username、email、access_token 都按字节精确比较
func createUsersTable(db *gorm.DB) error {
	sql := `
	CREATE TABLE users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(191) COLLATE utf8mb4_bin NOT NULL,
		email VARCHAR(191) COLLATE utf8mb4_bin NOT NULL,
		password TEXT NOT NULL,
		access_token VARCHAR(191) COLLATE utf8mb4_bin NOT NULL,
		created_at DATETIME(3),
		updated_at DATETIME(3),
		UNIQUE INDEX idx_username (username),
		UNIQUE INDEX idx_email (email),
		UNIQUE INDEX idx_access_token (access_token)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_general_ci;
	`
	if err := db.Exec(sql).Error; err != nil {
		logrus.Errorf("Failed to create users table: %v", err)
		return fmt.Errorf("failed to create users table: %w", err)
	}
	logrus.Info("Users table created successfully")
	return nil
}

// alignAuthorCollation 让 thoughts.author 与 users.username 一样按字节比较，
// 使 "WHERE author = ?" 与服务层的精确比较一致
func alignAuthorCollation(db *gorm.DB) error {
	var collation string
	err := db.Raw("SELECT COLLATION_NAME FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = 'thoughts' AND column_name = 'author'").
		Scan(&collation).Error
	if err != nil {
		return fmt.Errorf("failed to inspect information_schema: %w", err)
	}
	if collation == "utf8mb4_bin" {
		return nil
	}
	if err := db.Exec("ALTER TABLE thoughts MODIFY author VARCHAR(191) COLLATE utf8mb4_bin NOT NULL").Error; err != nil {
		return err
	}
	logrus.Info("thoughts.author switched to utf8mb4_bin")
	return nil
}

// backfillSearchText 为 search_text 列出现之前写入的记录补齐折叠后的消息
func backfillSearchText(db *gorm.DB) error {
	var batch []domain.Thought
	filled := 0
	result := db.Where("search_text = ?", "").FindInBatches(&batch, 200, func(_ *gorm.DB, _ int) error {
		for _, th := range batch {
			err := db.Model(&domain.Thought{}).Where("id = ?", th.ID).
				UpdateColumn("search_text", domain.FoldMessage(th.Message)).Error
			if err != nil {
				return err
			}
			filled++
		}
		return nil
	})
	if result.Error != nil {
		return result.Error
	}
	if filled > 0 {
		logrus.WithField("count", filled).Info("Backfilled thoughts.search_text")
	}
	return nil
}
