package database

import (
	"github.com/glebarez/sqlite"
	"github.com/novelhelper/backend/internal/model"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func InitDB(dbType, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch dbType {
	case "mysql":
		dialector = mysql.Open(dsn)
	default:
		// 使用 github.com/glebarez/sqlite 驱动
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// sqlite 默认关闭外键约束，级联删除依赖它。PRAGMA 只对单个连接
	// 生效，因此把连接池收紧到一个连接，:memory: 库也依赖这一点。
	if dbType != "mysql" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, err
		}
	}

	if err := db.AutoMigrate(&model.Document{}, &model.Branch{}, &model.Version{}, &model.Section{}); err != nil {
		return nil, err
	}
	return db, nil
}
