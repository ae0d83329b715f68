package mysql

import (
	"errors"
	"fmt"
	"time"

	"Cerezo_Blog/internal/model"
	"Cerezo_Blog/internal/pkg"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Options struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
	LogLevel     logger.LogLevel
}

// InitDB 打开 MySQL 连接；TranslateError 让唯一键冲突变成 gorm.ErrDuplicatedKey
func InitDB(opts Options) (*gorm.DB, error) {
	if opts.LogLevel == 0 {
		opts.LogLevel = logger.Warn
	}
	db, err := gorm.Open(mysql.Open(opts.DSN), &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true, // 删除用户后保留其发布的内容
		Logger:                                   logger.Default.LogMode(opts.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("mysql open: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// AutoMigrate 建表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Post{},
		&model.Comment{},
		&model.Like{},
		&model.Book{},
		&model.Event{},
		&model.EventMedia{},
		&model.EventAttendee{},
		&model.EngagementOutbox{},
	)
}

// translate 把 gorm 错误映射为业务错误
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkg.ErrNotFound.With(what + " not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return pkg.ErrConflict.Wrap(err)
	default:
		return err
	}
}

const decrementFloor = "CASE WHEN %[1]s > 0 THEN %[1]s - 1 ELSE 0 END"

func decrExpr(col string) any {
	return gorm.Expr(fmt.Sprintf(decrementFloor, col))
}

func incrExpr(col string) any {
	return gorm.Expr(col + " + 1")
}
