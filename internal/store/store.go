package store

import (
	"context"
	"errors"
	"fmt"

	"inventory_tracker/internal/config"
	"inventory_tracker/internal/model"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store 封装单个 SQLite 连接，由 app 显式创建并传给导入、交互与备份模块。
type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

// Open 连接 SQLite 文件，不存在时自动创建并建表。
func Open(ctx context.Context, cfg config.AppConfig, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(cfg.DBLogLevel)),
	})
	if err != nil {
		return nil, &model.StorageError{Op: "open", Err: err}
	}
	// 单进程单连接
	sqlDB, err := db.DB()
	if err != nil {
		return nil, &model.StorageError{Op: "open", Err: err}
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.WithContext(ctx).AutoMigrate(&model.Product{}); err != nil {
		closeDB(db)
		return nil, &model.StorageError{Op: "migrate", Err: err}
	}
	log.Debug("store opened", zap.String("path", cfg.DBPath))
	return &Store{db: db, log: log}, nil
}

// Close 释放底层连接。
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return &model.StorageError{Op: "close", Err: err}
	}
	return sqlDB.Close()
}

// Transaction 在同一事务内执行 fn，fn 返回错误时回滚。
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx, log: s.log})
	})
}

// Create 插入新记录，ID 由数据库分配。
func (s *Store) Create(ctx context.Context, p *model.Product) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return &model.StorageError{Op: "create", Err: err}
	}
	return nil
}

// FindByID 按主键查询；不存在时返回 *model.LookupError。
func (s *Store) FindByID(ctx context.Context, id uint) (model.Product, error) {
	var p model.Product
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Product{}, &model.LookupError{ID: id}
		}
		return model.Product{}, &model.StorageError{Op: "find by id", Err: err}
	}
	return p, nil
}

// FindByName 按名称查询，found=false 表示该名称尚无记录。
func (s *Store) FindByName(ctx context.Context, name string) (model.Product, bool, error) {
	var list []model.Product
	err := s.db.WithContext(ctx).
		Where("product_name = ?", name).
		Order("date_updated DESC").
		Limit(1).
		Find(&list).Error
	if err != nil {
		return model.Product{}, false, &model.StorageError{Op: "find by name", Err: err}
	}
	if len(list) == 0 {
		return model.Product{}, false, nil
	}
	return list[0], true, nil
}

// Update 原地覆盖已有记录的全部字段。
func (s *Store) Update(ctx context.Context, p *model.Product) error {
	if p.ID == 0 {
		return &model.StorageError{Op: "update", Err: fmt.Errorf("product %q has no id", p.Name)}
	}
	res := s.db.WithContext(ctx).Model(&model.Product{ID: p.ID}).
		Select("product_name", "product_quantity", "product_price", "date_updated").
		Updates(p)
	if res.Error != nil {
		return &model.StorageError{Op: "update", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return &model.LookupError{ID: p.ID}
	}
	return nil
}

// Delete 物理删除，不存在时返回 *model.LookupError。
func (s *Store) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&model.Product{}, id)
	if res.Error != nil {
		return &model.StorageError{Op: "delete", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return &model.LookupError{ID: id}
	}
	return nil
}

// Replace 删除旧记录并插入新记录（新记录获得新 ID）。
func (s *Store) Replace(ctx context.Context, old model.Product, p *model.Product) error {
	return s.Transaction(ctx, func(tx *Store) error {
		if err := tx.Delete(ctx, old.ID); err != nil {
			return err
		}
		p.ID = 0
		return tx.Create(ctx, p)
	})
}

// All 返回全部记录，按 ID 升序。
func (s *Store) All(ctx context.Context) ([]model.Product, error) {
	var list []model.Product
	if err := s.db.WithContext(ctx).Order("product_id").Find(&list).Error; err != nil {
		return nil, &model.StorageError{Op: "list", Err: err}
	}
	return list, nil
}

// Count 返回记录总数。
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.Product{}).Count(&n).Error; err != nil {
		return 0, &model.StorageError{Op: "count", Err: err}
	}
	return n, nil
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return logger.Silent
	}
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
