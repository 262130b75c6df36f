package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	// TimestampLayout 是规范化 CSV 与备份 CSV 使用的时间格式。
	TimestampLayout = "2006-01-02 15:04:05"
	// SourceDateLayout 是原始导出文件中的日期格式（M/D/YYYY）。
	SourceDateLayout = "1/2/2006"
	// DisplayLayout 用于交互式查看。
	DisplayLayout = "Jan 02 2006 15:04:05"
)

// Product 库存商品：名称唯一，价格单位为分。
type Product struct {
	ID          uint      `gorm:"column:product_id;primaryKey" json:"product_id"`
	Name        string    `gorm:"column:product_name;size:255;uniqueIndex;not null" json:"product_name"`
	Quantity    int       `gorm:"column:product_quantity;not null;default:0" json:"product_quantity"`
	Price       int64     `gorm:"column:product_price;not null" json:"product_price"` // 单位：分
	DateUpdated time.Time `gorm:"column:date_updated;not null" json:"date_updated"`
}

func (Product) TableName() string { return "product" }

// BeforeCreate 在未显式指定时把 date_updated 设为创建时间。
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.DateUpdated.IsZero() {
		p.DateUpdated = tx.NowFunc()
	}
	return nil
}

// NewerThanOrEqual 判断 upsert 时 p 是否胜出，时间相同也算 p 胜。
func (p Product) NewerThanOrEqual(other Product) bool {
	return !p.DateUpdated.Before(other.DateUpdated)
}
