// Package normalize 把原始库存导出转换为规范 CSV：价格换算为整数分，日期转为可排序的时间戳。
package normalize

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"inventory_tracker/internal/model"
	"inventory_tracker/pkg/money"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"
)

// RawRow 原始导出文件的一行，价格形如 "$12.99"，日期形如 "3/4/2021"。
type RawRow struct {
	Name        string `csv:"product_name"`
	Price       string `csv:"product_price"`
	Quantity    string `csv:"product_quantity"`
	DateUpdated string `csv:"date_updated"`
}

// ParsePrice 去掉货币符号后按十进制解析为分。
func ParsePrice(raw string) (int64, error) {
	return money.ParseDollars(raw)
}

// ParseDate 按 M/D/YYYY 解析，时间为零点。
func ParseDate(raw string) (time.Time, error) {
	return time.Parse(model.SourceDateLayout, strings.TrimSpace(raw))
}

// FormatDate 输出规范时间戳。
func FormatDate(t time.Time) string {
	return t.Format(model.TimestampLayout)
}

// Row 转换单行，line 为 1 起的数据行号，仅用于错误信息。
func Row(line int, raw RawRow) (model.CanonicalRow, error) {
	cents, err := ParsePrice(raw.Price)
	if err != nil {
		return model.CanonicalRow{}, &model.ParseError{Line: line, Field: "product_price", Value: raw.Price, Err: err}
	}
	date, err := ParseDate(raw.DateUpdated)
	if err != nil {
		return model.CanonicalRow{}, &model.ParseError{Line: line, Field: "date_updated", Value: raw.DateUpdated, Err: err}
	}
	return model.CanonicalRow{
		Name:        strings.TrimSpace(raw.Name),
		Price:       strconv.FormatInt(cents, 10),
		Quantity:    strings.TrimSpace(raw.Quantity),
		DateUpdated: FormatDate(date),
	}, nil
}

// Rows 转换全部行，遇到第一个错误即返回。
func Rows(raw []*RawRow) ([]*model.CanonicalRow, error) {
	out := make([]*model.CanonicalRow, 0, len(raw))
	for i, r := range raw {
		row, err := Row(i+1, *r)
		if err != nil {
			return nil, err
		}
		out = append(out, &row)
	}
	return out, nil
}

// Normalizer 读取原始文件并写出规范化文件。
type Normalizer struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Normalizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Normalizer{log: log}
}

// File 将 src 规范化后写入 dst，返回行数。任何解析错误都不会产生输出文件。
func (n *Normalizer) File(ctx context.Context, src, dst string) (int, error) {
	raw, err := readRaw(src)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	rows, err := Rows(raw)
	if err != nil {
		n.log.Error("normalize failed", zap.String("src", src), zap.Error(err))
		return 0, err
	}

	out, err := os.Create(dst)
	if err != nil {
		return 0, &model.StorageError{Op: "create " + dst, Err: err}
	}
	defer out.Close()
	if err := gocsv.MarshalFile(&rows, out); err != nil {
		return 0, &model.StorageError{Op: "write " + dst, Err: err}
	}
	if err := out.Close(); err != nil {
		return 0, &model.StorageError{Op: "close " + dst, Err: err}
	}

	n.log.Info("normalized inventory", zap.String("src", src), zap.String("dst", dst), zap.Int("rows", len(rows)))
	return len(rows), nil
}

func readRaw(path string) ([]*RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &model.StorageError{Op: "open " + path, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	var raw []*RawRow
	if err := gocsv.UnmarshalCSV(r, &raw); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, nil
		}
		return nil, &model.ParseError{Field: "csv", Value: path, Err: fmt.Errorf("read rows: %w", err)}
	}
	return raw, nil
}
