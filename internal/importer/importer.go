package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"inventory_tracker/internal/model"
	"inventory_tracker/internal/store"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Outcome 单行导入的处理结果。
type Outcome int

const (
	OutcomeInserted Outcome = iota // 名称首次出现，直接插入
	OutcomeReplaced                // 新行时间不早于已有记录，删除旧记录后重建
	OutcomeKept                    // 已有记录更新，忽略新行
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInserted:
		return "inserted"
	case OutcomeReplaced:
		return "replaced"
	case OutcomeKept:
		return "kept"
	default:
		return "unknown"
	}
}

// Result 汇总一次导入。
type Result struct {
	RunID    uuid.UUID
	Rows     int
	Inserted int
	Replaced int
	Kept     int
}

func (r *Result) record(o Outcome) {
	switch o {
	case OutcomeInserted:
		r.Inserted++
	case OutcomeReplaced:
		r.Replaced++
	case OutcomeKept:
		r.Kept++
	}
}

// Importer 把规范化 CSV 按“名称 + 最近更新时间”规则写入库存表。
type Importer struct {
	store *store.Store
	log   *zap.Logger
}

func New(s *store.Store, log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{store: s, log: log}
}

// ImportFile 读取规范化 CSV 并导入。任意一行格式错误都会返回 *model.ImportError，
// 且不会写入任何记录。
func (im *Importer) ImportFile(ctx context.Context, path string) (Result, error) {
	rows, err := readCanonical(path)
	if err != nil {
		return Result{}, err
	}
	products, err := ToProducts(rows)
	if err != nil {
		im.log.Error("import aborted", zap.String("path", path), zap.Error(err))
		return Result{}, err
	}
	return im.Apply(ctx, products)
}

// Apply 在单个事务内依次对每条记录执行 Upsert。
func (im *Importer) Apply(ctx context.Context, products []model.Product) (Result, error) {
	res := Result{RunID: uuid.New(), Rows: len(products)}
	log := im.log.With(zap.String("run_id", res.RunID.String()))

	err := im.store.Transaction(ctx, func(tx *store.Store) error {
		for i := range products {
			p := products[i]
			outcome, err := Upsert(ctx, tx, &p)
			if err != nil {
				return fmt.Errorf("upsert %q: %w", p.Name, err)
			}
			res.record(outcome)
			log.Debug("row imported",
				zap.String("name", p.Name),
				zap.Stringer("outcome", outcome),
				zap.Uint("product_id", p.ID),
			)
		}
		return nil
	})
	if err != nil {
		log.Error("import failed", zap.Error(err))
		return Result{}, err
	}

	log.Info("import finished",
		zap.Int("rows", res.Rows),
		zap.Int("inserted", res.Inserted),
		zap.Int("replaced", res.Replaced),
		zap.Int("kept", res.Kept),
	)
	return res, nil
}

// Upsert 先按名称查找再分支：不存在则插入；incoming 不早于已有记录则删除并重建
// （时间相同时 incoming 胜出）；否则保留已有记录。
func Upsert(ctx context.Context, s *store.Store, incoming *model.Product) (Outcome, error) {
	existing, found, err := s.FindByName(ctx, incoming.Name)
	if err != nil {
		return 0, err
	}
	if !found {
		if err := s.Create(ctx, incoming); err != nil {
			return 0, err
		}
		return OutcomeInserted, nil
	}
	if !incoming.NewerThanOrEqual(existing) {
		*incoming = existing
		return OutcomeKept, nil
	}
	if err := s.Replace(ctx, existing, incoming); err != nil {
		return 0, err
	}
	return OutcomeReplaced, nil
}

// ToProducts 将规范化行转换为商品记录，行号从 1 开始（不含表头）。
func ToProducts(rows []*model.CanonicalRow) ([]model.Product, error) {
	out := make([]model.Product, 0, len(rows))
	for i, r := range rows {
		p, err := toProduct(*r)
		if err != nil {
			return nil, &model.ImportError{Line: i + 1, Err: err}
		}
		out = append(out, p)
	}
	return out, nil
}

func toProduct(r model.CanonicalRow) (model.Product, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return model.Product{}, errors.New("product_name is required")
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(r.Quantity))
	if err != nil {
		return model.Product{}, fmt.Errorf("invalid product_quantity %q", r.Quantity)
	}
	price, err := strconv.ParseInt(strings.TrimSpace(r.Price), 10, 64)
	if err != nil {
		return model.Product{}, fmt.Errorf("invalid product_price %q", r.Price)
	}
	updated, err := time.ParseInLocation(model.TimestampLayout, strings.TrimSpace(r.DateUpdated), time.Local)
	if err != nil {
		return model.Product{}, fmt.Errorf("invalid date_updated %q", r.DateUpdated)
	}
	return model.Product{
		Name:        name,
		Quantity:    quantity,
		Price:       price,
		DateUpdated: updated,
	}, nil
}

func readCanonical(path string) ([]*model.CanonicalRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &model.StorageError{Op: "open " + path, Err: err}
	}
	defer f.Close()

	var rows []*model.CanonicalRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, nil
		}
		return nil, &model.ImportError{Err: fmt.Errorf("read %s: %w", path, err)}
	}
	return rows, nil
}
