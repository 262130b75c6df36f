package backup

import (
	"context"
	"os"

	"inventory_tracker/internal/model"
	"inventory_tracker/internal/store"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"
)

// Row 备份 CSV 的一行，列顺序即文件列顺序。
type Row struct {
	ID          uint   `csv:"product_id"`
	Name        string `csv:"product_name"`
	Price       int64  `csv:"product_price"`
	Quantity    int    `csv:"product_quantity"`
	DateUpdated string `csv:"date_updated"`
}

func toRow(p model.Product) *Row {
	return &Row{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Quantity:    p.Quantity,
		DateUpdated: p.DateUpdated.Format(model.TimestampLayout),
	}
}

// Exporter 将库存表完整导出到固定文件，每次覆盖。
type Exporter struct {
	store *store.Store
	path  string
	log   *zap.Logger
}

func New(s *store.Store, path string, log *zap.Logger) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{store: s, path: path, log: log}
}

// Path 返回备份文件路径。
func (e *Exporter) Path() string { return e.path }

// Export 写出全部记录并返回行数。
func (e *Exporter) Export(ctx context.Context) (int, error) {
	products, err := e.store.All(ctx)
	if err != nil {
		return 0, err
	}
	rows := make([]*Row, 0, len(products))
	for _, p := range products {
		rows = append(rows, toRow(p))
	}

	f, err := os.Create(e.path)
	if err != nil {
		return 0, &model.StorageError{Op: "create " + e.path, Err: err}
	}
	defer f.Close()
	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return 0, &model.StorageError{Op: "write " + e.path, Err: err}
	}
	if err := f.Close(); err != nil {
		return 0, &model.StorageError{Op: "close " + e.path, Err: err}
	}

	e.log.Info("backup written", zap.String("path", e.path), zap.Int("rows", len(rows)))
	return len(rows), nil
}
