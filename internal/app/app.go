package app

import (
	"context"
	"fmt"
	"io"

	"inventory_tracker/internal/backup"
	"inventory_tracker/internal/config"
	"inventory_tracker/internal/importer"
	"inventory_tracker/internal/normalize"
	"inventory_tracker/internal/shell"
	"inventory_tracker/internal/store"

	"go.uber.org/zap"
)

// Run 启动流程：打开库存库 → 规范化原始 CSV → 导入 → 交互菜单。
// 规范化或导入失败时直接返回错误，不进入菜单。
func Run(ctx context.Context, cfg config.AppConfig, in io.Reader, out io.Writer, log *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}

	s, err := store.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer s.Close()

	if _, err := normalize.New(log).File(ctx, cfg.InputCSV, cfg.CleanedCSV); err != nil {
		return fmt.Errorf("normalize %s: %w", cfg.InputCSV, err)
	}
	res, err := importer.New(s, log).ImportFile(ctx, cfg.CleanedCSV)
	if err != nil {
		return fmt.Errorf("import %s: %w", cfg.CleanedCSV, err)
	}
	fmt.Fprintf(out, "Loaded %d rows from %s (%d new, %d replaced, %d kept)\n",
		res.Rows, cfg.InputCSV, res.Inserted, res.Replaced, res.Kept)

	exporter := backup.New(s, cfg.BackupCSV, log)
	return shell.New(s, exporter, shell.Options{In: in, Out: out, Logger: log}).Run(ctx)
}
