package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	DefaultInputCSV   = "inventory.csv"
	DefaultCleanedCSV = "cleaned_inventory.csv"
	DefaultDBPath     = "inventory.db"
	DefaultBackupCSV  = "backup.csv"
	DefaultLogPath    = "inventory.log"
)

// AppConfig 聚合运行时配置。工具不读取环境变量与命令行参数，
// 所有文件名固定，只随基准目录变化。
type AppConfig struct {
	BaseDir string

	InputCSV   string
	CleanedCSV string
	DBPath     string
	BackupCSV  string

	// 日志写入文件，避免与交互菜单混在终端里
	LogPath  string
	LogLevel string
	// gorm 自带日志级别：silent/error/warn/info
	DBLogLevel string
}

// Load 以 baseDir 为基准解析固定文件名并校验；baseDir 为空时使用当前目录。
func Load(baseDir string) (AppConfig, error) {
	if strings.TrimSpace(baseDir) == "" {
		wd, err := os.Getwd()
		if err != nil {
			return AppConfig{}, fmt.Errorf("resolve working directory: %w", err)
		}
		baseDir = wd
	}

	cfg := AppConfig{
		BaseDir:    baseDir,
		InputCSV:   filepath.Join(baseDir, DefaultInputCSV),
		CleanedCSV: filepath.Join(baseDir, DefaultCleanedCSV),
		DBPath:     filepath.Join(baseDir, DefaultDBPath),
		BackupCSV:  filepath.Join(baseDir, DefaultBackupCSV),
		LogPath:    filepath.Join(baseDir, DefaultLogPath),
		LogLevel:   "info",
		DBLogLevel: "silent",
	}
	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate 检查字段完整性，供 Load 与手工构造的配置共用。
func (c AppConfig) Validate() error {
	if c.InputCSV == "" {
		return fmt.Errorf("InputCSV must not be empty")
	}
	if c.CleanedCSV == "" {
		return fmt.Errorf("CleanedCSV must not be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DBPath must not be empty")
	}
	if c.BackupCSV == "" {
		return fmt.Errorf("BackupCSV must not be empty")
	}
	if filepath.Clean(c.InputCSV) == filepath.Clean(c.CleanedCSV) {
		return fmt.Errorf("CleanedCSV must differ from InputCSV")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid LogLevel %q", c.LogLevel)
	}
	switch c.DBLogLevel {
	case "silent", "error", "warn", "info":
	default:
		return fmt.Errorf("invalid DBLogLevel %q", c.DBLogLevel)
	}
	return nil
}
