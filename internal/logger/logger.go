package logger

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config 日志配置
type Config struct {
	Level string
	// Path 为空时写 stderr
	Path string
}

// New 构建写入 cfg.Path 的 JSON 日志，每行带本进程的 session id，
// 便于在同一个日志文件里区分不同运行。
func New(cfg Config) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	out := "stderr"
	if cfg.Path != "" {
		out = cfg.Path
	}

	prodConfig := zap.NewProductionConfig()
	prodConfig.Level = zap.NewAtomicLevelAt(level)
	prodConfig.EncoderConfig.TimeKey = "timestamp"
	prodConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	prodConfig.OutputPaths = []string{out}
	prodConfig.ErrorOutputPaths = []string{"stderr"}
	prodConfig.Sampling = nil

	return prodConfig.Build(zap.Fields(
		zap.String("service", "inventory"),
		zap.String("session", uuid.NewString()),
	))
}
