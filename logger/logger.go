package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"lead_scoring/config"
)

// Logger 全局日志记录器，Init 之前使用 slog 默认实现
var Logger = slog.Default()

// New 根据配置创建 slog 日志记录器
func New(cfg *config.Config) (*slog.Logger, error) {
	writer, err := openWriter(cfg.Log.Output, cfg.Log.FilePath)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{
		Level: ParseLevel(cfg.Log.Level),
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Log.Format) {
	case "json":
		handler = slog.NewJSONHandler(writer, opts)
	default:
		handler = slog.NewTextHandler(writer, opts)
	}
	return slog.New(handler), nil
}

// Init 使用配置文件初始化日志系统，并设置为 slog 默认 logger
func Init(cfg *config.Config) error {
	l, err := New(cfg)
	if err != nil {
		return err
	}
	Logger = l
	slog.SetDefault(Logger)
	return nil
}

// ParseLevel 将配置中的级别字符串转换为 slog.Level，未知值按 info 处理
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openWriter(output, filePath string) (io.Writer, error) {
	mode := strings.ToLower(output)
	if mode != "file" && mode != "both" {
		return os.Stdout, nil
	}

	// 创建日志目录
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, err
	}
	if mode == "both" {
		return io.MultiWriter(os.Stdout, file), nil
	}
	return file, nil
}

// Debug 记录调试级别的日志
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

// Info 记录信息级别的日志
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Warn 记录警告级别的日志
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

// Error 记录错误级别的日志
func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}
