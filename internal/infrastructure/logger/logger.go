package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// 全局日志实例
var (
	log   *zap.Logger
	sugar *zap.SugaredLogger
)

// Config 日志配置
type Config struct {
	// 日志级别: debug, info, warn, error, dpanic, panic, fatal
	Level string `mapstructure:"level"`
	// 是否输出到控制台
	Console bool `mapstructure:"console"`
	// 日志文件路径
	FilePath string `mapstructure:"file_path"`
	// 单个日志文件最大大小，单位MB
	MaxSize int `mapstructure:"max_size"`
	// 最多保留的旧日志文件数量
	MaxBackups int `mapstructure:"max_backups"`
	// 保留日志文件的最大天数
	MaxAge int `mapstructure:"max_age"`
	// 是否压缩旧日志文件
	Compress bool `mapstructure:"compress"`
}

func (c *Config) setDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.FilePath == "" {
		c.FilePath = "logs/talent-news.log"
	}
	if c.MaxSize == 0 {
		c.MaxSize = 100
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = 3
	}
	if c.MaxAge == 0 {
		c.MaxAge = 28
	}
}

// Init 初始化日志系统
func Init(config Config) error {
	config.setDefaults()

	level, err := zapcore.ParseLevel(config.Level)
	if err != nil {
		return fmt.Errorf("无效的日志级别 '%s': %w", config.Level, err)
	}

	if err := os.MkdirAll(filepath.Dir(config.FilePath), 0755); err != nil {
		return fmt.Errorf("创建日志目录失败: %w", err)
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   config.FilePath,
		MaxSize:    config.MaxSize,
		MaxBackups: config.MaxBackups,
		MaxAge:     config.MaxAge,
		Compress:   config.Compress,
	})
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), fileWriter, level),
	}

	// 控制台输出写到stderr，避免与命令输出混在一起
	if config.Console {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig),
			zapcore.AddSync(os.Stderr),
			level,
		))
	}

	log = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
	sugar = log.Sugar()

	Info("日志系统初始化成功", "level", config.Level, "file", config.FilePath)
	return nil
}

// Sync 同步日志缓冲区到输出
func Sync() error {
	if log != nil {
		return log.Sync()
	}
	return nil
}

// Debug 记录调试级别日志
func Debug(msg string, keysAndValues ...interface{}) {
	if sugar != nil {
		sugar.Debugw(msg, keysAndValues...)
	}
}

// Info 记录信息级别日志
func Info(msg string, keysAndValues ...interface{}) {
	if sugar != nil {
		sugar.Infow(msg, keysAndValues...)
	}
}

// Warn 记录警告级别日志
func Warn(msg string, keysAndValues ...interface{}) {
	if sugar != nil {
		sugar.Warnw(msg, keysAndValues...)
	}
}

// Error 记录错误级别日志
func Error(msg string, keysAndValues ...interface{}) {
	if sugar != nil {
		sugar.Errorw(msg, keysAndValues...)
	}
}

// With 创建附带固定字段的日志记录器
func With(keysAndValues ...interface{}) *ContextLogger {
	return &ContextLogger{fields: keysAndValues}
}

// ContextLogger 带有固定字段的日志记录器
type ContextLogger struct {
	fields []interface{}
}

func (c *ContextLogger) merge(keysAndValues []interface{}) []interface{} {
	kvs := make([]interface{}, 0, len(c.fields)+len(keysAndValues))
	kvs = append(kvs, c.fields...)
	return append(kvs, keysAndValues...)
}

// Debug 记录带固定字段的调试级别日志
func (c *ContextLogger) Debug(msg string, keysAndValues ...interface{}) {
	Debug(msg, c.merge(keysAndValues)...)
}

// Info 记录带固定字段的信息级别日志
func (c *ContextLogger) Info(msg string, keysAndValues ...interface{}) {
	Info(msg, c.merge(keysAndValues)...)
}

// Warn 记录带固定字段的警告级别日志
func (c *ContextLogger) Warn(msg string, keysAndValues ...interface{}) {
	Warn(msg, c.merge(keysAndValues)...)
}

// Error 记录带固定字段的错误级别日志
func (c *ContextLogger) Error(msg string, keysAndValues ...interface{}) {
	Error(msg, c.merge(keysAndValues)...)
}

// TimeTrack 记录函数执行时间
func TimeTrack(name string) func() {
	start := time.Now()
	return func() {
		Info("函数执行时间统计", "function", name, "duration", time.Since(start))
	}
}
