package logger

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/sirupsen/logrus"
)

// CallerKey 适配器写入的调用位置字段，CustomFormatter 优先使用它
const CallerKey = "caller"

const kratosLogPkg = "github.com/go-kratos/kratos/v2/log."

var _ log.Logger = (*kratosLogger)(nil)

// kratosLogger 将 kratos 的键值日志转发到 logrus
type kratosLogger struct {
	log *logrus.Logger
}

// NewKratosLogger 基于 logrus 实例创建 kratos log.Logger，nil 时使用全局 Log
func NewKratosLogger(l *logrus.Logger) log.Logger {
	if l == nil {
		l = Log
	}
	return &kratosLogger{log: l}
}

// Log 实现 log.Logger 接口
func (k *kratosLogger) Log(level log.Level, keyvals ...interface{}) error {
	if len(keyvals) == 0 {
		return nil
	}
	if len(keyvals)%2 != 0 {
		keyvals = append(keyvals, "KEYVALS UNPAIRED")
	}

	var msg string
	fields := make(logrus.Fields, len(keyvals)/2)
	for i := 0; i < len(keyvals); i += 2 {
		key := fmt.Sprint(keyvals[i])
		if key == log.DefaultMessageKey {
			msg = fmt.Sprint(keyvals[i+1])
			continue
		}
		fields[key] = keyvals[i+1]
	}

	if caller := callSite(); caller != "" {
		fields[CallerKey] = caller
	}

	entry := k.log.WithFields(fields)
	switch level {
	case log.LevelDebug:
		entry.Debug(msg)
	case log.LevelWarn:
		entry.Warn(msg)
	case log.LevelError:
		entry.Error(msg)
	case log.LevelFatal:
		// kratos 的 Fatal 由 Helper 自行退出，这里只记录
		entry.Log(logrus.FatalLevel, msg)
	default:
		entry.Info(msg)
	}
	return nil
}

// callSite 跳过适配器和 kratos log 包自身的栈帧，返回业务代码的 file:line
func callSite() string {
	pcs := make([]uintptr, 16)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		if !strings.HasPrefix(f.Function, kratosLogPkg) && !strings.HasSuffix(f.File, "/pkg/logger/kratos.go") {
			return fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
		}
		if !more {
			return ""
		}
	}
}
