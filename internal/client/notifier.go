package client

import "go.uber.org/zap"

// Notifier 向用户展示操作结果（每次变更操作恰好一次）
type Notifier interface {
	Success(message string)
	Error(message string)
}

// LogNotifier 将通知写入日志
type LogNotifier struct {
	log *zap.Logger
}

// NewLogNotifier 创建日志通知器
func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Success(message string) {
	n.log.Info(message)
}

func (n *LogNotifier) Error(message string) {
	n.log.Warn(message)
}
