// Package goroutine запускает фоновые функции процесса с перехватом panic.
package goroutine

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/sirupsen/logrus"

	"github.com/portfolio-admin/skills-backend/internal/logger"
)

// GoWithContext запускает fn с контекстом в отдельной горутине. Panic логируется
// с именем задачи и стеком, процесс продолжает работу.
func GoWithContext(ctx context.Context, name string, fn func(context.Context)) {
	go func() {
		defer recoverPanic(name)
		fn(ctx)
	}()
}

func recoverPanic(name string) {
	if r := recover(); r != nil {
		logger.Log.WithFields(logrus.Fields{
			"task":  name,
			"panic": fmt.Sprint(r),
			"stack": string(debug.Stack()),
		}).Error("goroutine: panic перехвачен")
	}
}
