package testutil

import (
	"io"

	"github.com/dtroode/blog-server/internal/logger"
)

func MakeNoopLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, 0)
}
