package main

import (
	"context"
	"fmt"

	"github.com/fhuszti/upload-relay-go/internal/logger"
)

// asynqLogger routes asynq's own output through the service logger.
type asynqLogger struct{}

func (asynqLogger) Debug(args ...interface{}) { logger.Debug(context.Background(), fmt.Sprint(args...)) }
func (asynqLogger) Info(args ...interface{})  { logger.Info(context.Background(), fmt.Sprint(args...)) }
func (asynqLogger) Warn(args ...interface{})  { logger.Warn(context.Background(), fmt.Sprint(args...)) }
func (asynqLogger) Error(args ...interface{}) { logger.Error(context.Background(), fmt.Sprint(args...)) }
func (asynqLogger) Fatal(args ...interface{}) {
	logger.Error(context.Background(), fmt.Sprint(args...))
	panic(fmt.Sprint(args...))
}
