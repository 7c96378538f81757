package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDebugLoggerKeepsCurrentOnError(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	cur := zap.New(core)

	got := debugLogger(cur, func(bool) (*zap.Logger, error) { return nil, errors.New("no sink") })
	assert.Same(t, cur, got)
	assert.Equal(t, 1, logs.FilterMessage("debug logger unavailable, keeping default").Len())
}

func TestDebugLoggerSwaps(t *testing.T) {
	next := zap.NewNop()
	got := debugLogger(zap.NewNop(), func(debug bool) (*zap.Logger, error) {
		assert.True(t, debug)
		return next, nil
	})
	assert.Same(t, next, got)
}
