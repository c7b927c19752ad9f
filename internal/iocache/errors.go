package iocache

import (
	"fmt"

	"github.com/fayvad/fbs/pkg/errcode"
	"github.com/gnames/gn"
)

// ConnectionError is returned when Redis does not answer a ping.
func ConnectionError(addr string, err error) error {
	msg := `Cannot connect to discovery cache at <em>%s</em>

Remove cache.redis_addr from configuration to run without cache`
	return &gn.Error{
		Code: errcode.CacheError,
		Msg:  msg,
		Vars: []any{addr},
		Err:  fmt.Errorf("connect to redis %s: %w", addr, err),
	}
}

// OperationError is returned when a cache command fails.
func OperationError(op, key string, err error) error {
	msg := "Discovery cache failed to %s <em>%s</em>"
	return &gn.Error{
		Code: errcode.CacheError,
		Msg:  msg,
		Vars: []any{op, key},
		Err:  fmt.Errorf("cache %s %s: %w", op, key, err),
	}
}
