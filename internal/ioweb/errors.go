package ioweb

import (
	"fmt"

	"github.com/fayvad/fbs/pkg/errcode"
	"github.com/gnames/gn"
)

// ServerError is returned when the REST server cannot listen.
func ServerError(addr string, err error) error {
	msg := "Cannot start REST server on <em>%s</em>"
	return &gn.Error{
		Code: errcode.ServerError,
		Msg:  msg,
		Vars: []any{addr},
		Err:  fmt.Errorf("listen on %s: %w", addr, err),
	}
}
