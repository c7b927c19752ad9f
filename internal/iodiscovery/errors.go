package iodiscovery

import (
	"fmt"

	"github.com/fayvad/fbs/pkg/errcode"
	"github.com/gnames/gn"
)

// UnknownKindError is returned for a discovery type that does not exist.
func UnknownKindError(kind string) error {
	msg := `Unknown discovery type <em>%s</em>

Valid types are: models, workflows, bi_features`
	return &gn.Error{
		Code: errcode.UnknownDiscoveryTypeError,
		Msg:  msg,
		Vars: []any{kind},
		Err:  fmt.Errorf("unknown discovery type %q", kind),
	}
}
