package requirements

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fayvad/fbs/pkg/errcode"
	"github.com/gnames/gn"
)

// MalformedRequestError is returned when a request has neither industry,
// features nor direct modules.
func MalformedRequestError() error {
	msg := `Requirements need one of <em>industry</em>, <em>features</em> or <em>direct</em>`
	return &gn.Error{
		Code: errcode.RequirementsMalformedError,
		Msg:  msg,
		Err:  errors.New("malformed requirements request"),
	}
}

// UnknownIndustryError is returned for an industry absent from rules.
func UnknownIndustryError(industry string, known []string) error {
	msg := "Unknown industry <em>%s</em>, known industries: %s"
	return &gn.Error{
		Code: errcode.UnknownIndustryError,
		Msg:  msg,
		Vars: []any{industry, strings.Join(known, ", ")},
		Err:  fmt.Errorf("unknown industry %q", industry),
	}
}
