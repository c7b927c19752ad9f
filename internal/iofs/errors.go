package iofs

import (
	"fmt"
	"runtime"

	"github.com/fayvad/fbs/pkg/errcode"
	"github.com/gnames/gn"
)

func CreateDirError(dir string, err error) error {
	msg := "Cannot create %s"
	vars := []any{dir}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CreateDirError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot create directory: %w",
			fn.Name(), err),
	}
}

func CopyFileError(file string, err error) error {
	msg := "Cannot write config file to %s"
	vars := []any{file}
	return &gn.Error{
		Code: errcode.CopyFileError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot write %s: %w", file, err),
	}
}

func ReadFileError(path string, err error) error {
	msg := "Cannot read <em>%s</em>"
	vars := []any{path}
	return &gn.Error{
		Code: errcode.ReadFileError,
		Err:  fmt.Errorf("cannot read %s: %w", path, err),
		Msg:  msg,
		Vars: vars,
	}
}

// RulesLoadError is returned when rule tables cannot be decoded or
// refer to unknown entries.
func RulesLoadError(source string, err error) error {
	msg := `Cannot load rules from <em>%s</em>

Compare the file with the rules.yaml template`
	return &gn.Error{
		Code: errcode.RulesLoadError,
		Msg:  msg,
		Vars: []any{source},
		Err:  fmt.Errorf("rules %s: %w", source, err),
	}
}
