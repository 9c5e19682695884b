package jobctl

import (
	"os"
	"strings"

	"github.com/flowctl/flowctl/internal/ast"
	"github.com/flowctl/flowctl/internal/expr"
	"github.com/flowctl/flowctl/internal/scope"
)

// BaseScope builds the process-environment and flow-defaults frames a
// Controller evaluates every job's expressions against: an "env" frame
// seeded from the real process environment, then flow.Defaults.Env
// evaluated against it and merged on top so declared defaults shadow the
// ambient process environment.
func BaseScope(flow *ast.Flow) (*scope.Scope, error) {
	envFrame := scope.Frame{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		envFrame[k] = expr.Value{Type: expr.TString, Str: v}
	}

	base := scope.New(scope.Frame{"env": envFrame})

	defaultsEnv := scope.Frame{}
	for k := range envFrame {
		defaultsEnv[k] = envFrame[k]
	}
	for k, e := range flow.Defaults.Env {
		v, err := e.Eval(base)
		if err != nil {
			return nil, err
		}
		defaultsEnv[k] = v
	}

	return scope.New(scope.Frame{"env": defaultsEnv}), nil
}
