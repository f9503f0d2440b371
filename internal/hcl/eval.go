package hcl

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// evalContext returns the variables and functions settings expressions may
// use.
func (l *Loader) evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"tool": cty.ObjectVal(map[string]cty.Value{
				"name":    cty.StringVal(l.tool),
				"version": cty.StringVal(l.version),
			}),
		},
		Functions: map[string]function.Function{
			"env": l.envFunc(),
		},
	}
}

func (l *Loader) envFunc() function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: "name", Type: cty.String},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			return cty.StringVal(l.getenv(args[0].AsString())), nil
		},
	})
}
