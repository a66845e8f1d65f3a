package config

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	tkerrors "github.com/tracekit/tracekit/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	semverPattern       = regexp.MustCompile(`^\d+\.\d+(?:\.\d+)?(?:-[0-9A-Za-z-.]+)?(?:\+[0-9A-Za-z-.]+)?$`)
	componentNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)
	portRefPattern       = regexp.MustCompile(`^[a-z][a-z0-9_-]*\.[a-z][a-z0-9_-]*$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("semver", func(fl validator.FieldLevel) bool {
			return semverPattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("component_name", func(fl validator.FieldLevel) bool {
			return componentNamePattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("port_ref", func(fl validator.FieldLevel) bool {
			return portRefPattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})
	return validateInst
}

// Validate performs schema and cross-field validation on a decoded graph
// descriptor: struct tags first, then duplicate-name and connection
// reference checks the validator tags can't express.
func Validate(gd *GraphDescriptor) error {
	if gd == nil {
		return tkerrors.NewInvalidParamsError("graph", "graph descriptor is nil")
	}

	v := validatorInstance()
	if err := v.Struct(gd); err != nil {
		return convertValidationError(err)
	}

	seen := make(map[string]struct{}, len(gd.Components))
	for _, c := range gd.Components {
		if _, exists := seen[c.Name]; exists {
			return tkerrors.NewInvalidParamsError("components", fmt.Sprintf("duplicate component name %q", c.Name))
		}
		seen[c.Name] = struct{}{}
	}

	for _, conn := range gd.Connections {
		outComponent := strings.SplitN(conn.Output, ".", 2)[0]
		inComponent := strings.SplitN(conn.Input, ".", 2)[0]
		if _, ok := seen[outComponent]; !ok {
			return tkerrors.NewInvalidParamsError("connections", fmt.Sprintf("output %q references unknown component %q", conn.Output, outComponent))
		}
		if _, ok := seen[inComponent]; !ok {
			return tkerrors.NewInvalidParamsError("connections", fmt.Sprintf("input %q references unknown component %q", conn.Input, inComponent))
		}
	}

	return nil
}

func convertValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return tkerrors.NewInvalidParamsError("graph", err.Error())
	}
	first := verrs[0]
	return tkerrors.NewInvalidParamsError(first.Namespace(), fmt.Sprintf("failed %q validation", first.Tag()))
}
