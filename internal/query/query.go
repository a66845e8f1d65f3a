// Package query implements the side-effect-free out-of-band component-class
// query protocol of spec sections 4.6 and 6: execute_query(component_class,
// object, params) -> Value | AGAIN | INVALID_OBJECT | INVALID_PARAMS | ERROR.
package query

import (
	"context"

	"github.com/tracekit/tracekit/internal/component"
	"github.com/tracekit/tracekit/internal/value"
	"github.com/tracekit/tracekit/pkg/status"
)

// Execute invokes cc's Query method and returns its result and status; on
// an error status the result is replaced by Null, and a class without a
// Query method yields NotFound. The core performs no caching: every call
// reaches the component class's Query method.
func Execute(ctx context.Context, cc *component.Class, object string, params value.Value) (value.Value, status.Code) {
	if cc.Methods.Query == nil {
		return value.Null(), status.NotFound
	}
	result, code := cc.Methods.Query(ctx, object, params)
	if code.IsError() {
		return value.Null(), code
	}
	return result, code
}
