package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tracekit/tracekit/internal/component"
	"github.com/tracekit/tracekit/internal/value"
	"github.com/tracekit/tracekit/pkg/status"
)

func TestExecuteReturnsNotFoundWithoutQueryMethod(t *testing.T) {
	cc := &component.Class{Kind: component.KindSource, Name: "no-query"}
	_, code := Execute(context.Background(), cc, "supported-params", value.Null())
	require.Equal(t, status.NotFound, code)
}

func TestExecuteDelegatesToClassQuery(t *testing.T) {
	cc := &component.Class{
		Kind: component.KindSource,
		Name: "queryable",
		Methods: component.MethodTable{
			Query: func(ctx context.Context, object string, params value.Value) (value.Value, status.Code) {
				require.Equal(t, "supported-params", object)
				return value.Signed(42), status.OK
			},
		},
	}
	v, code := Execute(context.Background(), cc, "supported-params", value.Null())
	require.Equal(t, status.OK, code)
	n, ok := v.AsSigned()
	require.True(t, ok)
	require.Equal(t, int64(42), n)
}

func TestExecutePropagatesErrorStatus(t *testing.T) {
	cc := &component.Class{
		Kind: component.KindSource,
		Name: "failing",
		Methods: component.MethodTable{
			Query: func(ctx context.Context, object string, params value.Value) (value.Value, status.Code) {
				return value.Null(), status.UnknownObject
			},
		},
	}
	_, code := Execute(context.Background(), cc, "x", value.Null())
	require.Equal(t, status.UnknownObject, code)
}
