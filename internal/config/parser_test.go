package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	tkerrors "github.com/tracekit/tracekit/pkg/errors"
)

func writeTempDescriptor(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadValidDescriptor(t *testing.T) {
	path := writeTempDescriptor(t, `version: "1.0"
name: demo-trace
components:
  - name: src
    kind: source
    class: memory-source
    params:
      stream_id: 1
  - name: snk
    kind: sink
    class: recording-sink
connections:
  - output: src.out
    input: snk.in
`)
	gd, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "demo-trace", gd.Name)
	require.Len(t, gd.Components, 2)
	require.Len(t, gd.Connections, 1)
}

func TestLoadMissingFileReturnsLoadingError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	var loadErr *tkerrors.LoadingError
	require.ErrorAs(t, err, &loadErr)
}

func TestLoadInvalidYAMLReturnsLoadingError(t *testing.T) {
	path := writeTempDescriptor(t, "version: [1, 0]\nname: broken\ncomponents: []\n")
	_, err := Load(path)
	require.Error(t, err)
	var loadErr *tkerrors.LoadingError
	require.ErrorAs(t, err, &loadErr)
}

func TestLoadMissingComponentsReturnsInvalidParamsError(t *testing.T) {
	path := writeTempDescriptor(t, "version: \"1.0\"\nname: empty\n")
	_, err := Load(path)
	require.Error(t, err)
	var paramsErr *tkerrors.InvalidParamsError
	require.ErrorAs(t, err, &paramsErr)
}

func TestComponentDescriptorParamsValue(t *testing.T) {
	c := ComponentDescriptor{Name: "src", Kind: "source", Class: "memory-source",
		Params: map[string]interface{}{"stream_id": 1, "frequency": 1000}}
	v := c.ParamsValue()
	streamID, ok := v.Get("stream_id")
	require.True(t, ok)
	n, ok := streamID.AsSigned()
	require.True(t, ok)
	require.Equal(t, int64(1), n)
}

func TestConnectionDescriptorRefSplitting(t *testing.T) {
	c := ConnectionDescriptor{Output: "src.out", Input: "snk.in"}
	outComponent, outPort := c.OutputRef()
	require.Equal(t, "src", outComponent)
	require.Equal(t, "out", outPort)
	inComponent, inPort := c.InputRef()
	require.Equal(t, "snk", inComponent)
	require.Equal(t, "in", inPort)
}
