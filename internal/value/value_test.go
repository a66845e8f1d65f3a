package value

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestStructuralEquality(t *testing.T) {
	a := Map()
	require.NoError(t, a.Set("name", String("ctf-source")))
	require.NoError(t, a.Set("count", Signed(3)))

	b := Map()
	require.NoError(t, b.Set("name", String("ctf-source")))
	require.NoError(t, b.Set("count", Signed(3)))

	require.True(t, a.Equal(b))

	require.NoError(t, b.Set("count", Signed(4)))
	require.False(t, a.Equal(b))
}

func TestMapPreservesInsertionOrder(t *testing.T) {
	m := Map()
	require.NoError(t, m.Set("z", Signed(1)))
	require.NoError(t, m.Set("a", Signed(2)))
	require.NoError(t, m.Set("m", Signed(3)))

	require.Equal(t, []string{"z", "a", "m"}, m.Keys())
}

func TestFreezeRejectsMutation(t *testing.T) {
	m := Map()
	require.NoError(t, m.Set("k", Signed(1)))
	m.Freeze()

	err := m.Set("k", Signed(2))
	require.Error(t, err)

	arr := Array(Signed(1))
	arr.Freeze()
	require.Error(t, arr.Append(Signed(2)))
}

func TestCloneIsIndependent(t *testing.T) {
	m := Map()
	require.NoError(t, m.Set("nested", Array(Signed(1), Signed(2))))

	clone := m.Clone()
	nested, _ := clone.Get("nested")
	require.NoError(t, nested.Append(Signed(3)))
	require.NoError(t, clone.Set("nested", nested))

	original, _ := m.Get("nested")
	require.Equal(t, 2, original.Len())
}

func TestExtendRightBiasedMerge(t *testing.T) {
	base := Map()
	require.NoError(t, base.Set("freq", Signed(1000000000)))
	require.NoError(t, base.Set("origin_is_unix_epoch", Bool(true)))

	overlay := Map()
	require.NoError(t, overlay.Set("freq", Signed(2000000000)))

	merged, err := Extend(base, overlay)
	require.NoError(t, err)

	freq, ok := merged.Get("freq")
	require.True(t, ok)
	got, _ := freq.AsSigned()
	require.Equal(t, int64(2000000000), got)

	origin, ok := merged.Get("origin_is_unix_epoch")
	require.True(t, ok)
	b, _ := origin.AsBool()
	require.True(t, b)
}

func TestFromYAMLNodePreservesOrderAndTypes(t *testing.T) {
	doc := `
name: my-source
width: 32
signed: true
ratio: 1.5
labels: [a, b, c]
`
	var node yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(doc), &node))

	v, err := FromYAMLNode(&node)
	require.NoError(t, err)
	require.Equal(t, []string{"name", "width", "signed", "ratio", "labels"}, v.Keys())

	name, _ := v.Get("name")
	s, _ := name.AsString()
	require.Equal(t, "my-source", s)

	width, _ := v.Get("width")
	i, _ := width.AsSigned()
	require.Equal(t, int64(32), i)

	labels, _ := v.Get("labels")
	require.Equal(t, 3, labels.Len())
}
