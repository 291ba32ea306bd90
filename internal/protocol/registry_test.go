package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterRejectsDuplicates(t *testing.T) {
	reg := NewRegistry()

	require.NoError(t, reg.Register(echoTool("a")))
	err := reg.Register(echoTool("a"))
	require.ErrorIs(t, err, ErrDuplicateTool)
	require.Equal(t, 1, reg.Len())
}

func TestRegistryReplaceKeepsPosition(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(echoTool("first")))
	require.NoError(t, reg.Register(echoTool("second")))

	replacement := echoTool("first")
	replacement.Description = "replaced"
	reg.Replace(replacement)

	descs := reg.Descriptors()
	require.Len(t, descs, 2)
	require.Equal(t, "first", descs[0].Name)
	require.Equal(t, "replaced", descs[0].Description)
	require.Equal(t, "second", descs[1].Name)
}

func TestRegistryReplaceAppendsWhenNew(t *testing.T) {
	reg := NewRegistry()
	reg.Replace(echoTool("only"))

	tool, ok := reg.Lookup("only")
	require.True(t, ok)
	require.Equal(t, "only", tool.Name)
	require.Equal(t, 1, reg.Len())
}

func TestRegistryLookupMissing(t *testing.T) {
	reg := NewRegistry()

	_, ok := reg.Lookup("ghost")
	require.False(t, ok)
}
