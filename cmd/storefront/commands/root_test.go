package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range GetRootCmd().Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "seed", "sync", "version"} {
		assert.True(t, names[want], want)
	}

	force := seedCmd.Flags().Lookup("force")
	require.NotNil(t, force)
	assert.Equal(t, "false", force.DefValue)
}

func TestVersionCommand(t *testing.T) {
	Version, Commit, Date = "1.2.3", "abc123", "2026-01-01"

	var out bytes.Buffer
	root := GetRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())

	assert.Equal(t, "storefront 1.2.3 (commit abc123, built 2026-01-01)\n", out.String())
}
