package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd(t *testing.T) {
	cmd := GetRootCmd()
	require.NotNil(t, cmd)
	assert.Equal(t, "docchat", cmd.Use)
	assert.Equal(t, version, cmd.Version)
}

func TestRootCmd_HasServeCommand(t *testing.T) {
	cmd, _, err := GetRootCmd().Find([]string{"serve"})
	require.NoError(t, err)
	assert.Equal(t, "serve", cmd.Name())
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	flags := GetRootCmd().PersistentFlags()
	assert.NotNil(t, flags.Lookup("config"))
	assert.NotNil(t, flags.Lookup("log-level"))
}

func TestRootCmd_Version(t *testing.T) {
	cmd := GetRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), version)
}
