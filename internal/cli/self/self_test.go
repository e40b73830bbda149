package self

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"v1.2.3", "1.2.3"} {
		v, err := ParseVersion(in)
		require.NoError(t, err, in)
		assert.Equal(t, "1.2.3", v.String())
	}
	_, err := ParseVersion("dev")
	assert.Error(t, err)
}

func TestValidateSlug(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateSlug(DefaultRepository))
	assert.Error(t, ValidateSlug("webpackext"))
	assert.Error(t, ValidateSlug("owner/"))
	assert.Error(t, ValidateSlug("a/b/c"))
}

func TestNewSelfCommand(t *testing.T) {
	t.Parallel()
	cmd := NewSelfCommand()
	require.Len(t, cmd.Subcommands, 1)
	assert.Equal(t, "update", cmd.Subcommands[0].Name)
}
