package secrets

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anvoria/dashboard/internal/credential"
	"github.com/Anvoria/dashboard/internal/security"
)

func TestCommand_Generate(t *testing.T) {
	var out bytes.Buffer
	cmd := &Command{Out: &out}

	require.NoError(t, cmd.Run([]string{"generate"}))
	first := strings.TrimSpace(out.String())
	assert.True(t, credential.WellFormed(first))

	out.Reset()
	require.NoError(t, cmd.Run([]string{"generate"}))
	assert.NotEqual(t, first, strings.TrimSpace(out.String()))
}

func TestCommand_HashPassword(t *testing.T) {
	t.Run("from flag", func(t *testing.T) {
		var out bytes.Buffer
		cmd := &Command{Out: &out}

		require.NoError(t, cmd.Run([]string{"hash-password", "-password", "hunter2"}))
		hash := strings.TrimSpace(out.String())
		assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
		assert.True(t, security.VerifyPassword("hunter2", hash))
	})

	t.Run("from stdin", func(t *testing.T) {
		var out bytes.Buffer
		cmd := &Command{In: strings.NewReader("correct horse\nignored\n"), Out: &out}

		require.NoError(t, cmd.Run([]string{"hash-password"}))
		hash := strings.TrimSpace(out.String())
		assert.True(t, security.VerifyPassword("correct horse", hash))
		assert.False(t, security.VerifyPassword("ignored", hash))
	})

	t.Run("empty input", func(t *testing.T) {
		cmd := &Command{In: strings.NewReader(""), Out: &bytes.Buffer{}}
		err := cmd.Run([]string{"hash-password"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "password is required")
	})
}

func TestCommand_Subcommands(t *testing.T) {
	cmd := &Command{}
	assert.Error(t, cmd.Run(nil))
	assert.Error(t, cmd.Run([]string{"rotate"}))
}
