package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgemaster/sge-backend/internal/auth"
	"github.com/sgemaster/sge-backend/internal/model"
)

func fixtureEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("APP_ENV", "test")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("BACKEND_MODE", "fixture")
	t.Setenv("FIXTURE_DELAY", "0s")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	var names []string
	for _, c := range NewRootCommand().Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "export", "link", "token"}, names)
}

func TestTokenCommand(t *testing.T) {
	fixtureEnv(t)

	out, err := run(t, "token", "--role", "admin")
	require.NoError(t, err)

	principal, err := auth.NewParser("secret").Parse(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, principal.Role)

	_, err = run(t, "token", "--role", "driver")
	assert.Error(t, err)
}

func TestExportCommandWritesFixtureContracts(t *testing.T) {
	dir := fixtureEnv(t)
	target := filepath.Join(dir, "contratos.json")

	out, err := run(t, "export", "--format", "json", "--out", target)
	require.NoError(t, err)
	assert.Contains(t, out, "3 contratos")

	raw, err := os.ReadFile(target)
	require.NoError(t, err)
	var contracts []model.Contract
	require.NoError(t, json.Unmarshal(raw, &contracts))
	assert.Len(t, contracts, 3)
}

func TestExportCommandRejectsUnknownFormat(t *testing.T) {
	fixtureEnv(t)

	_, err := run(t, "export", "--format", "docx")
	assert.Error(t, err)
}

func TestLinkCommandInFixtureMode(t *testing.T) {
	fixtureEnv(t)

	// The fixture host has no link fixture, so linking reports failure.
	out, err := run(t, "link", "1AbCdEfGhIjKlMnOpQrStUvWxYz012345")
	assert.Error(t, err)
	assert.Contains(t, out, "La hoja no pudo ser vinculada.")
}
