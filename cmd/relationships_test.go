package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"relationship-manager/feature/relationships/integrity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const danglingFixture = `{
  "artists": [
    {"artistId": "a1", "displayName": "Ana", "locationDisplay": "Soho, London", "styles": ["realism"], "rating": 4.5}
  ],
  "studios": [
    {"studioId": "s1", "studioName": "Soho Ink", "locationDisplay": "Soho, London", "artists": ["a1", "ghost"], "artistCount": 2}
  ]
}`

// setupCLI points the configuration at a temp fixture and resets flags.
func setupCLI(t *testing.T, fixture string) (dir string, out *bytes.Buffer) {
	t.Helper()
	dir = t.TempDir()
	path := filepath.Join(dir, "fixtures.json")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0644))

	t.Setenv("RELATIONSHIPS_SOURCE", "file")
	t.Setenv("RELATIONSHIPS_MIRRORS", "")
	t.Setenv("RELATIONSHIPS_FIXTURE_PATH", path)
	t.Setenv("RELATIONSHIPS_LOCK_FILE", filepath.Join(dir, "rel.lock"))
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("NO_COLOR", "1")

	jsonOutput, dryRunFlag, applyDrift, yesConfirm = false, false, false, false
	t.Cleanup(func() {
		jsonOutput, dryRunFlag, applyDrift, yesConfirm = false, false, false, false
	})

	out = new(bytes.Buffer)
	RootCmd.SetOut(out)
	RootCmd.SetErr(out)
	return dir, out
}

func run(args ...string) error {
	RootCmd.SetArgs(args)
	return RootCmd.Execute()
}

func TestRelationshipsValidate(t *testing.T) {
	_, out := setupCLI(t, danglingFixture)

	err := run("relationships", "validate", "--json")
	require.Error(t, err)
	assert.ErrorIs(t, err, integrity.ErrInconsistent)

	var report integrity.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.False(t, report.Valid)
	assert.Equal(t, 1, report.Summary.Studios)
}

func TestRelationshipsRepair(t *testing.T) {
	dir, out := setupCLI(t, danglingFixture)
	path := filepath.Join(dir, "fixtures.json")

	t.Run("DryRun", func(t *testing.T) {
		require.NoError(t, run("relationships", "repair", "--dry-run"))
		assert.Contains(t, out.String(), "Dry-run")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.JSONEq(t, danglingFixture, string(data), "dry run leaves the fixture alone")
	})

	t.Run("Apply", func(t *testing.T) {
		out.Reset()
		dryRunFlag = false
		require.NoError(t, run("relationships", "repair", "--dry-run=false"))
		assert.Contains(t, out.String(), "Persisted to file")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "ghost")

		out.Reset()
		require.NoError(t, run("relationships", "validate"))
		assert.Contains(t, out.String(), "Relationships are consistent")
	})
}

func TestRelationshipsReport(t *testing.T) {
	_, out := setupCLI(t, danglingFixture)

	require.NoError(t, run("relationships", "report"))
	assert.Contains(t, out.String(), "Soho Ink")
	assert.Contains(t, out.String(), "inconsistent")
}

func TestRelationshipsDrift_NoMirrors(t *testing.T) {
	setupCLI(t, danglingFixture)

	err := run("relationships", "drift")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no mirrors configured")
}

func TestRelationshipsRepair_Locked(t *testing.T) {
	dir, _ := setupCLI(t, danglingFixture)

	release, err := acquireLock(filepath.Join(dir, "rel.lock"))
	require.NoError(t, err)
	defer release()

	err = run("relationships", "repair", "--dry-run=false")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "holds")
}
