package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/kitstash/pkg/catalogs"
	"github.com/agentstation/kitstash/pkg/consistency"
	"github.com/agentstation/kitstash/pkg/errors"
	"github.com/agentstation/kitstash/pkg/records"
)

type cli struct {
	t   *testing.T
	app *App
	out *bytes.Buffer
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	var out bytes.Buffer
	nop := zerolog.Nop()
	a, err := New("1.2.3", "abc123", "2026-10-01", "test",
		WithConfig(&Config{
			StorePath: ":memory:",
			Format:    "json",
			LogFormat: "json",
			LogOutput: "discard",
		}),
		WithLogger(&nop),
		WithOutput(&out),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })
	return &cli{t: t, app: a, out: &out}
}

func (c *cli) run(args ...string) (string, error) {
	c.out.Reset()
	err := c.app.Execute(context.Background(), args)
	return c.out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	out, err := c.run(args...)
	require.NoError(c.t, err, strings.Join(args, " "))
	return out
}

func TestVersion(t *testing.T) {
	c := newCLI(t)
	out := c.mustRun("version")
	assert.Contains(t, out, `"version": "1.2.3"`)
	assert.Contains(t, out, `"commit": "abc123"`)
}

func TestInvalidFormat(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("version", "--format", "xml")
	assert.True(t, errors.IsValidationError(err))
}

func TestCatalogSearch(t *testing.T) {
	c := newCLI(t)
	out := c.mustRun("catalog", "search", "xf1", "--brand", "tamiya")

	var entries []catalogs.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.NotEmpty(t, entries)
	assert.Equal(t, "XF-1", entries[0].DisplayCode)

	_, err := c.run("catalog", "series", "revell")
	assert.True(t, errors.IsNotFound(err))
}

func TestPaintAndKitFlow(t *testing.T) {
	c := newCLI(t)

	paintID := strings.TrimSpace(c.mustRun("paints", "quick-add", "tamiya", "XF-1"))
	require.NotEmpty(t, paintID)

	// the second quick add only warns
	assert.Empty(t, c.mustRun("paints", "quick-add", "tamiya", "xf 1"))

	_, err := c.run("paints", "quick-add", "tamiya", "nothing like this")
	assert.True(t, errors.IsNotFound(err))

	kitID := strings.TrimSpace(c.mustRun("kits", "add",
		"--brand", "Tamiya", "--number", "61032", "--scale", "1:48",
		"--subject", "Spitfire Mk.I", "--paint", paintID))
	require.NotEmpty(t, kitID)

	var views []struct {
		Kit        records.Kit               `json:"kit"`
		Indicators consistency.KitIndicators `json:"indicators"`
	}
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("kits", "list")), &views))
	require.Len(t, views, 1)
	assert.Equal(t, kitID, views[0].Kit.ID)
	assert.Equal(t, "1/48", views[0].Kit.Scale)
	assert.Equal(t, consistency.Coverage{Total: 1, Owned: 1}, views[0].Indicators.Paints)
	assert.True(t, views[0].Indicators.Ready)

	require.NoError(t, json.Unmarshal([]byte(c.mustRun("kits", "list", "--status", "wip")), &views))
	assert.Empty(t, views)

	c.mustRun("paints", "delete", paintID)
	out := c.mustRun("kits", "show", kitID)
	assert.Contains(t, out, `"ready": false`)

	_, err = c.run("kits", "show", "missing")
	assert.True(t, errors.IsNotFound(err))
}

func TestMixCommand(t *testing.T) {
	c := newCLI(t)
	black := strings.TrimSpace(c.mustRun("paints", "quick-add", "tamiya", "XF-1"))
	white := strings.TrimSpace(c.mustRun("paints", "quick-add", "tamiya", "XF-2", "--status", "low"))

	out := c.mustRun("paints", "mix", "Dark Grey", "--part", black+"=3", "--part", white+"=1")
	var mix struct {
		ID          string                   `json:"id"`
		Ingredients []consistency.Ingredient `json:"ingredients"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &mix))
	assert.True(t, records.IsMixID(mix.ID))
	require.Len(t, mix.Ingredients, 2)
	assert.False(t, mix.Ingredients[1].InStock)

	_, err := c.run("paints", "mix", "Bad", "--part", black+"=x")
	assert.True(t, errors.IsValidationError(err))

	_, err = c.run("paints", "mix", "Self", "--part", black+"=1", "--part", black+"=2")
	assert.True(t, errors.IsValidationError(err))
}

func TestProjects(t *testing.T) {
	c := newCLI(t)
	id := strings.TrimSpace(c.mustRun("projects", "add", "Battle", "of", "Britain", "--status", "active"))
	require.NotEmpty(t, id)

	_, err := c.run("projects", "add", "Bad", "--status", "someday")
	assert.True(t, errors.IsValidationError(err))

	out := c.mustRun("projects", "list")
	assert.Contains(t, out, `"name": "Battle of Britain"`)
}

func TestExportImport(t *testing.T) {
	c := newCLI(t)
	c.mustRun("paints", "quick-add", "tamiya", "XF-1")

	file := filepath.Join(t.TempDir(), "stash.json")
	c.mustRun("export", "--file", file)
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "XF-1")

	other := newCLI(t)
	assert.Equal(t, "created 1, replaced 0, deleted 0\n", other.mustRun("import", file))
	assert.Equal(t, "created 0, replaced 1, deleted 0\n", other.mustRun("import", file))
	assert.Equal(t, "created 1, replaced 0, deleted 1\n", other.mustRun("import", file, "--mode", "replace"))

	_, err = other.run("import", file, "--mode", "upsert")
	assert.True(t, errors.IsValidationError(err))
}

func TestEnrichWithoutRelay(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("enrich", "https://kits.example.com/kit/61032")
	var cfgErr *errors.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}
