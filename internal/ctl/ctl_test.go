package ctl

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mastermind-creat/techsafi/domain/content"
	"github.com/mastermind-creat/techsafi/pkg/auth"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// newStore points every local command at a fresh bunt file.
func newStore(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	return filepath.Join(t.TempDir(), "content.db")
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

const pricingBundle = `format: 1
documents:
  - domain: pricing
    data:
      - id: p1
        name: Starter
        category: Web
        displayOrder: 1
`

func TestRootCommand_Flags(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"config", "store", "backend", "server", "api-key", "output", "actor", "debug"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}

	t.Setenv("HOME", t.TempDir())
	_, err := run(t, "", "version", "-o", "xml")
	assert.ErrorContains(t, err, "invalid output format")
}

func TestDomains_ListsDefaults(t *testing.T) {
	store := newStore(t)

	out, err := run(t, "", "--store", store, "domains")
	require.NoError(t, err)
	assert.Contains(t, out, "ai-solutions")
	assert.Contains(t, out, "default")

	out, err = run(t, "", "--store", store, "domains", "-o", "json")
	require.NoError(t, err)
	var infos []content.DomainInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	assert.Len(t, infos, len(content.Domains()))
}

func TestImportExportRoundTrip(t *testing.T) {
	store := newStore(t)
	dir := t.TempDir()
	bundle := writeFile(t, dir, "bundle.yaml", pricingBundle)

	out, err := run(t, "", "--store", store, "import", bundle, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "would import pricing")

	out, err = run(t, "", "--store", store, "import", bundle)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 document(s)")

	out, err = run(t, "", "--store", store, "get", "pricing", "-o", "json")
	require.NoError(t, err)
	var plans []content.PricingPlan
	require.NoError(t, json.Unmarshal([]byte(out), &plans))
	require.Len(t, plans, 1)
	assert.Equal(t, "Starter", plans[0].Name)

	exported := filepath.Join(dir, "export.json")
	_, err = run(t, "", "--store", store, "export", "-o", "json", "--file", exported)
	require.NoError(t, err)

	data, err := os.ReadFile(exported)
	require.NoError(t, err)
	var b content.Bundle
	require.NoError(t, json.Unmarshal(data, &b))
	require.Len(t, b.Documents, 1)
	assert.Equal(t, "pricing", b.Documents[0].Domain)
	assert.EqualValues(t, 1, b.Documents[0].Revision)

	// The YAML form of an export imports back unchanged.
	out, err = run(t, "", "--store", store, "export")
	require.NoError(t, err)
	var again content.Bundle
	require.NoError(t, decode([]byte(out), &again))
	assert.JSONEq(t, string(b.Documents[0].Data), string(again.Documents[0].Data))
}

func TestSnapshot_TakeListRestore(t *testing.T) {
	store := newStore(t)
	dir := t.TempDir()
	snapshots := filepath.Join(t.TempDir(), "snapshots")

	_, err := run(t, "", "--store", store, "import", writeFile(t, dir, "bundle.yaml", pricingBundle))
	require.NoError(t, err)

	out, err := run(t, "", "--store", store, "snapshot", "take", "--dir", snapshots)
	require.NoError(t, err)
	assert.Contains(t, out, "Snapshot written")

	out, err = run(t, "", "--store", store, "snapshot", "list", "--dir", snapshots, "-o", "json")
	require.NoError(t, err)
	var names []string
	require.NoError(t, json.Unmarshal([]byte(out), &names))
	require.Len(t, names, 1)

	_, err = run(t, "", "--store", store, "reset", "pricing", "--yes")
	require.NoError(t, err)

	out, err = run(t, "", "--store", store, "snapshot", "restore", "--dir", snapshots)
	require.NoError(t, err)
	assert.Contains(t, out, "Restored 1 document(s) from "+names[0])

	out, err = run(t, "", "--store", store, "get", "pricing", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, "Starter")
}

func TestHistoryAndRestore(t *testing.T) {
	store := newStore(t)
	bundle := writeFile(t, t.TempDir(), "bundle.yaml", pricingBundle)

	_, err := run(t, "", "--store", store, "import", bundle)
	require.NoError(t, err)
	_, err = run(t, "", "--store", store, "import", bundle)
	require.NoError(t, err)

	out, err := run(t, "", "--store", store, "history", "pricing", "-o", "json", "--actor", "ops")
	require.NoError(t, err)
	assert.Contains(t, out, `"revision": 1`)

	out, err = run(t, "", "--store", store, "history", "pricing", "--restore", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Restored revision 1 of pricing as revision 3")

	_, err = run(t, "", "--store", store, "history", "pricing", "--restore", "9")
	assert.Error(t, err)
}

func TestReset_NeedsConfirmation(t *testing.T) {
	store := newStore(t)
	bundle := writeFile(t, t.TempDir(), "bundle.yaml", pricingBundle)
	_, err := run(t, "", "--store", store, "import", bundle)
	require.NoError(t, err)

	_, err = run(t, "", "--store", store, "reset", "pricing")
	assert.ErrorContains(t, err, "--yes")

	out, err := run(t, "", "--store", store, "reset", "pricing", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "pricing reset to default")

	out, err = run(t, "", "--store", store, "get", "pricing", "--full", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"default": true`)

	_, err = run(t, "", "--store", store, "reset", "nope", "--yes")
	assert.Error(t, err)
}

func TestPostsImport(t *testing.T) {
	store := newStore(t)
	dir := t.TempDir()
	writeFile(t, dir, "hello-nairobi.md", "---\ntitle: Hello Nairobi\nauthor: Wanjiku\ntags: [cloud]\n---\n# Hi\n\nFirst post.\n")
	writeFile(t, dir, "notes.txt", "ignored")

	out, err := run(t, "", "--store", store, "posts", "import", dir, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "/blog/hello-nairobi")

	out, err = run(t, "", "--store", store, "posts", "import", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "1 created, 0 updated")

	out, err = run(t, "", "--store", store, "posts", "import", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "0 created, 1 updated")

	out, err = run(t, "", "--store", store, "get", "blog", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "slug: hello-nairobi")
	assert.Contains(t, out, "First post.")

	_, err = run(t, "", "--store", store, "posts", "import", t.TempDir())
	assert.ErrorContains(t, err, "no markdown files")
}

func TestHashPassword(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	out, err := run(t, "open sesame\n", "hash-password")
	require.NoError(t, err)
	assert.NoError(t, auth.CheckPassword(strings.TrimSpace(out), "open sesame"))

	_, err = run(t, "\n", "hash-password")
	assert.Error(t, err)
}

func TestRemote(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	var pushed string
	e := echo.New()
	e.GET("/api/content/:domain", func(c echo.Context) error {
		if c.Param("domain") != "careers" {
			return c.JSON(http.StatusNotFound, map[string]any{"error": map[string]any{"code": "unknown_domain", "message": "unknown content domain"}})
		}
		return c.JSON(http.StatusOK, content.Document{Domain: "careers", Data: json.RawMessage(`{"notice":{"isActive":false}}`)})
	})
	e.PUT("/api/content/:domain", func(c echo.Context) error {
		if c.Request().Header.Get("X-API-Key") != "k" {
			return c.JSON(http.StatusUnauthorized, map[string]any{"error": map[string]any{"code": "unauthorized", "message": "missing credentials"}})
		}
		body, _ := io.ReadAll(c.Request().Body)
		pushed = string(body)
		return c.JSON(http.StatusOK, content.Document{Domain: c.Param("domain"), Revision: 4})
	})
	e.GET("/api/contact/submissions", func(c echo.Context) error {
		assert.Equal(t, "new", c.QueryParam("status"))
		return c.JSON(http.StatusOK, map[string]any{
			"submissions": []content.ContactSubmission{{ID: "s1", Name: "Achieng", Email: "a@example.com", Status: "new", Priority: "high"}},
			"total":       1,
		})
	})
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	out, err := run(t, "", "--server", srv.URL, "remote", "get", "careers", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "isActive: false")

	_, err = run(t, "", "--server", srv.URL, "remote", "get", "nope")
	assert.ErrorContains(t, err, "unknown_domain")

	file := writeFile(t, t.TempDir(), "careers.yaml", "notice:\n  isActive: true\n")
	_, err = run(t, "", "--server", srv.URL, "remote", "push", "careers", file)
	assert.ErrorContains(t, err, "missing credentials")

	out, err = run(t, "", "--server", srv.URL, "--api-key", "k", "remote", "push", "careers", file)
	require.NoError(t, err)
	assert.Contains(t, out, "careers saved as revision 4")
	assert.JSONEq(t, `{"notice":{"isActive":true}}`, pushed)

	out, err = run(t, "", "--server", srv.URL, "--api-key", "k", "remote", "leads", "--status", "new")
	require.NoError(t, err)
	assert.Contains(t, out, "Achieng")
	assert.Contains(t, out, "1 submission(s)")

	_, err = run(t, "", "remote", "leads")
	assert.ErrorContains(t, err, "server URL is required")
}
