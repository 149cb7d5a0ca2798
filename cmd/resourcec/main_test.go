package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const schemaFixture = `
resource User {
	string name
	optional number age
}
`

func TestHandlerCompilesSchemaAndWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.txt")
	require.NoError(t, os.WriteFile(schemaPath, []byte(schemaFixture), 0o644))

	outdir := filepath.Join(dir, "out")
	status := Handler([]string{schemaPath, outdir}, map[string]string{})
	require.Equal(t, 0, status)

	client, err := os.ReadFile(filepath.Join(outdir, "client.ts"))
	require.NoError(t, err)
	require.Contains(t, string(client), "export interface UserRecord")

	server, err := os.ReadFile(filepath.Join(outdir, "server.go"))
	require.NoError(t, err)
	require.Contains(t, string(server), "package generated")
}

func TestHandlerHonorsTargetPackageOption(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.txt")
	require.NoError(t, os.WriteFile(schemaPath, []byte(schemaFixture), 0o644))

	outdir := filepath.Join(dir, "out")
	status := Handler([]string{schemaPath, outdir}, map[string]string{"target-package": "myserver"})
	require.Equal(t, 0, status)

	server, err := os.ReadFile(filepath.Join(outdir, "server.go"))
	require.NoError(t, err)
	require.Contains(t, string(server), "package myserver")
}

func TestHandlerRejectsMissingArguments(t *testing.T) {
	status := Handler([]string{"only-one-arg"}, map[string]string{})
	require.Equal(t, -1, status)
}

func TestHandlerRejectsUnreadableSchemaFile(t *testing.T) {
	dir := t.TempDir()
	status := Handler([]string{filepath.Join(dir, "missing.txt"), filepath.Join(dir, "out")}, map[string]string{})
	require.Equal(t, -1, status)
}

func TestHandlerRejectsInvalidSchema(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.txt")
	require.NoError(t, os.WriteFile(schemaPath, []byte("resource user { string name }"), 0o644))

	status := Handler([]string{schemaPath, filepath.Join(dir, "out")}, map[string]string{})
	require.Equal(t, -1, status)
}
