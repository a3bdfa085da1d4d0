package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyEntryPointRuntime(t *testing.T) {
	goMain := []byte(`package main

func main() {
	http.HandleFunc("/health", health)
	http.HandleFunc("/users", users)
	log.Fatal(http.ListenAndServe(":8080", nil))
}
`)
	ep, ok := ClassifyEntryPoint("cmd/api/main.go", "go", goMain)
	require.True(t, ok)
	assert.Equal(t, EntryRuntime, ep.Category)
	assert.Equal(t, ConfidenceHigh, ep.Confidence)
	assert.Equal(t, 2, ep.RouteCount)

	pyScript := []byte(`import sys

def main():
    pass

if __name__ == "__main__":
    main()
`)
	ep, ok = ClassifyEntryPoint("scripts/run.py", "python", pyScript)
	require.True(t, ok)
	assert.Equal(t, EntryRuntime, ep.Category)
	assert.Equal(t, ConfidenceMedium, ep.Confidence)
}

func TestClassifyEntryPointTooling(t *testing.T) {
	content := []byte(`import argparse

parser = argparse.ArgumentParser(description="migrate")
parser.add_argument("--dry-run")
parser.add_argument("--verbose")
`)
	ep, ok := ClassifyEntryPoint("tools/migrate.py", "python", content)
	require.True(t, ok)
	assert.Equal(t, EntryTooling, ep.Category)
	assert.Equal(t, ConfidenceHigh, ep.Confidence)
	assert.Zero(t, ep.RouteCount)
}

func TestClassifyEntryPointTieGoesToRuntime(t *testing.T) {
	// flag.Parse() scores 2 for tooling, .listen-style markers score 2 for
	// runtime; the tie must resolve to runtime.
	content := []byte(`package main

func run() {
	flag.Parse()
	srv.ListenAndServe()
}
`)
	ep, ok := ClassifyEntryPoint("cmd/srv/main.go", "go", content)
	require.True(t, ok)
	assert.Equal(t, EntryRuntime, ep.Category)
}

func TestClassifyEntryPointBarrel(t *testing.T) {
	barrel := []byte(`export { UserService } from './user';
export { OrderService } from './order';
export * from './types';
`)
	ep, ok := ClassifyEntryPoint("src/services/index.ts", "typescript", barrel)
	require.True(t, ok)
	assert.Equal(t, EntryBarrel, ep.Category)
	assert.Equal(t, ConfidenceHigh, ep.Confidence)

	mixed := []byte(`export { UserService } from './user';
export { OrderService } from './order';
export * from './types';
const a = 1;
const b = 2;
const c = 3;
const d = 4;
`)
	_, ok = ClassifyEntryPoint("src/services/index.ts", "typescript", mixed)
	assert.False(t, ok, "mostly-implementation file is not a barrel")
}

func TestClassifyEntryPointNoSignal(t *testing.T) {
	_, ok := ClassifyEntryPoint("internal/util/strings.go", "go", []byte("package util\n\nfunc Join() {}\n"))
	assert.False(t, ok)
}
