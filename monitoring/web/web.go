// Package web holds the dashboard pages served by the monitor.
package web

import (
	"embed"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

//go:embed dist/*
var staticAssets embed.FS

// DevModeEnv names the variable that makes the monitor serve the dashboard
// from disk instead of the embedded copy. A true value selects the dist
// directory next to this file; any other non-boolean value is taken as the
// directory to serve.
const DevModeEnv = "OVERLAYNET_MONITOR_DEV"

// GetAssets returns the dashboard files.
func GetAssets() http.FileSystem {
	if dir, ok := devDir(); ok {
		return http.Dir(dir)
	}

	dist, err := fs.Sub(staticAssets, "dist")
	if err != nil {
		panic(err)
	}

	return http.FS(dist)
}

func devDir() (string, bool) {
	value := os.Getenv(DevModeEnv)
	if value == "" {
		return "", false
	}

	on, err := strconv.ParseBool(value)
	switch {
	case err != nil:
		return value, true
	case !on:
		return "", false
	}

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		panic("cannot locate the dashboard sources")
	}

	return filepath.Join(filepath.Dir(file), "dist"), true
}
