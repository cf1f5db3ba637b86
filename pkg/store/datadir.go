package store

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultDataDir returns the OS-appropriate default data directory for goalie.
//
//   - macOS:   ~/Library/Application Support/goalie
//   - Linux:   $XDG_DATA_HOME/goalie (fallback ~/.local/share/goalie)
//   - Windows: %LOCALAPPDATA%\goalie (fallback %APPDATA%\goalie)
func DefaultDataDir() string {
	return defaultDataDirForOS(runtime.GOOS)
}

func defaultDataDirForOS(goos string) string {
	home, _ := os.UserHomeDir()

	switch goos {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "goalie")
	case "windows":
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return filepath.Join(dir, "goalie")
		}
		if dir := os.Getenv("APPDATA"); dir != "" {
			return filepath.Join(dir, "goalie")
		}
		return filepath.Join(home, "goalie")
	default: // linux, freebsd, etc.
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return filepath.Join(dir, "goalie")
		}
		return filepath.Join(home, ".local", "share", "goalie")
	}
}
