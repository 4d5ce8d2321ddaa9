package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/codeguard/pkg/internal/hashutil"
)

const (
	// AppDirName is the directory name used under every XDG base directory
	AppDirName = "codeguard"

	// EnvCacheDir overrides the cache directory
	EnvCacheDir = "CODEGUARD_CACHE_DIR"

	// EnvStateDir overrides the state directory (log files)
	EnvStateDir = "CODEGUARD_STATE_DIR"

	// LogFileName is the name of the log file inside the state directory
	LogFileName = "codeguard.log"
)

// CacheDir returns the directory holding cache snapshots.
func CacheDir() string {
	if dir := os.Getenv(EnvCacheDir); dir != "" {
		return expandHome(dir)
	}
	return filepath.Join(xdg.CacheHome, AppDirName)
}

// StateDir returns the directory holding logs and other run state.
func StateDir() string {
	if dir := os.Getenv(EnvStateDir); dir != "" {
		return expandHome(dir)
	}
	return filepath.Join(xdg.StateHome, AppDirName)
}

// LogFilePath returns the path of the log file.
func LogFilePath() string {
	return filepath.Join(StateDir(), LogFileName)
}

// CacheFileFor returns the snapshot path for a project root. Each absolute
// root gets its own snapshot so unrelated projects never share entries.
func CacheFileFor(projectRoot string) string {
	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		abs = filepath.Clean(projectRoot)
	}
	name := filepath.Base(abs)
	if name == string(filepath.Separator) || name == "." {
		name = "root"
	}
	return filepath.Join(CacheDir(), name+"-"+hashutil.Prefix(abs, 12)+".json")
}

// expandHome expands ~ to the user's home directory
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
