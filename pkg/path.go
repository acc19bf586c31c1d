package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// debugBinary matches the executable names chosen by the dlv debugger.
var debugBinary = regexp.MustCompile(`^__debug_bin\d*$`)

// Prefix returns the name of the per-user directories below the system
// config and cache roots. It is the executable's base name without
// extension or leading dots, or [Name] when running under dlv or when no
// usable name remains.
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(func() string {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}

	base := filepath.Base(exe)
	base = strings.TrimLeft(strings.TrimSuffix(base, filepath.Ext(base)), ".")

	if base == "" || debugBinary.MatchString(base) {
		return Name
	}

	return base
})

// userDir returns the user directory reported by root, falling back to
// fallback below the home directory and finally to the working directory.
func userDir(root func() (string, error), fallback string) string {
	if dir, err := root(); err == nil {
		return dir
	}

	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, fallback)
	}

	if wd, err := os.Getwd(); err == nil {
		return wd
	}

	return "."
}

// ConfigDir returns the directory holding the configuration file.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(func() string {
	return filepath.Join(userDir(os.UserConfigDir, ".config"), Prefix())
})

// CacheDir returns the directory for transient files such as profiles
// written by the pprof build.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(func() string {
	return filepath.Join(userDir(os.UserCacheDir, ".cache"), Prefix())
})

// ConfigFile returns the path of the YAML file holding default flag values.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), ConfigFileName)
}
