package pkg

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	expected := "benchdl"
	if Name != expected {
		t.Errorf("Expected Name to be %q, got %q", expected, Name)
	}
}

func TestVersion(t *testing.T) {
	// Tests run in the package directory, next to the embedded file.
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	if content := strings.TrimSpace(string(buf)); Version != content {
		t.Errorf("Expected Version to be %q, got %q", content, Version)
	}
}

func TestAuthor(t *testing.T) {
	if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
		return a.Name == "ardnew" && a.Email == "andrew@ardnew.com"
	}) {
		t.Errorf("Expected Author to contain ardnew, got %v", Author)
	}

	for i, author := range Author {
		if author.Name == "" && author.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}

func TestConfigFile(t *testing.T) {
	path := ConfigFile()

	if filepath.Base(path) != ConfigFileName {
		t.Errorf("Expected base name %q, got %q", ConfigFileName, filepath.Base(path))
	}

	if filepath.Dir(path) != ConfigDir() {
		t.Errorf("Expected config file inside %q, got %q", ConfigDir(), path)
	}
}

func TestPrefix_NotEmpty(t *testing.T) {
	if Prefix() == "" {
		t.Error("Expected a non-empty prefix")
	}
}

func TestUserDir(t *testing.T) {
	failing := func() (string, error) { return "", os.ErrNotExist }

	got := userDir(failing, ".cache")

	if home, err := os.UserHomeDir(); err == nil {
		if want := filepath.Join(home, ".cache"); got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	} else if got == "" {
		t.Error("Expected a non-empty fallback")
	}

	root := func() (string, error) { return "/xdg", nil }
	if got := userDir(root, ".cache"); got != "/xdg" {
		t.Errorf("Expected root directory, got %q", got)
	}
}

func TestCacheDir(t *testing.T) {
	if filepath.Base(CacheDir()) != Prefix() {
		t.Errorf("Expected cache dir to end in %q, got %q", Prefix(), CacheDir())
	}
}
