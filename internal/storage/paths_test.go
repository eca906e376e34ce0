package storage

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestBaseDir(t *testing.T) {
	home := func() (string, error) { return "/home/ada", nil }

	tests := []struct {
		name string
		goos string
		env  map[string]string
		want string
	}{
		{"macos", "darwin", nil, filepath.Join("/home/ada", "Library", "Application Support")},
		{"windows appdata", "windows", map[string]string{"APPDATA": "/appdata"}, "/appdata"},
		{"windows fallback", "windows", nil, filepath.Join("/home/ada", "AppData", "Roaming")},
		{"linux xdg", "linux", map[string]string{"XDG_DATA_HOME": "/xdg"}, "/xdg"},
		{"linux fallback", "linux", nil, filepath.Join("/home/ada", ".local", "share")},
		{"macos ignores xdg", "darwin", map[string]string{"XDG_DATA_HOME": "/xdg"}, filepath.Join("/home/ada", "Library", "Application Support")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := platformEnv{
				goos:   tc.goos,
				getenv: func(k string) string { return tc.env[k] },
				home:   home,
			}
			got, err := env.baseDir()
			if err != nil {
				t.Fatalf("baseDir() error = %v", err)
			}
			if got != tc.want {
				t.Errorf("baseDir() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBaseDirWithoutHome(t *testing.T) {
	noHome := errors.New("no home")
	env := platformEnv{
		goos:   "linux",
		getenv: func(string) string { return "" },
		home:   func() (string, error) { return "", noHome },
	}
	if _, err := env.baseDir(); !errors.Is(err, noHome) {
		t.Errorf("baseDir() error = %v, want %v", err, noHome)
	}
}

func TestGetDataDirUsesXDG(t *testing.T) {
	if hostEnv().goos != "linux" {
		t.Skip("XDG_DATA_HOME only applies on Linux and other Unix systems")
	}
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	got, err := GetDatabaseDir("")
	if err != nil {
		t.Fatalf("GetDatabaseDir() error = %v", err)
	}
	if want := filepath.Join(dir, appName, "db"); got != want {
		t.Errorf("GetDatabaseDir() = %q, want %q", got, want)
	}
}
