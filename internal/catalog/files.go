package catalog

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Content file names inside the content directory
const (
	AffirmationsFile    = "affirmations.json"
	VideosFile          = "youtube-videos.json"
	WelcomeMessagesFile = "welcome-messages.json"
	ThemesFile          = "themes.json"
	AppConfigFile       = "app-config.json"
)

// RequiredFiles lists every content file in load order
func RequiredFiles() []string {
	return []string{AffirmationsFile, VideosFile, WelcomeMessagesFile, ThemesFile, AppConfigFile}
}

// isContentFile reports whether name is one of the content files
func isContentFile(name string) bool {
	base := filepath.Base(name)
	if !strings.HasSuffix(base, ".json") {
		return false
	}
	for _, f := range RequiredFiles() {
		if base == f {
			return true
		}
	}
	return false
}

// CheckFiles returns the content files missing from dir. An empty result means every
// file is present.
func CheckFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &ContentDataError{Path: dir, Err: err}
	}
	if !info.IsDir() {
		return nil, &ContentDataError{Path: dir, Err: errors.New("not a directory")}
	}

	var missing []string
	for _, name := range RequiredFiles() {
		if _, err := os.Stat(filepath.Join(dir, name)); errors.Is(err, fs.ErrNotExist) {
			missing = append(missing, name)
		} else if err != nil {
			return nil, &ContentDataError{Path: filepath.Join(dir, name), Err: err}
		}
	}
	return missing, nil
}
