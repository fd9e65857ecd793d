package knowledge

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ProfilePatterns are the file names Discover treats as likely profiles.
var ProfilePatterns = []string{
	"**/{resume,résumé,cv,profile,knowledge}*.{yaml,yml,json}",
	"**/resume_data.{yaml,yml,json}",
}

var skipDirs = []string{".git", "node_modules", "vendor", ".concierge", ".venv", "dist", "build"}

// Discover lists candidate profile files below root, relative to root and
// sorted. Hidden and vendored directories are skipped.
func Discover(root string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if matchesProfile(rel) {
			found = append(found, filepath.ToSlash(rel))
		}
		return nil
	})
	sort.Strings(found)
	return found, err
}

func skipDir(name string) bool {
	for _, d := range skipDirs {
		if strings.EqualFold(name, d) {
			return true
		}
	}
	return false
}

func matchesProfile(rel string) bool {
	normalized := strings.ToLower(filepath.ToSlash(rel))
	for _, pattern := range ProfilePatterns {
		if ok, err := doublestar.Match(pattern, normalized); err == nil && ok {
			return true
		}
	}
	return false
}
