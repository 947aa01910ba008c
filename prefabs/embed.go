package prefabs

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

//go:embed *.yaml scripts/*.tengo
var prefabsFS embed.FS

const scriptExt = ".tengo"

// Load reads a rig spec. A copy under ./prefabs wins over the embedded one so
// tuning can be edited while the game runs.
func Load(name string) ([]byte, error) {
	return read(cleanPrefabPath(name))
}

// LoadScript reads a controller script by basename; the directory and the
// .tengo extension are optional.
func LoadScript(name string) ([]byte, error) {
	return read(cleanScriptPath(name))
}

func read(clean string) ([]byte, error) {
	if data, err := os.ReadFile(diskPrefabPath(clean)); err == nil {
		return data, nil
	}
	return fs.ReadFile(prefabsFS, clean)
}

// Scripts lists the embedded script basenames.
func Scripts() []string {
	entries, err := fs.ReadDir(prefabsFS, "scripts")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), scriptExt); ok {
			names = append(names, name)
		}
	}
	return names
}

func cleanPrefabPath(p string) string {
	s := filepath.ToSlash(p)
	s, _ = strings.CutPrefix(s, "prefabs/")
	return s
}

func cleanScriptPath(p string) string {
	s := cleanPrefabPath(p)
	s, _ = strings.CutPrefix(s, "scripts/")
	if !strings.HasSuffix(s, scriptExt) {
		s += scriptExt
	}
	return path.Join("scripts", s)
}

func diskPrefabPath(clean string) string {
	return filepath.Join("prefabs", filepath.FromSlash(clean))
}
