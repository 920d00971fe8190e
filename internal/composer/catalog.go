package composer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk shape of a template catalog:
//
//	default: Shopping Center Norte
//	templates:
//	  - name: Shopping Center Norte
//	    file: shopping-center-norte.html
type catalogFile struct {
	Default   string         `yaml:"default"`
	Templates []catalogEntry `yaml:"templates"`
}

type catalogEntry struct {
	Name string `yaml:"name"`
	File string `yaml:"file"`
}

// Catalog maps template names to skeletons. Unknown names resolve to the
// fallback skeleton, so any template label can be submitted.
type Catalog struct {
	fallback  Skeleton
	skeletons map[string]Skeleton
}

// NewCatalog returns a catalog holding only the built-in skeleton.
func NewCatalog() *Catalog {
	return &Catalog{fallback: DefaultSkeleton(), skeletons: map[string]Skeleton{}}
}

// LoadCatalog reads a YAML catalog. Skeleton files are resolved relative to
// the catalog's directory and validated with ParseSkeleton.
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("composer: read catalog: %w", err)
	}
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("composer: parse catalog %s: %w", path, err)
	}
	cat := NewCatalog()
	dir := filepath.Dir(path)
	for _, entry := range file.Templates {
		name := strings.TrimSpace(entry.Name)
		if name == "" || strings.TrimSpace(entry.File) == "" {
			return nil, fmt.Errorf("composer: catalog %s: template entries need name and file", path)
		}
		skeletonPath := entry.File
		if !filepath.IsAbs(skeletonPath) {
			skeletonPath = filepath.Join(dir, skeletonPath)
		}
		body, err := os.ReadFile(skeletonPath)
		if err != nil {
			return nil, fmt.Errorf("composer: read skeleton %q: %w", name, err)
		}
		sk, err := ParseSkeleton(name, string(body))
		if err != nil {
			return nil, err
		}
		cat.skeletons[catalogKey(name)] = sk
	}
	if file.Default != "" {
		sk, ok := cat.skeletons[catalogKey(file.Default)]
		if !ok {
			return nil, fmt.Errorf("composer: catalog %s: default template %q is not listed", path, file.Default)
		}
		cat.fallback = sk
	}
	return cat, nil
}

// Lookup returns the skeleton registered for name, or the fallback.
func (c *Catalog) Lookup(name string) Skeleton {
	if c == nil {
		return DefaultSkeleton()
	}
	if sk, ok := c.skeletons[catalogKey(name)]; ok {
		return sk
	}
	return c.fallback
}

// Names lists the registered template names in sorted order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.skeletons))
	for _, sk := range c.skeletons {
		names = append(names, sk.Name)
	}
	sort.Strings(names)
	return names
}

func catalogKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
