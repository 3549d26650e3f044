// Package manifest reads and writes asset registration manifests.
//
// A manifest is the registration input of an asset.Registry: the list of
// ids with their physical path and kind, produced by a build step. Manifests
// are YAML documents; JSON is accepted as well since it is valid YAML.
//
//	assets:
//	  - id: logo
//	    path: img/logo.png
//	    kind: image
//	  - id: theme
//	    path: audio/theme.ogg
//	    kind: music
package manifest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/meigma/asset"
)

// Entry is one registration record.
type Entry struct {
	ID   string     `yaml:"id"`
	Path string     `yaml:"path"`
	Kind asset.Kind `yaml:"kind"`
}

// UnmarshalYAML decodes an entry. The kind is required.
func (e *Entry) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		ID   string      `yaml:"id"`
		Path string      `yaml:"path"`
		Kind *asset.Kind `yaml:"kind"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if raw.Kind == nil {
		return fmt.Errorf("asset %q: %w: kind is required", raw.ID, asset.ErrInvalidKind)
	}
	*e = Entry{ID: raw.ID, Path: raw.Path, Kind: *raw.Kind}
	return nil
}

// Manifest is a list of registration records.
type Manifest struct {
	Assets []Entry `yaml:"assets"`
}

// Load reads a manifest file.
func Load(filename string) (*Manifest, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", filename, err)
	}
	return m, nil
}

// Parse decodes a manifest from data.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Decode decodes a manifest from r.
func Decode(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := yaml.NewDecoder(r).Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return &m, nil
		}
		return nil, err
	}
	return &m, nil
}

// Encode writes the manifest as YAML.
func (m *Manifest) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return err
	}
	return enc.Close()
}

// Register adds every entry to reg. All entries are attempted; the
// returned error joins every failure.
func (m *Manifest) Register(reg *asset.Registry) error {
	var errs []error
	for _, e := range m.Assets {
		if _, err := reg.Register(e.ID, e.Path, e.Kind); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Registry returns a new registry populated from the manifest.
func (m *Manifest) Registry() (*asset.Registry, error) {
	reg := asset.NewRegistry()
	if err := m.Register(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// FromPaths builds a manifest from slash-separated paths, using each path as
// its id and inferring kinds from extensions. Paths with unknown extensions
// are registered as binary.
func FromPaths(paths []string) *Manifest {
	m := &Manifest{Assets: make([]Entry, 0, len(paths))}
	for _, p := range paths {
		kind, ok := Infer(p)
		if !ok {
			kind = asset.KindBinary
		}
		m.Assets = append(m.Assets, Entry{ID: p, Path: p, Kind: kind})
	}
	sort.Slice(m.Assets, func(i, j int) bool { return m.Assets[i].ID < m.Assets[j].ID })
	return m
}

// Infer guesses the kind of a file from its extension.
func Infer(p string) (asset.Kind, bool) {
	kind, ok := extKinds[strings.ToLower(path.Ext(p))]
	return kind, ok
}

var extKinds = map[string]asset.Kind{
	".png":  asset.KindImage,
	".jpg":  asset.KindImage,
	".jpeg": asset.KindImage,
	".gif":  asset.KindImage,
	".bmp":  asset.KindImage,
	".webp": asset.KindImage,
	".ttf":  asset.KindFont,
	".otf":  asset.KindFont,
	".wav":  asset.KindAudio,
	".flac": asset.KindAudio,
	".ogg":  asset.KindMusic,
	".mp3":  asset.KindMusic,
	".txt":  asset.KindBinary,
	".json": asset.KindBinary,
	".xml":  asset.KindBinary,
	".bin":  asset.KindBinary,
}
