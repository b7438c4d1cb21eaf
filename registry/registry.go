// Package registry provides a static, file-backed implementation of the
// lang collaborators: a module registry and a system prober populated from
// a YAML document. It backs the CLI and makes evaluation behavior easy to
// pin down in tests, since every collaborator query is counted.
package registry

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/prereq/lang"
)

// Module describes one installed module in the environment file.
type Module struct {
	Version  string   `yaml:"version"`
	Features []string `yaml:"features"`
}

// Probes lists the system facts the builtin probe functions answer from.
type Probes struct {
	Includes []string `yaml:"includes"`
	Libs     []string `yaml:"libs"`
	Programs []string `yaml:"programs"`
}

// File is the YAML schema of a static environment.
type File struct {
	OSName   string            `yaml:"osname"`
	IThreads bool              `yaml:"ithreads"`
	Modules  map[string]Module `yaml:"modules"`
	Probes   Probes            `yaml:"probes"`
}

// Static implements lang.Registry and lang.Prober over a fixed environment
// description. It is safe for concurrent use, and counts queries by key so
// tests can assert short-circuit and memoization behavior.
type Static struct {
	osname   string
	ithreads bool
	versions map[string]lang.Version
	features map[string]map[string]bool
	includes map[string]bool
	libs     map[string]bool
	programs map[string]bool

	mu      sync.Mutex
	lookups map[string]int
}

// Load reads a static environment from a YAML file.
func Load(path string) (*Static, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads a static environment from YAML.
func Decode(r io.Reader) (*Static, error) {
	var file File

	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		// An empty document is an empty environment.
		if err == io.EOF {
			return New(File{}), nil
		}

		return nil, fmt.Errorf("decode environment: %w", err)
	}

	for name, mod := range file.Modules {
		if mod.Version == "" {
			// Installed with no declared version; still present.
			continue
		}

		if _, err := lang.ParseVersion(mod.Version); err != nil {
			return nil, fmt.Errorf("module %s: %w", name, err)
		}
	}

	return New(file), nil
}

// New builds a Static environment from an already-decoded File. Module
// versions must have been validated; malformed versions surface as
// evaluation errors.
func New(file File) *Static {
	s := &Static{
		osname:   file.OSName,
		ithreads: file.IThreads,
		versions: make(map[string]lang.Version, len(file.Modules)),
		features: make(map[string]map[string]bool, len(file.Modules)),
		includes: stringSet(file.Probes.Includes),
		libs:     stringSet(file.Probes.Libs),
		programs: stringSet(file.Probes.Programs),
		lookups:  make(map[string]int),
	}

	for name, mod := range file.Modules {
		v, err := lang.ParseVersion(mod.Version)
		if err != nil {
			// Present but unversioned modules compare as version zero.
			v = lang.Version{}
		}

		s.versions[name] = v
		s.features[name] = stringSet(mod.Features)
	}

	return s
}

// Env packages the static registry as a complete lang.Environment.
func (s *Static) Env() lang.Environment {
	return lang.Environment{
		Registry: s,
		Probes:   s,
		OSName:   s.osname,
		IThreads: s.ithreads,
	}
}

// InstalledVersion implements lang.Registry.
func (s *Static) InstalledVersion(
	_ context.Context,
	name string,
) (lang.Version, bool, error) {
	s.count("module:" + name)

	v, ok := s.versions[name]

	return v, ok, nil
}

// HasFeature implements lang.Registry.
func (s *Static) HasFeature(
	_ context.Context,
	name, feature string,
) (bool, error) {
	s.count("feature:" + name + "#" + feature)

	return s.features[name][feature], nil
}

// HasInclude implements lang.Prober.
func (s *Static) HasInclude(_ context.Context, name string) (bool, error) {
	s.count("include:" + name)

	return s.includes[name], nil
}

// HasLib implements lang.Prober.
func (s *Static) HasLib(_ context.Context, name string) (bool, error) {
	s.count("lib:" + name)

	return s.libs[name], nil
}

// HasProgram implements lang.Prober.
func (s *Static) HasProgram(_ context.Context, name string) (bool, error) {
	s.count("program:" + name)

	return s.programs[name], nil
}

// Lookups returns how many times the given key was queried. Keys take the
// form "module:NAME", "feature:NAME#FEATURE", "include:NAME", "lib:NAME",
// and "program:NAME".
func (s *Static) Lookups(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lookups[key]
}

func (s *Static) count(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lookups[key]++
}

func stringSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}

	return set
}
