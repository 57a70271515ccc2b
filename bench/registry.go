package bench

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// Marker is the name prefix identifying benchmark functions. Registered
// names must carry it; the identity stored on the definition has it
// stripped. Benchmark files follow the bench_*.go naming convention.
const Marker = "Bench"

// Directories never descended into during discovery.
var skipDirs = map[string]bool{
	".git":         true,
	"vendor":       true,
	"testdata":     true,
	"node_modules": true,
}

// Registry collects benchmark definitions from registration calls. Benchmark
// files register through the package-level Register in their init functions;
// the harness then discovers definitions rooted at a path without ever
// loading code dynamically.
type Registry struct {
	defs []*Definition
	errs []error
	seen map[string]string // identity -> registering file
}

// NewRegistry returns an empty registry. Most suites use the package-level
// default instead.
func NewRegistry() *Registry {
	return &Registry{seen: map[string]string{}}
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry that package-level Register
// feeds into.
func Default() *Registry { return defaultRegistry }

// Register adds a benchmark function to the default registry, capturing the
// caller's source file as the definition's origin. Names without the Bench
// marker are ignored. Intended to be called from init in bench_*.go files.
func Register(name string, fn Func, opts ...Option) {
	file := "unknown"
	if _, f, _, ok := runtime.Caller(1); ok {
		file = f
	}
	defaultRegistry.RegisterFrom(file, name, fn, opts...)
}

// Register adds a benchmark function to this registry, capturing the
// caller's source file.
func (r *Registry) Register(name string, fn Func, opts ...Option) {
	file := "unknown"
	if _, f, _, ok := runtime.Caller(1); ok {
		file = f
	}
	r.RegisterFrom(file, name, fn, opts...)
}

// RegisterFrom records one definition originating from an explicit source
// file. Structural problems are collected rather than returned: registration
// runs from init, so errors surface as a fatal discovery error on the next
// Discover call. Register is the usual entry point; RegisterFrom exists for
// generated registration code and tests.
func (r *Registry) RegisterFrom(file, name string, fn Func, opts ...Option) {
	if !strings.HasPrefix(name, Marker) {
		// Not a benchmark; same contract as ignoring non-marker callables.
		return
	}
	identity := strings.TrimPrefix(name, Marker)
	if identity == "" {
		r.errs = append(r.errs, fmt.Errorf("%s: benchmark name is only the %q marker", file, Marker))
		return
	}
	if fn == nil {
		r.errs = append(r.errs, fmt.Errorf("%s: benchmark %s has a nil function", file, identity))
		return
	}
	if prev, dup := r.seen[identity]; dup {
		r.errs = append(r.errs, fmt.Errorf("duplicate benchmark %s registered in %s and %s", identity, prev, file))
		return
	}
	r.seen[identity] = file

	def := &Definition{Name: identity, File: file, Fn: fn}
	for _, opt := range opts {
		opt(def)
	}
	r.defs = append(r.defs, def)
}

// Discover returns the definitions whose registering file falls under root,
// in stable order: files sorted lexicographically, registration order within
// a file. Root may be a directory (walked recursively for bench_*.go files,
// skipping artifact directories) or a single file (taken as-is). Any
// registration error aborts discovery: a partially loaded suite would
// invalidate historical comparability.
func (r *Registry) Discover(root string) ([]*Definition, error) {
	if len(r.errs) > 0 {
		return nil, fmt.Errorf("benchmark registration failed: %w", errors.Join(r.errs...))
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("benchmark path %s: %w", root, err)
	}

	var files []string
	if info.IsDir() {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if skipDirs[d.Name()] {
					return filepath.SkipDir
				}
				return nil
			}
			if isBenchFile(d.Name()) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking benchmark path %s: %w", root, err)
		}
	} else {
		files = []string{root}
	}
	sort.Strings(files)

	var defs []*Definition
	for _, file := range files {
		for _, def := range r.defs {
			if sameFile(def.File, file) {
				defs = append(defs, def)
			}
		}
	}
	return defs, nil
}

func isBenchFile(name string) bool {
	return strings.HasPrefix(name, "bench_") && strings.HasSuffix(name, ".go") &&
		!strings.HasSuffix(name, "_test.go")
}

// sameFile matches a compile-time registration path against a discovered
// path. The walk may report paths relative to the working directory, so the
// discovered path is resolved to its absolute, symlink-free form before
// comparing. Registrations from trimmed builds carry module-relative paths;
// those match as a suffix of the resolved discovered path.
func sameFile(registered, discovered string) bool {
	a := filepath.ToSlash(filepath.Clean(registered))
	b := filepath.ToSlash(filepath.Clean(discovered))
	if a == b {
		return true
	}

	abs, err := filepath.Abs(discovered)
	if err != nil {
		return false
	}
	if a == filepath.ToSlash(abs) {
		return true
	}
	if ra, err := filepath.EvalSymlinks(registered); err == nil {
		if rb, err := filepath.EvalSymlinks(abs); err == nil &&
			filepath.ToSlash(ra) == filepath.ToSlash(rb) {
			return true
		}
	}
	return !filepath.IsAbs(a) && strings.HasSuffix(filepath.ToSlash(abs), "/"+a)
}
