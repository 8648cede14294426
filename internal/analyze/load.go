package analyze

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// BuildTag is set while loading so previously generated files, which are
// constrained with //go:build !mapgen, never take part in analysis.
const BuildTag = "mapgen"

// Load loads the packages matching patterns from wd and collects a plan for
// each package that declares at least one mapping. Packages without mappings
// are skipped. A config mapping whose destination no package declares is an error.
func Load(ctx context.Context, wd string, env []string, tags string, cfg *Config, patterns []string) ([]*Plan, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}
	pcfg := &packages.Config{
		Mode:       LoadMode,
		Context:    ctx,
		Dir:        wd,
		Env:        env,
		BuildFlags: []string{"-tags=" + BuildTag},
	}
	if tags != "" {
		pcfg.BuildFlags[0] += "," + tags
	}

	pkgs, err := packages.Load(pcfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found: %v", patterns)
	}

	var errs error
	typeErrs := make(map[*packages.Package][]error)
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			if e.Pos != "" {
				path, rowcol, _ := strings.Cut(e.Pos, ":")
				if rel, relErr := filepath.Rel(wd, path); relErr == nil {
					e.Pos = rel + ":" + rowcol
				}
			}
			// code calling generated functions does not type check while
			// they are hidden; a mapping over a broken field type reports them
			if e.Kind == packages.TypeError {
				typeErrs[pkg] = append(typeErrs[pkg], e)
				continue
			}
			if e.Pos == "" {
				errs = errors.Join(errs, errors.New(e.Msg))
				continue
			}
			errs = errors.Join(errs, e)
		}
	}
	if errs != nil {
		return nil, errs
	}

	var plans []*Plan
	claimed := make(map[int]bool)
	for _, p := range pkgs {
		if len(p.GoFiles) == 0 {
			continue
		}
		plan, used, err := Collect(fromPackages(p), cfg)
		if err != nil {
			return nil, errors.Join(append([]error{err}, typeErrs[p]...)...)
		}
		for _, i := range used {
			claimed[i] = true
		}
		if len(plan.Mappings) > 0 {
			plans = append(plans, plan)
		}
	}
	if cfg != nil {
		for i, mc := range cfg.Mappings {
			if !claimed[i] {
				errs = errors.Join(errs, fmt.Errorf("config mapping %s -> %s: destination type not found in %v", mc.From, mc.To, patterns))
			}
		}
	}
	if errs != nil {
		return nil, errs
	}
	return plans, nil
}

func fromPackages(p *packages.Package) *Package {
	return &Package{
		Path:  p.PkgPath,
		Name:  p.Name,
		Dir:   filepath.Dir(p.GoFiles[0]),
		Fset:  p.Fset,
		Types: p.Types,
		Files: p.Syntax,
	}
}
