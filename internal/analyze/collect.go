package analyze

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"sort"
	"strings"
)

// Package is the slice of a loaded package the analyzer needs. It can be
// built from golang.org/x/tools/go/packages output or by hand in tests.
type Package struct {
	Path  string
	Name  string
	Dir   string
	Fset  *token.FileSet
	Types *types.Package
	Files []*ast.File
}

// Mapping is one resolved source to destination mapping.
type Mapping struct {
	Source      *types.TypeName
	Destination *types.TypeName
	Pairs       []Pair
}

// Plan holds every mapping to generate for one package.
type Plan struct {
	Package  *Package
	Mappings []*Mapping
}

// Collect resolves the mappings declared in pkg by directives, plus the
// config mappings whose destination lives in pkg. It reports the config
// mappings it consumed so the caller can flag the ones no package claimed.
func Collect(pkg *Package, cfg *Config) (*Plan, []int, error) {
	plan := &Plan{Package: pkg}
	seen := make(map[[2]*types.TypeName]bool)
	add := func(src, dst *types.TypeName, with []WithConfig, ignore []string) error {
		key := [2]*types.TypeName{src, dst}
		if seen[key] {
			return fmt.Errorf("duplicate mapping from %s to %s", src.Name(), dst.Name())
		}
		seen[key] = true
		m, err := resolve(pkg, cfg, src, dst, with, ignore)
		if err != nil {
			return err
		}
		plan.Mappings = append(plan.Mappings, m)
		return nil
	}

	for _, file := range pkg.Files {
		dirs, err := structDirectives(pkg.Fset, file)
		if err != nil {
			return nil, nil, err
		}
		names := make([]string, 0, len(dirs))
		for name := range dirs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			d := dirs[name]
			dst := pkg.Types.Scope().Lookup(name).(*types.TypeName)
			for _, from := range d.From {
				src, err := lookupType(pkg.Types, from.Args[0])
				if err != nil {
					return nil, nil, fmt.Errorf("%s: %s: %w", pkg.Fset.Position(from.Pos), name, err)
				}
				if err := add(src, dst, d.With, d.Ignore); err != nil {
					return nil, nil, fmt.Errorf("%s: %w", pkg.Fset.Position(from.Pos), err)
				}
			}
		}
	}

	var used []int
	if cfg != nil {
		for i, mc := range cfg.Mappings {
			obj, ok := pkg.Types.Scope().Lookup(mc.To).(*types.TypeName)
			if !ok {
				continue
			}
			src, err := lookupType(pkg.Types, mc.From)
			if err != nil {
				return nil, nil, fmt.Errorf("config mapping %s -> %s: %w", mc.From, mc.To, err)
			}
			if err := add(src, obj, mc.With, mc.Ignore); err != nil {
				return nil, nil, fmt.Errorf("config mapping %s -> %s: %w", mc.From, mc.To, err)
			}
			used = append(used, i)
		}
	}
	return plan, used, nil
}

func resolve(pkg *Package, cfg *Config, src, dst *types.TypeName, with []WithConfig, ignore []string) (*Mapping, error) {
	ss, err := structOf(src)
	if err != nil {
		return nil, err
	}
	ds, err := structOf(dst)
	if err != nil {
		return nil, err
	}
	pairs, err := MatchFields(ss, ds, MatchOptions{
		TagKey:      cfg.tagKey(),
		TagMatching: cfg.tagMatching(),
		Package:     pkg.Types,
		With:        with,
		Ignore:      ignore,
	})
	if err != nil {
		return nil, fmt.Errorf("mapping %s to %s: %w", src.Name(), dst.Name(), err)
	}
	return &Mapping{Source: src, Destination: dst, Pairs: pairs}, nil
}

func structOf(obj *types.TypeName) (*types.Struct, error) {
	named, ok := obj.Type().(*types.Named)
	if !ok {
		return nil, fmt.Errorf("%s is not a named type", obj.Name())
	}
	if named.TypeParams().Len() > 0 {
		return nil, fmt.Errorf("%s: generic types are not supported", obj.Name())
	}
	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return nil, fmt.Errorf("%s is not a struct type", obj.Name())
	}
	return st, nil
}

// lookupType resolves "Name" in pkg's scope or "pkgname.Name" among pkg's imports.
func lookupType(pkg *types.Package, name string) (*types.TypeName, error) {
	qual, local, ok := strings.Cut(name, ".")
	if !ok {
		obj, ok := pkg.Scope().Lookup(name).(*types.TypeName)
		if !ok {
			return nil, fmt.Errorf("type %s not found in package %s", name, pkg.Name())
		}
		return obj, nil
	}
	for _, imp := range pkg.Imports() {
		if imp.Name() != qual {
			continue
		}
		obj, ok := imp.Scope().Lookup(local).(*types.TypeName)
		if !ok || !obj.Exported() {
			return nil, fmt.Errorf("type %s not found in package %s", local, imp.Path())
		}
		return obj, nil
	}
	return nil, fmt.Errorf("package %s is not imported by %s", qual, pkg.Name())
}

// PairSummary and MappingSummary are the plain form of a plan, printed by -v
// and dumped by -dump.
type PairSummary struct {
	From   string
	To     string
	Origin string
}

type MappingSummary struct {
	Package     string
	Source      string
	Destination string
	Pairs       []PairSummary
}

// Summary flattens the plan into plain strings.
func (p *Plan) Summary() []MappingSummary {
	out := make([]MappingSummary, 0, len(p.Mappings))
	for _, m := range p.Mappings {
		ms := MappingSummary{
			Package:     p.Package.Path,
			Source:      types.TypeString(m.Source.Type(), types.RelativeTo(p.Package.Types)),
			Destination: m.Destination.Name(),
		}
		for _, pr := range m.Pairs {
			ms.Pairs = append(ms.Pairs, PairSummary{From: pr.From.Selector("from"), To: pr.To.Selector("to"), Origin: pr.Origin})
		}
		out = append(out, ms)
	}
	return out
}
