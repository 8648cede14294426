package analyze

import (
	"fmt"
	"go/ast"
	"go/token"
	"strings"
)

const directivePrefix = "//mapper:"

// Directive kinds recognised in struct doc comments.
const (
	DirectiveFrom   = "from"   // //mapper:from <SourceType>
	DirectiveWith   = "with"   // //mapper:with <SourceField> <DestinationField>
	DirectiveIgnore = "ignore" // //mapper:ignore <DestinationField>
)

// Directive is a single //mapper: line.
type Directive struct {
	Kind string
	Args []string
	Pos  token.Pos
}

// Directives groups the directives attached to one destination struct.
type Directives struct {
	From   []Directive
	With   []WithConfig
	Ignore []string
}

func (d *Directives) empty() bool {
	return d == nil || (len(d.From) == 0 && len(d.With) == 0 && len(d.Ignore) == 0)
}

// parseDirectives reads the //mapper: lines of a doc comment.
func parseDirectives(doc *ast.CommentGroup) (*Directives, error) {
	if doc == nil {
		return nil, nil
	}
	d := &Directives{}
	for _, c := range doc.List {
		if !strings.HasPrefix(c.Text, directivePrefix) {
			continue
		}
		fields := strings.Fields(strings.TrimPrefix(c.Text, directivePrefix))
		if len(fields) == 0 {
			return nil, fmt.Errorf("empty mapper directive")
		}
		dir := Directive{Kind: fields[0], Args: fields[1:], Pos: c.Slash}
		switch dir.Kind {
		case DirectiveFrom:
			if len(dir.Args) != 1 {
				return nil, fmt.Errorf("mapper:from wants one source type, got %d arguments", len(dir.Args))
			}
			d.From = append(d.From, dir)
		case DirectiveWith:
			if len(dir.Args) != 2 {
				return nil, fmt.Errorf("mapper:with wants a source and a destination field, got %d arguments", len(dir.Args))
			}
			d.With = append(d.With, WithConfig{From: dir.Args[0], To: dir.Args[1]})
		case DirectiveIgnore:
			if len(dir.Args) == 0 {
				return nil, fmt.Errorf("mapper:ignore wants at least one destination field")
			}
			d.Ignore = append(d.Ignore, dir.Args...)
		default:
			return nil, fmt.Errorf("unknown mapper directive %q", dir.Kind)
		}
	}
	if d.empty() {
		return nil, nil
	}
	if len(d.From) == 0 {
		return nil, fmt.Errorf("mapper:with and mapper:ignore need a mapper:from directive")
	}
	return d, nil
}

// structDirectives returns the directives of every struct type declared in
// file, keyed by type name. A lone type declaration keeps its doc comment on
// the GenDecl; grouped declarations keep it on each TypeSpec.
func structDirectives(fset *token.FileSet, file *ast.File) (map[string]*Directives, error) {
	out := make(map[string]*Directives)
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts := spec.(*ast.TypeSpec)
			doc := ts.Doc
			if doc == nil && len(gd.Specs) == 1 {
				doc = gd.Doc
			}
			d, err := parseDirectives(doc)
			if err != nil {
				return nil, fmt.Errorf("%s: %s: %w", fset.Position(ts.Pos()), ts.Name.Name, err)
			}
			if d == nil {
				continue
			}
			if _, ok := ts.Type.(*ast.StructType); !ok {
				return nil, fmt.Errorf("%s: %s: mapper directives only apply to struct types", fset.Position(ts.Pos()), ts.Name.Name)
			}
			out[ts.Name.Name] = d
		}
	}
	return out, nil
}
