package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"go/types"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/Station-Manager/mapper/internal/analyze"
)

// MapperPath is the import path of the runtime package generated files register with.
const MapperPath = "github.com/Station-Manager/mapper"

// DefaultOutput is the file name written into each package with mappings.
const DefaultOutput = "mapper_gen.go"

// GeneratedFile represents a single generated Go source file.
type GeneratedFile struct {
	// Filename is the path of the file, inside the package directory.
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// Generate renders one file per plan. output is the base file name.
func Generate(plans []*analyze.Plan, output string) ([]GeneratedFile, error) {
	if output == "" {
		output = DefaultOutput
	}
	files := make([]GeneratedFile, 0, len(plans))
	for _, plan := range plans {
		content, err := Render(plan)
		if err != nil {
			return nil, fmt.Errorf("generating %s: %w", plan.Package.Path, err)
		}
		files = append(files, GeneratedFile{Filename: filepath.Join(plan.Package.Dir, output), Content: content})
	}
	return files, nil
}

// Render produces the formatted source for a single plan.
func Render(plan *analyze.Plan) ([]byte, error) {
	data, err := buildTemplateData(plan)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}
	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting generated code: %w\n%s", err, buf.Bytes())
	}
	return formatted, nil
}

type templateData struct {
	Package    string
	BuildTag   string
	MapperQual string
	Imports    []importSpec
	Mappings   []mappingData
}

type importSpec struct {
	Name string // empty unless the package is renamed
	Path string
}

type mappingData struct {
	Src     string
	Dst     string
	Method  string
	ToFunc  string
	Assigns []assignData
}

type assignData struct {
	Guards []string // nil checks on the source path
	Allocs []allocData
	Dst    string
	Src    string
}

type allocData struct {
	Expr string
	Type string
}

// imports hands out package qualifiers, renaming packages whose names clash.
type imports struct {
	self   *types.Package
	names  map[string]string // path -> name used in the file
	taken  map[string]string // name -> path
	result []importSpec
}

func newImports(self *types.Package) *imports {
	return &imports{self: self, names: make(map[string]string), taken: make(map[string]string)}
}

func (im *imports) qualifier(p *types.Package) string {
	if p == nil || p.Path() == im.self.Path() {
		return ""
	}
	return im.use(p.Path(), p.Name())
}

func (im *imports) use(path, name string) string {
	if n, ok := im.names[path]; ok {
		return n
	}
	n := name
	for i := 2; ; i++ {
		if _, clash := im.taken[n]; !clash && im.self.Scope().Lookup(n) == nil {
			break
		}
		n = name + strconv.Itoa(i)
	}
	im.names[path] = n
	im.taken[n] = path
	spec := importSpec{Path: path}
	if n != name {
		spec.Name = n
	}
	im.result = append(im.result, spec)
	return n
}

func (im *imports) specs() []importSpec {
	out := append([]importSpec(nil), im.result...)
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func buildTemplateData(plan *analyze.Plan) (*templateData, error) {
	if len(plan.Mappings) == 0 {
		return nil, fmt.Errorf("package %s declares no mappings", plan.Package.Path)
	}
	self := plan.Package.Types
	im := newImports(self)
	data := &templateData{Package: plan.Package.Name, BuildTag: analyze.BuildTag}
	if self.Path() != MapperPath {
		data.MapperQual = im.use(MapperPath, "mapper") + "."
	}

	// To<Dst> is only unambiguous when one source maps to Dst
	perDst := make(map[string]int)
	for _, m := range plan.Mappings {
		perDst[m.Destination.Name()]++
	}

	methods := make(map[string]string) // "Dst.Method" -> source
	for _, m := range plan.Mappings {
		if m.Destination.Pkg() == nil || m.Destination.Pkg().Path() != self.Path() {
			return nil, fmt.Errorf("destination %s must be declared in package %s", m.Destination.Name(), self.Path())
		}
		src := types.TypeString(m.Source.Type(), im.qualifier)
		dst := m.Destination.Name()
		md := mappingData{
			Src:    src,
			Dst:    dst,
			Method: "From" + m.Source.Name(),
			ToFunc: "To" + dst,
		}
		if perDst[dst] > 1 {
			md.ToFunc = m.Source.Name() + "To" + dst
		}
		key := dst + "." + md.Method
		if prev, ok := methods[key]; ok {
			return nil, fmt.Errorf("%s and %s both generate method %s", prev, src, key)
		}
		methods[key] = src

		for _, p := range m.Pairs {
			md.Assigns = append(md.Assigns, buildAssign(p, im))
		}
		data.Mappings = append(data.Mappings, md)
	}
	data.Imports = im.specs()
	return data, nil
}

func buildAssign(p analyze.Pair, im *imports) assignData {
	a := assignData{Dst: p.To.Selector("to"), Src: p.From.Selector("from")}
	sel := "from"
	for _, s := range p.From.Path {
		sel += "." + s.Name
		if s.Pointer {
			a.Guards = append(a.Guards, sel+" != nil")
		}
	}
	sel = "to"
	for _, s := range p.To.Path {
		sel += "." + s.Name
		if s.Pointer {
			a.Allocs = append(a.Allocs, allocData{Expr: sel, Type: types.TypeString(s.Type, im.qualifier)})
		}
	}
	return a
}

var fileTemplate = template.Must(template.New("mapper").Funcs(template.FuncMap{
	"joinGuards": func(guards []string) string { return strings.Join(guards, " && ") },
}).Parse(`// Code generated by mapgen. DO NOT EDIT.

//go:build !{{.BuildTag}}

package {{.Package}}
{{if .Imports}}
import (
{{- range .Imports}}
	{{if .Name}}{{.Name}} {{end}}"{{.Path}}"
{{- end}}
)
{{end}}
func init() {
{{- range .Mappings}}
	{{$.MapperQual}}RegisterGenerated((*{{.Dst}}).{{.Method}})
{{- end}}
}
{{range .Mappings}}
// {{.ToFunc}} returns a new {{.Dst}} populated from {{.Src}}.
func {{.ToFunc}}(from {{.Src}}) {{.Dst}} {
	var to {{.Dst}}
	to.{{.Method}}(from)
	return to
}

// {{.Method}} copies the paired fields of from into to and returns to.
func (to *{{.Dst}}) {{.Method}}(from {{.Src}}) *{{.Dst}} {
{{- range .Assigns}}
{{- if .Guards}}
	if {{joinGuards .Guards}} {
{{- range .Allocs}}
		if {{.Expr}} == nil {
			{{.Expr}} = new({{.Type}})
		}
{{- end}}
		{{.Dst}} = {{.Src}}
	}
{{- else}}
{{- range .Allocs}}
	if {{.Expr}} == nil {
		{{.Expr}} = new({{.Type}})
	}
{{- end}}
	{{.Dst}} = {{.Src}}
{{- end}}
{{- end}}
	return to
}
{{end}}`))
