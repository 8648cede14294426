package gen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"testing"

	"github.com/Station-Manager/mapper/internal/analyze"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type importerFunc func(path string) (*types.Package, error)

func (f importerFunc) Import(path string) (*types.Package, error) { return f(path) }

// runtimeStub declares the one symbol generated code uses from the runtime package.
const runtimeStub = `package mapper

func RegisterGenerated[S, D any](fn func(*D, S) *D) {}
`

type testPackages struct {
	t    *testing.T
	fset *token.FileSet
	pkgs map[string]*analyze.Package
}

func newTestPackages(t *testing.T) *testPackages {
	tp := &testPackages{t: t, fset: token.NewFileSet(), pkgs: make(map[string]*analyze.Package)}
	tp.add(MapperPath, runtimeStub)
	return tp
}

func (tp *testPackages) Import(path string) (*types.Package, error) {
	if p, ok := tp.pkgs[path]; ok {
		return p.Types, nil
	}
	return nil, fmt.Errorf("unknown import %s", path)
}

func (tp *testPackages) check(path string, files ...*ast.File) (*types.Package, error) {
	conf := types.Config{Importer: importerFunc(tp.Import)}
	return conf.Check(path, tp.fset, files, nil)
}

func (tp *testPackages) add(path string, src string) *analyze.Package {
	tp.t.Helper()
	file, err := parser.ParseFile(tp.fset, path+"/source.go", src, parser.ParseComments)
	require.NoError(tp.t, err)
	typ, err := tp.check(path, file)
	require.NoError(tp.t, err)
	p := &analyze.Package{Path: path, Name: typ.Name(), Dir: "/src/" + path, Fset: tp.fset, Types: typ, Files: []*ast.File{file}}
	tp.pkgs[path] = p
	return p
}

// compiles type checks the package together with its generated file.
func (tp *testPackages) compiles(pkg *analyze.Package, generated []byte) {
	tp.t.Helper()
	file, err := parser.ParseFile(tp.fset, pkg.Path+"/mapper_gen.go", generated, parser.ParseComments)
	require.NoError(tp.t, err)
	_, err = tp.check(pkg.Path+"_gen", append(append([]*ast.File(nil), pkg.Files...), file)...)
	require.NoError(tp.t, err, string(generated))
}

const peopleSrc = `package people

type Person struct {
	FirstName  string
	LastName   string
	MiddleName string
}

//mapper:from Person
//mapper:with MiddleName OptionalName
type PersonViewModel struct {
	FirstName    string
	FamilyName   string ` + "`mapsfrom:\"LastName\"`" + `
	OptionalName string
}
`

const wantPeople = `// Code generated by mapgen. DO NOT EDIT.

//go:build !mapgen

package people

import (
	"github.com/Station-Manager/mapper"
)

func init() {
	mapper.RegisterGenerated((*PersonViewModel).FromPerson)
}

// ToPersonViewModel returns a new PersonViewModel populated from Person.
func ToPersonViewModel(from Person) PersonViewModel {
	var to PersonViewModel
	to.FromPerson(from)
	return to
}

// FromPerson copies the paired fields of from into to and returns to.
func (to *PersonViewModel) FromPerson(from Person) *PersonViewModel {
	to.FirstName = from.FirstName
	to.FamilyName = from.LastName
	to.OptionalName = from.MiddleName
	return to
}
`

func TestRender_Basic(t *testing.T) {
	tp := newTestPackages(t)
	pkg := tp.add("example.com/people", peopleSrc)

	plan, _, err := analyze.Collect(pkg, nil)
	require.NoError(t, err)

	out, err := Render(plan)
	require.NoError(t, err)
	assert.Equal(t, wantPeople, string(out))
	tp.compiles(pkg, out)
}

func TestRender_EmbeddedPointersAndForeignSource(t *testing.T) {
	tp := newTestPackages(t)
	tp.add("example.com/model", `package model

type Contact struct {
	Email string
	Phone string
}

type Person struct {
	*Contact
	Name string
}
`)
	view := tp.add("example.com/view", `package view

import "example.com/model"

type Details struct {
	Phone string
}

//mapper:from model.Person
type PersonView struct {
	Name  string
	Email string
	*Details
}

var _ model.Person
`)

	plan, _, err := analyze.Collect(view, nil)
	require.NoError(t, err)
	out, err := Render(plan)
	require.NoError(t, err)

	src := string(out)
	assert.Contains(t, src, `"example.com/model"`)
	assert.Contains(t, src, "func ToPersonView(from model.Person) PersonView {")
	assert.Contains(t, src, "\tto.Name = from.Name\n")
	assert.Contains(t, src, "\tif from.Contact != nil {\n\t\tto.Email = from.Contact.Email\n\t}\n")
	assert.Contains(t, src, "\tif from.Contact != nil {\n\t\tif to.Details == nil {\n\t\t\tto.Details = new(Details)\n\t\t}\n\t\tto.Details.Phone = from.Contact.Phone\n\t}\n")
	tp.compiles(view, out)
}

func TestRender_SeveralSourcesForOneDestination(t *testing.T) {
	tp := newTestPackages(t)
	pkg := tp.add("example.com/people", `package people

type Person struct{ Name string }

type Employee struct{ Name string }

//mapper:from Person
//mapper:from Employee
type Badge struct{ Name string }
`)
	plan, _, err := analyze.Collect(pkg, nil)
	require.NoError(t, err)
	out, err := Render(plan)
	require.NoError(t, err)

	src := string(out)
	assert.Contains(t, src, "func PersonToBadge(from Person) Badge {")
	assert.Contains(t, src, "func EmployeeToBadge(from Employee) Badge {")
	assert.Contains(t, src, "func (to *Badge) FromEmployee(from Employee) *Badge {")
	tp.compiles(pkg, out)
}

func TestRender_RenamesClashingImport(t *testing.T) {
	tp := newTestPackages(t)
	tp.add("example.com/other/mapper", `package mapper

type Person struct{ Name string }
`)
	pkg := tp.add("example.com/people", `package people

import othermapper "example.com/other/mapper"

//mapper:from mapper.Person
type View struct{ Name string }

var _ othermapper.Person
`)
	// directives name imports by package name, not by local alias
	plan, _, err := analyze.Collect(pkg, nil)
	require.NoError(t, err)
	out, err := Render(plan)
	require.NoError(t, err)

	src := string(out)
	assert.Contains(t, src, "\t\"github.com/Station-Manager/mapper\"\n")
	assert.Contains(t, src, "mapper2 \"example.com/other/mapper\"")
	assert.Contains(t, src, "mapper.RegisterGenerated((*View).FromPerson)")
	assert.Contains(t, src, "func ToView(from mapper2.Person) View {")
	tp.compiles(pkg, out)
}

func TestRender_NoMappings(t *testing.T) {
	tp := newTestPackages(t)
	pkg := tp.add("example.com/empty", "package empty\n")
	_, err := Render(&analyze.Plan{Package: pkg})
	assert.ErrorContains(t, err, "declares no mappings")
}

func TestGenerateAndWrite(t *testing.T) {
	tp := newTestPackages(t)
	pkg := tp.add("example.com/people", peopleSrc)
	pkg.Dir = filepath.Join(t.TempDir(), "people")

	plan, _, err := analyze.Collect(pkg, nil)
	require.NoError(t, err)

	files, err := Generate([]*analyze.Plan{plan}, "")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(pkg.Dir, DefaultOutput), files[0].Filename)

	require.NoError(t, WriteFiles(files))
	got, err := os.ReadFile(files[0].Filename)
	require.NoError(t, err)
	assert.Equal(t, wantPeople, string(got))
}
