package main

import (
	"fmt"
	"strings"
	"text/template"
)

// funcMap provides helper functions available to all templates.
var funcMap = template.FuncMap{
	"recv": func(name string) string { return strings.ToLower(name[:1]) },
}

// templates holds all parsed code generation templates.
var templates = template.Must(template.New("").Funcs(funcMap).Parse(headerTmpl + methodTmpl))

// renderTemplate executes a named template into the builder.
func renderTemplate(b *strings.Builder, name string, data any) {
	if err := templates.ExecuteTemplate(b, name, data); err != nil {
		panic(fmt.Sprintf("template %s: %v", name, err))
	}
}

// fileData is the root data handed to the header template.
type fileData struct {
	Package string
	Types   []*typeSpec
}

const headerTmpl = `{{define "header"}}// Code generated by safebytes-gen. DO NOT EDIT.

package {{.Package}}

import (
	"unsafe"

	"github.com/oy3o/safebytes"
)

{{range .Types}}var _ safebytes.Byter = (*{{.Name}})(nil)
{{end}}
{{range .Types}}// Layout guard for {{.Name}}: the build fails if the host layout diverges
// from the layout the generator computed.
var _ [{{.Size}}]byte = [unsafe.Sizeof({{.Name}}{})]byte{}

{{end}}{{end}}`

const methodTmpl = `{{define "method"}}{{$r := recv .Name}}// SafeBytes zeroes the padding bytes of the value in place and returns a
// read-only view over its full in-memory representation.
func ({{$r}} *{{.Name}}) SafeBytes() []byte {
{{- range .Calls}}
{{- if .IsArray}}
	for i := range {{$r}}.{{.Field}} {
		{{$r}}.{{.Field}}[i].SafeBytes()
	}
{{- else}}
	{{$r}}.{{.Field}}.SafeBytes()
{{- end}}
{{- end}}
	b := unsafe.Slice((*byte)(unsafe.Pointer({{$r}})), {{.Size}})
{{- range .Gaps}}
	clear(b[{{.Off}}:{{.End}}])
{{- end}}
	return b
}

{{end}}`

// renderFile produces the complete generated source for one package.
func renderFile(pkgName string, specs []*typeSpec) string {
	var b strings.Builder
	renderTemplate(&b, "header", fileData{Package: pkgName, Types: specs})
	for _, spec := range specs {
		renderTemplate(&b, "method", spec)
	}
	return b.String()
}
