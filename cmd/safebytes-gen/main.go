// Command safebytes-gen generates SafeBytes methods for struct types, with
// every padding range hardcoded from the host layout. It is meant to be run
// via go:generate in the package that owns the types:
//
//	//go:generate go run github.com/oy3o/safebytes/cmd/safebytes-gen -types Header,Record
//
// Every field of a requested type must be eligible: a scalar, an array of
// eligible types, or a struct type that is itself requested or already
// implements SafeBytes. Anything else aborts generation with a diagnostic
// naming the offending field; nothing is emitted for a partially eligible
// set of types.
package main

import (
	"flag"
	"fmt"
	"go/types"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/imports"
	"gopkg.in/yaml.v3"
)

// Config drives a generation run. It is populated either from flags or from
// a YAML manifest.
type Config struct {
	Package string   `yaml:"package"`
	Types   []string `yaml:"types"`
	Output  string   `yaml:"output"`
}

func main() {
	pkgPattern := flag.String("pkg", ".", "package pattern to generate for")
	typeNames := flag.String("types", "", "comma-separated struct type names")
	configPath := flag.String("config", "", "path to a YAML manifest (alternative to -pkg/-types)")
	output := flag.String("output", "", "output file (default safebytes_gen.go in the package directory)")
	flag.Parse()

	var cfg Config
	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			fmt.Fprintf(os.Stderr, "error: parsing %s: %v\n", *configPath, err)
			os.Exit(1)
		}
		if cfg.Package == "" {
			cfg.Package = "."
		}
	} else {
		cfg = Config{Package: *pkgPattern, Output: *output}
		for _, name := range strings.Split(*typeNames, ",") {
			if name = strings.TrimSpace(name); name != "" {
				cfg.Types = append(cfg.Types, name)
			}
		}
	}

	if len(cfg.Types) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: safebytes-gen -pkg <pattern> -types <A,B,...> [-output <file>] | -config <manifest.yaml>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg Config) error {
	pkgs, err := packages.Load(&packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedTypes | packages.NeedTypesSizes,
	}, cfg.Package)
	if err != nil {
		return fmt.Errorf("loading %s: %w", cfg.Package, err)
	}
	if len(pkgs) != 1 {
		return fmt.Errorf("pattern %q matched %d packages, want exactly 1", cfg.Package, len(pkgs))
	}
	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		return fmt.Errorf("loading %s: %v", pkg.PkgPath, pkg.Errors[0])
	}

	requested := make(map[string]bool, len(cfg.Types))
	for _, name := range cfg.Types {
		requested[name] = true
	}

	scope := pkg.Types.Scope()
	specs := make([]*typeSpec, 0, len(cfg.Types))
	for _, name := range cfg.Types {
		obj := scope.Lookup(name)
		if obj == nil {
			return fmt.Errorf("type %s not found in package %s", name, pkg.PkgPath)
		}
		st, ok := obj.Type().Underlying().(*types.Struct)
		if !ok {
			return fmt.Errorf("type %s is not a struct; generation supports struct types only", name)
		}
		spec, err := analyzeStruct(name, st, pkg.TypesSizes, requested)
		if err != nil {
			return err
		}
		specs = append(specs, spec)
	}

	code := renderFile(pkg.Name, specs)

	out := cfg.Output
	if out == "" {
		dir := "."
		if len(pkg.GoFiles) > 0 {
			dir = filepath.Dir(pkg.GoFiles[0])
		}
		out = filepath.Join(dir, "safebytes_gen.go")
	}
	if err := writeFormatted(out, code); err != nil {
		return err
	}
	fmt.Printf("  generated %s\n", out)
	return nil
}

// writeFormatted formats Go source code with goimports and writes it to a file.
func writeFormatted(path string, code string) error {
	formatted, err := imports.Process(path, []byte(code), nil)
	if err != nil {
		// Write unformatted so you can debug the generator output
		_ = os.WriteFile(path+".broken", []byte(code), 0o644)
		return fmt.Errorf("goimports %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, formatted, 0o644)
}
