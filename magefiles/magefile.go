//go:build mage

// Package main contains Mage build targets for pandoc-docx-utils developer
// tooling.
package main

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "pandoc-docx-utils"
	cmdPkg  = "./cmd/pandoc-docx-utils"

	configFile = "pandoc-docx-utils.yaml"
	rasterDir  = "svg"
	outDir     = "out"
)

// sampleConfig is written by Init when no config file exists.
const sampleConfig = `# pandoc-docx-utils configuration
log:
  level: warn
raster:
  tool: rsvg-convert
  dir: svg
  mode: async
  await: false
lists:
  max-depth: 2
styles:
  defaults: {}
ledger:
  path: ""
metrics:
  textfile: ""
`

// Init creates the raster output directory and a starter config file.
func Init() error {
	if err := os.MkdirAll(rasterDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", rasterDir, err)
	}
	fmt.Println("  ", rasterDir)

	if _, err := os.Stat(configFile); err == nil {
		fmt.Println("  ", configFile, "(exists)")
		return nil
	}
	if err := os.WriteFile(configFile, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", configFile, err)
	}
	fmt.Println("  ", configFile)
	return nil
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	ldflags := "-X main.version=" + buildVersion()
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// buildVersion describes the working tree with git, falling back to "dev".
func buildVersion() string {
	v, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || strings.TrimSpace(v) == "" {
		return "dev"
	}
	return strings.TrimSpace(v)
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Check builds the binary and reports whether rsvg-convert and pandoc are
// installed.
func Check() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "check")
}

// Clean removes build output, converted images and sample documents.
func Clean() error {
	for _, dir := range []string{binDir, rasterDir, outDir} {
		if err := sh.Rm(dir); err != nil {
			return err
		}
	}
	return nil
}

// Sample groups targets that run the filter on the bundled sample document.
type Sample mg.Namespace

// Docx converts testdata/sample.md to out/sample.docx through pandoc.
func (Sample) Docx() error {
	mg.Deps(Build, Init)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", outDir, err)
	}
	return sh.RunV(filepath.Join(binDir, binName), "convert",
		filepath.Join("testdata", "sample.md"),
		"-o", filepath.Join(outDir, "sample.docx"),
		"--log-level", "info")
}

// Styles prints the style table resolved for the sample document.
func (Sample) Styles() error {
	mg.Deps(Build)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", outDir, err)
	}
	doc := filepath.Join(outDir, "sample.json")
	if err := sh.Run("pandoc", filepath.Join("testdata", "sample.md"), "-t", "json", "-o", doc); err != nil {
		return fmt.Errorf("pandoc: %w", err)
	}
	return sh.RunV(filepath.Join(binDir, binName), "styles", "--from", doc)
}

// Stats prints project metrics: Go production/test LOC and documentation word
// count (Markdown and YAML at the repository root).
func Stats() error {
	var prodLines, testLines int
	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		n, err := countLines(path)
		if err != nil {
			return err
		}
		if strings.HasSuffix(path, "_test.go") {
			testLines += n
		} else {
			prodLines += n
		}
		return nil
	})
	if err != nil {
		return err
	}

	docWords, err := countDocWords(".")
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	fmt.Printf("Words (documentation):           %d\n", docWords)
	return nil
}

// skipDir reports whether a directory is excluded from Stats: hidden and
// underscore-prefixed directories, build output, and testdata.
func skipDir(path string) bool {
	base := filepath.Base(path)
	if path == "." {
		return false
	}
	return strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_") ||
		base == binDir || base == outDir || base == "testdata"
}

// countLines counts the non-blank lines of a file.
func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	n := 0
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			n++
		}
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	return n, nil
}

// countDocWords counts words in the .md and .yaml files directly in dir.
func countDocWords(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, e := range entries {
		switch filepath.Ext(e.Name()) {
		case ".md", ".yaml", ".yml":
		default:
			continue
		}
		if e.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return 0, fmt.Errorf("reading %s: %w", e.Name(), err)
		}
		total += len(strings.Fields(string(data)))
	}
	return total, nil
}
