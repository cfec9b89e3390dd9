// Command generate writes Go constants naming every template in a directory,
// so handlers reference templates by identifier instead of string literals.
package main

import (
	"bytes"
	"embed"
	"fmt"
	"go/format"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
	"text/template"
	"unicode"

	"github.com/alesr/htmlrender"
	"github.com/spf13/pflag"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/constants.tmpl
var generatorTemplates embed.FS

const defaultExtension = ".html"

type TemplateData struct {
	ConstName    string
	TemplateName string
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := generateConstants(cfg, loadTemplateGenerator()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println("Template constants generated and formatted successfully.")
}

type config struct {
	templateDir string
	outputFile  string
	pkg         string
	extension   string
}

func parseFlags(args []string) (config, error) {
	var cfg config

	flags := pflag.NewFlagSet("generate", pflag.ContinueOnError)
	flags.StringVar(&cfg.templateDir, "templates", htmlrender.DefaultTemplateDir, "directory containing the template files")
	flags.StringVar(&cfg.outputFile, "out", "./templatenames.go", "output file for generated constants")
	flags.StringVar(&cfg.pkg, "package", "main", "package name of the generated file")
	flags.StringVar(&cfg.extension, "ext", defaultExtension, "extension of template files")

	if err := flags.Parse(args); err != nil {
		return config{}, err
	}

	if !strings.HasPrefix(cfg.extension, ".") {
		cfg.extension = "." + cfg.extension
	}
	return cfg, nil
}

func loadTemplateGenerator() *template.Template {
	return template.Must(template.ParseFS(generatorTemplates, "templates/constants.tmpl"))
}

func generateConstants(cfg config, tmpl *template.Template) error {
	data, err := collectTemplates(os.DirFS(cfg.templateDir), cfg.extension)
	if err != nil {
		return fmt.Errorf("failed to process templates: %w", err)
	}

	var buf bytes.Buffer
	if err := render(&buf, tmpl, cfg.pkg, data); err != nil {
		return err
	}

	if err := writeOutput(cfg.outputFile, &buf); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func render(w io.Writer, tmpl *template.Template, pkg string, data []TemplateData) error {
	if err := tmpl.ExecuteTemplate(w, "header", pkg); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := tmpl.ExecuteTemplate(w, "constants", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}

// collectTemplates walks fsys in lexical order and returns one entry per
// template file.
func collectTemplates(fsys fs.FS, ext string) ([]TemplateData, error) {
	caser := cases.Title(language.English)
	seen := make(map[string]string)

	var data []TemplateData
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if path.Ext(p) != ext {
			return nil
		}

		td, err := buildTemplateData(p, ext, caser)
		if err != nil {
			return err
		}
		if other, ok := seen[td.ConstName]; ok {
			return fmt.Errorf("templates %q and %q both map to %s", other, p, td.ConstName)
		}
		seen[td.ConstName] = p

		data = append(data, td)
		return nil
	})
	return data, err
}

func buildTemplateData(relPath, ext string, caser cases.Caser) (TemplateData, error) {
	basePath := strings.TrimSuffix(relPath, ext)

	words := strings.FieldsFunc(basePath, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return TemplateData{}, fmt.Errorf("cannot derive a name for template %q", relPath)
	}
	for i, word := range words {
		words[i] = caser.String(word)
	}

	return TemplateData{
		ConstName:    "Template" + strings.Join(words, ""),
		TemplateName: relPath,
	}, nil
}

func writeOutput(outputFile string, buf *bytes.Buffer) error {
	formattedSource, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("failed to format generated code: %w", err)
	}
	return os.WriteFile(outputFile, formattedSource, 0644)
}
