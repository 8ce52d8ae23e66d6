// Command edarr-render renders an editable-array widget as a standalone HTML
// page. Records come from a JSON or YAML file, templates and behavior from
// flags and an optional YAML config.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"

	editablearray "github.com/ColmKenna/ck-editable-array-sub000"
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/formstate"
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/hosts"
	"github.com/ColmKenna/ck-editable-array-sub000/pkg/hosts/page"
)

type fileConfig struct {
	Name         string        `yaml:"name"`
	ReadOnly     bool          `yaml:"readOnly"`
	AllowReorder *bool         `yaml:"allowReorder"`
	ChangeMode   string        `yaml:"changeMode"`
	Labels       labelsConfig  `yaml:"labels"`
	Classes      classesConfig `yaml:"classes"`
	Theme        *themeConfig  `yaml:"theme"`
}

type labelsConfig struct {
	Edit     string `yaml:"edit"`
	Save     string `yaml:"save"`
	Cancel   string `yaml:"cancel"`
	Delete   string `yaml:"delete"`
	Undelete string `yaml:"undelete"`
	MoveUp   string `yaml:"moveUp"`
	MoveDown string `yaml:"moveDown"`
}

type classesConfig struct {
	Root string `yaml:"root"`
	Rows string `yaml:"rows"`
	Row  string `yaml:"row"`
}

type themeConfig struct {
	Name       string            `yaml:"name"`
	Variant    string            `yaml:"variant"`
	CSSVars    map[string]string `yaml:"cssVars"`
	AssetBase  string            `yaml:"assetBase"`
	Stylesheet string            `yaml:"stylesheet"`
}

func main() {
	dataPath := flag.String("data", "", "records file, JSON or YAML (required)")
	displayPath := flag.String("display", "", "display template file")
	editPath := flag.String("edit", "", "edit template file")
	configPath := flag.String("config", "", "YAML widget config file")
	title := flag.String("title", "Editable array", "page title")
	output := flag.String("output", "", "output file (stdout if empty)")
	stateKey := flag.String("state-key", "", "embed a signed state token using this key")
	flag.Parse()

	if *dataPath == "" {
		log.Fatalf("missing required -data flag")
	}

	records, err := loadRecords(*dataPath)
	if err != nil {
		log.Fatalf("Failed to load records: %v", err)
	}

	cfg := fileConfig{}
	if *configPath != "" {
		raw, err := os.ReadFile(*configPath)
		if err != nil {
			log.Fatalf("Failed to read config: %v", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			log.Fatalf("Failed to parse config: %v", err)
		}
	}

	w, err := editablearray.New(widgetOptions(records, cfg, *displayPath, *editPath)...)
	if err != nil {
		log.Fatalf("Failed to build widget: %v", err)
	}
	defer w.Close()

	registry := hosts.NewRegistry()
	registry.MustRegister(mustPageHost(cfg.Theme, *stateKey))

	host := registry.MustGet("page")
	rendered, err := host.Render(context.Background(), w, hosts.Options{Title: *title})
	if err != nil {
		log.Fatalf("Failed to render page: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, rendered, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Page written to %s\n", *output)
	} else {
		fmt.Println(string(rendered))
	}
}

func loadRecords(path string) ([]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	// YAML is a JSON superset, so one decoder handles both formats.
	var records []any
	if err := yaml.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}

func widgetOptions(records []any, cfg fileConfig, displayPath, editPath string) []editablearray.Option {
	opts := []editablearray.Option{
		editablearray.WithData(records),
		editablearray.WithReadOnly(cfg.ReadOnly),
	}
	if cfg.Name != "" {
		opts = append(opts, editablearray.WithName(cfg.Name))
	}
	if cfg.AllowReorder != nil {
		opts = append(opts, editablearray.WithAllowReorder(*cfg.AllowReorder))
	}
	if cfg.ChangeMode != "" {
		opts = append(opts, editablearray.WithChangeMode(editablearray.ChangeMode(cfg.ChangeMode)))
	}
	if markup := readTemplate(displayPath); markup != "" {
		opts = append(opts, editablearray.WithDisplayTemplate(markup))
	}
	if markup := readTemplate(editPath); markup != "" {
		opts = append(opts, editablearray.WithEditTemplate(markup))
	}
	if labels := cfg.Labels.toLabels(); labels != nil {
		opts = append(opts, editablearray.WithLabels(*labels))
	}
	if classes := cfg.Classes.toClasses(); classes != nil {
		opts = append(opts, editablearray.WithClasses(*classes))
	}
	return opts
}

func readTemplate(path string) string {
	if path == "" {
		return ""
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read template %s: %v", path, err)
	}
	return string(raw)
}

func mustPageHost(cfg *themeConfig, stateKey string) hosts.Host {
	var opts []page.Option
	if cfg != nil {
		opts = append(opts, page.WithTheme(cfg.toRendererConfig()))
	}
	if stateKey != "" {
		codec := formstate.New(formstate.WithSigningKey([]byte(stateKey)))
		opts = append(opts, page.WithStateCodec(codec))
	}
	host, err := page.New(opts...)
	if err != nil {
		log.Fatalf("Failed to build page host: %v", err)
	}
	return host
}

func (c labelsConfig) toLabels() *editablearray.Labels {
	if c == (labelsConfig{}) {
		return nil
	}
	labels := editablearray.DefaultLabels()
	assign := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	assign(&labels.Edit, c.Edit)
	assign(&labels.Save, c.Save)
	assign(&labels.Cancel, c.Cancel)
	assign(&labels.Delete, c.Delete)
	assign(&labels.Undelete, c.Undelete)
	assign(&labels.MoveUp, c.MoveUp)
	assign(&labels.MoveDown, c.MoveDown)
	return &labels
}

func (c classesConfig) toClasses() *editablearray.Classes {
	if c == (classesConfig{}) {
		return nil
	}
	return &editablearray.Classes{
		Root: c.Root,
		Rows: c.Rows,
		Row:  c.Row,
	}
}

func (c *themeConfig) toRendererConfig() *theme.RendererConfig {
	cfg := &theme.RendererConfig{
		Theme:   c.Name,
		Variant: c.Variant,
		CSSVars: c.CSSVars,
	}
	base := strings.TrimRight(c.AssetBase, "/")
	stylesheet := c.Stylesheet
	if base != "" || stylesheet != "" {
		cfg.AssetURL = func(key string) string {
			if key == "page.stylesheet" && stylesheet != "" {
				key = stylesheet
			}
			if base == "" {
				return key
			}
			return base + "/" + key
		}
	}
	return cfg
}
