package cmd

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"regexp"
	"text/template"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/tools/go/ast/astutil"
)

const modulePath = "github.com/katariyakhushi/umbrella-customiser"

var moduleNamePattern = regexp.MustCompile(`^[a-z][a-z0-9]*$`)

var newModuleCmd = &cobra.Command{
	Use:   "new-module <name>",
	Short: "Scaffold a new application module",
	Long: `Creates internal/modules/<name> with a module and a handler and registers
the module in internal/app/modules.go. Run it from the repository root.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := scaffoldModule(".", name); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created module '%s' in internal/modules/%s/ and registered it in internal/app/modules.go\n", name, name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newModuleCmd)
}

type templateData struct {
	Name       string
	PascalName string
	ModulePath string
}

// scaffoldModule generates the module below root and registers it.
func scaffoldModule(root, name string) error {
	if !moduleNamePattern.MatchString(name) {
		return fmt.Errorf("invalid module name %q: use lower-case letters and digits", name)
	}

	data := templateData{
		Name:       name,
		PascalName: cases.Title(language.English).String(name),
		ModulePath: modulePath,
	}

	moduleDir := filepath.Join(root, "internal", "modules", name)
	if _, err := os.Stat(moduleDir); err == nil {
		return fmt.Errorf("module directory %s already exists", moduleDir)
	}
	if err := os.MkdirAll(moduleDir, 0755); err != nil {
		return fmt.Errorf("failed to create module directory: %w", err)
	}

	if err := generateFile(filepath.Join(moduleDir, "module.go"), moduleTemplate, data); err != nil {
		return err
	}
	if err := generateFile(filepath.Join(moduleDir, "handler.go"), handlerTemplate, data); err != nil {
		return err
	}

	return registerModule(filepath.Join(root, "internal", "app", "modules.go"), name)
}

func generateFile(path, tmpl string, data templateData) error {
	t, err := template.New(filepath.Base(path)).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("failed to format %s: %w", path, err)
	}
	return os.WriteFile(path, src, 0644)
}

// registerModule imports the module in modules.go and appends name.New() to
// the slice NewModules returns.
func registerModule(modulesPath, name string) error {
	fset := token.NewFileSet()
	node, err := parser.ParseFile(fset, modulesPath, nil, parser.ParseComments)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", modulesPath, err)
	}

	astutil.AddImport(fset, node, modulePath+"/internal/modules/"+name)

	var registered bool
	ast.Inspect(node, func(n ast.Node) bool {
		fn, ok := n.(*ast.FuncDecl)
		if !ok || fn.Name.Name != "NewModules" {
			return true
		}
		ast.Inspect(fn.Body, func(n ast.Node) bool {
			ret, ok := n.(*ast.ReturnStmt)
			if !ok || len(ret.Results) != 1 {
				return true
			}
			compLit, ok := ret.Results[0].(*ast.CompositeLit)
			if !ok {
				return false
			}
			compLit.Elts = append(compLit.Elts, &ast.CallExpr{
				Fun: &ast.SelectorExpr{X: ast.NewIdent(name), Sel: ast.NewIdent("New")},
			})
			registered = true
			return false
		})
		return false
	})
	if !registered {
		return fmt.Errorf("no NewModules slice literal found in %s", modulesPath)
	}

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, node); err != nil {
		return fmt.Errorf("failed to format AST: %w", err)
	}
	if err := os.WriteFile(modulesPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write to file %s: %w", modulesPath, err)
	}
	return nil
}

const moduleTemplate = `package {{.Name}}

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/samber/do/v2"
	"{{.ModulePath}}/internal/module"
	"{{.ModulePath}}/internal/rendering"
)

// Module implements the module.Module interface.
type Module struct {
	module.BaseModule
	renderer rendering.Renderer
}

// New creates a new instance of the module.
func New() *Module {
	return &Module{}
}

// Name returns the module's unique identifier.
func (m *Module) Name() string {
	return "{{.Name}}"
}

// Register resolves the services the module needs.
func (m *Module) Register(i do.Injector) error {
	renderer, err := do.Invoke[rendering.Renderer](i)
	if err != nil {
		return err
	}
	m.renderer = renderer
	return nil
}

// Boot is called after all modules have been registered.
func (m *Module) Boot(ctx context.Context, g *echo.Group, i do.Injector) error {
	slog.Info("Booting {{.PascalName}} module: Setting up routes...")
	handler := NewHandler(m.renderer)
	g.GET("/{{.Name}}", handler.Get)
	return nil
}
`

const handlerTemplate = `package {{.Name}}

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"{{.ModulePath}}/internal/rendering"
	"{{.ModulePath}}/internal/view"
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// Handler manages the HTTP requests for the {{.Name}} module.
type Handler struct {
	renderer rendering.Renderer
}

// NewHandler creates a new handler.
func NewHandler(renderer rendering.Renderer) *Handler {
	return &Handler{renderer: renderer}
}

// Get renders the main page for the {{.Name}} module.
func (h *Handler) Get(c echo.Context) error {
	body := P(g.Text("Hello from the {{.Name}} module!"))
	return h.renderer.RenderPage(c, http.StatusOK, view.Document("{{.PascalName}}", "", body))
}
`
