package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/proplife/internal/cli"
	"github.com/theirongolddev/proplife/internal/config"
	"github.com/theirongolddev/proplife/internal/model"
	"github.com/theirongolddev/proplife/internal/portfolio"
	"github.com/theirongolddev/proplife/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// setupValues is bound to the first-run form fields.
type setupValues struct {
	database string
	pipeline string
	currency string
	theme    string
}

func defaultSetupValues(cfg config.Config) setupValues {
	return setupValues{
		database: config.DatabasePath(cfg),
		pipeline: cfg.General.DefaultPipeline,
		currency: cfg.General.Currency,
		theme:    cfg.Appearance.Theme,
	}
}

// buildSetupForm builds the setup wizard used by `proplife setup` and the
// dashboard's first run. The form writes into vals.
func buildSetupForm(propertyCount int, vals *setupValues) *huh.Form {
	pipelineOpts := []huh.Option[string]{huh.NewOption("All workflows", portfolio.All)}
	for _, wt := range model.WorkflowTypes {
		pipelineOpts = append(pipelineOpts, huh.NewOption(cli.FormatWorkflow(wt), string(wt)))
	}

	themeOpts := make([]huh.Option[string], len(theme.All))
	for i, t := range theme.All {
		themeOpts[i] = huh.NewOption(t.Name, t.Name)
	}

	welcome := "Let's set up a few things."
	if propertyCount > 0 {
		welcome = fmt.Sprintf("Found %s properties. Let's set up a few things.", cli.FormatNumber(int64(propertyCount)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to proplife").
				Description(welcome),
			huh.NewInput().
				Title("Database").
				Description("SQLite file holding properties, stages and ledgers.").
				Value(&vals.database).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("database path is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Default workflow").
				Description("Workflow filter applied when none is given.").
				Options(pipelineOpts...).
				Value(&vals.pipeline),
			huh.NewInput().
				Title("Currency").
				Description("ISO 4217 code used when printing amounts.").
				Value(&vals.currency).
				Validate(func(s string) error {
					return config.ValidateCurrency(strings.ToUpper(strings.TrimSpace(s)))
				}),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.theme),
		),
	).WithShowHelp(true)
}

// newSetupForm returns a form prefilled from the saved config together
// with the values it is bound to.
func newSetupForm(propertyCount int) (*huh.Form, *setupValues) {
	cfg, _ := config.Load()
	vals := defaultSetupValues(cfg)
	return buildSetupForm(propertyCount, &vals), &vals
}

// applySetup writes the form values into cfg.
func applySetup(cfg config.Config, vals setupValues) config.Config {
	db := strings.TrimSpace(vals.database)
	if db != config.DatabasePath(config.DefaultConfig()) {
		cfg.General.Database = db
	}
	cfg.General.DefaultPipeline = vals.pipeline
	cfg.General.Currency = strings.ToUpper(strings.TrimSpace(vals.currency))
	cfg.Appearance.Theme = vals.theme
	return cfg
}

// RunSetup runs the setup form standalone and saves the result.
func RunSetup(propertyCount int) (config.Config, error) {
	form, vals := newSetupForm(propertyCount)
	if err := form.Run(); err != nil {
		return config.Config{}, err
	}
	cfg, _ := config.Load()
	cfg = applySetup(cfg, *vals)
	if err := config.Save(cfg); err != nil {
		return cfg, fmt.Errorf("saving config: %w", err)
	}
	return cfg, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.saveSetupConfig()
		a.needSetup = false
		a.setupForm = nil
		return a.withTabCmd()
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

// saveSetupConfig persists the form and applies what takes effect
// immediately. The database path applies on next launch.
func (a *App) saveSetupConfig() {
	cfg, _ := config.Load()
	cfg = applySetup(cfg, *a.setupVals)
	_ = config.Save(cfg) // best-effort; the session keeps the chosen values

	theme.SetActive(cfg.Appearance.Theme)
	a.currency = cfg.General.Currency
	a.filter.Pipeline = cfg.General.DefaultPipeline
	a.recompute()
}
