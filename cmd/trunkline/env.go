package main

import (
	"fmt"

	"github.com/fatih/color"

	"trunkline/internal/config"
	"trunkline/internal/exec"
	"trunkline/internal/git"
	"trunkline/internal/reconcile"
	"trunkline/internal/state"
	"trunkline/internal/trunk"
	"trunkline/internal/workspace"
)

// env bundles the wired subsystem for one CLI invocation.
type env struct {
	cfg        *config.Config
	trunk      *trunk.Repository
	workspaces *workspace.Manager
	engine     *reconcile.Engine
	logger     *reconcile.DebugLogger
}

// openEnv loads configuration and wires the trunk, workspace manager,
// and reconciliation engine together.
func openEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	runner := git.NewRunnerWith(cfg.Paths.Trunk, cfg.Git.CommandTimeout, exec.NewRunner())
	tr := trunk.NewWithRunner(cfg.Paths.Trunk, runner)

	m, err := workspace.NewManager(tr, cfg.Paths.Worktrees)
	if err != nil {
		return nil, fmt.Errorf("create workspace manager: %w", err)
	}

	logger, err := reconcile.NewDebugLogger(cfg.Paths.DebugLog)
	if err != nil {
		return nil, fmt.Errorf("open debug log: %w", err)
	}

	engine := reconcile.NewEngine(tr, m)
	engine.SetDebugLog(logger.Log)
	engine.SetRunnerFactory(func(path string) git.Runner {
		return git.NewRunnerWith(path, cfg.Git.CommandTimeout, exec.NewRunner())
	})

	return &env{
		cfg:        cfg,
		trunk:      tr,
		workspaces: m,
		engine:     engine,
		logger:     logger,
	}, nil
}

// Close releases resources held by the environment.
func (e *env) Close() {
	_ = e.logger.Close()
}

// openStore opens the migrated registry database.
func (e *env) openStore() (*state.DB, error) {
	db, err := state.Open(e.cfg.Paths.Database)
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate registry: %w", err)
	}
	return db, nil
}

// printStatus prints a colored checklist line.
func printStatus(symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Printf("%s %s\n", c.Sprint(symbol), message)
}
