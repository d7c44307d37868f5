package main

import (
	"fmt"
	"time"

	"sectionpaths/internal/alias"
	"sectionpaths/internal/batch"
	"sectionpaths/internal/config"
	"sectionpaths/internal/dispatch"
	"sectionpaths/internal/logging"
	"sectionpaths/internal/paths"
	"sectionpaths/internal/processor"
	"sectionpaths/internal/storage"
)

// stdoutMessenger prints operation messages to the terminal, the CLI's
// stand-in for the host system's status message area.
type stdoutMessenger struct{}

func (stdoutMessenger) Status(msg string) {
	fmt.Println(msg)
}

// app holds the wired object graph behind every command.
type app struct {
	root     string
	cfg      *config.Settings
	logger   *logging.Logger
	db       *storage.DB
	jobStore *batch.Store

	aliases *storage.AliasRepository
	terms   *storage.TermRepository
	nodes   *storage.NodeRepository

	proc   *processor.Processor
	disp   *dispatch.Dispatcher
	engine *batch.Engine
}

// openApp loads settings and wires the full pipeline rooted at rootFlag.
func openApp() (*app, error) {
	cfg, err := config.LoadSettings(rootFlag)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := logging.NewLogger(logging.Config{
		Format: logging.ParseFormat(cfg.Logging.Format),
		Level:  logging.ParseLevel(cfg.Logging.Level),
	})

	db, err := storage.Open(rootFlag, logger)
	if err != nil {
		return nil, err
	}

	aliases := storage.NewAliasRepository(db)
	terms := storage.NewTermRepository(db)
	nodes := storage.NewNodeRepository(db)

	resolver := paths.NewResolver(terms, cfg.MaxSlugLength)
	actions := alias.NewActions(aliases, logger)
	conflicts := alias.NewConflictResolver(aliases)
	oplog := alias.NewOperationLogger(cfg, logger, stdoutMessenger{})
	related := processor.NewRelatedNodes(cfg, nodes, resolver, actions, conflicts, oplog, logger)
	proc := processor.NewProcessor(cfg, terms, resolver, actions, conflicts, related, oplog, logger)
	disp := dispatch.NewDispatcher(cfg, proc, actions, oplog, logger)

	jobStore, err := batch.OpenStore(storage.DotDirPath(rootFlag), logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	runner := batch.NewRunner(jobStore, logger, batch.DefaultRunnerConfig())
	engine := batch.NewEngine(cfg, terms, proc, related, runner, logger)
	proc.SetQueuer(engine)

	return &app{
		root:     rootFlag,
		cfg:      cfg,
		logger:   logger,
		db:       db,
		jobStore: jobStore,
		aliases:  aliases,
		terms:    terms,
		nodes:    nodes,
		proc:     proc,
		disp:     disp,
		engine:   engine,
	}, nil
}

func (a *app) close() {
	_ = a.jobStore.Close()
	_ = a.db.Close()
}

// waitForJob starts the runner, waits until the job reaches a terminal
// state and shuts the runner down again. Used by commands that execute
// queued work in-process.
func (a *app) waitForJob(jobID string, timeout time.Duration) (*batch.Job, error) {
	runner := a.engine.Runner()
	if err := runner.Start(); err != nil {
		return nil, err
	}
	defer func() { _ = runner.Stop(5 * time.Second) }()

	deadline := time.Now().Add(timeout)
	for {
		job, err := runner.GetJob(jobID)
		if err != nil {
			return nil, err
		}
		if job == nil {
			return nil, fmt.Errorf("job %s disappeared", jobID)
		}
		if job.IsTerminal() {
			return job, nil
		}
		if time.Now().After(deadline) {
			return job, fmt.Errorf("job %s still %s after %v", jobID, job.Status, timeout)
		}
		time.Sleep(100 * time.Millisecond)
	}
}
