// Package operations runs the survey pipeline as an ordered list of steps.
//
// Core Components:
//
// Manager: executes steps one at a time in registration or dependency order,
// recording a StepState for each. The first failure ends the run and every
// later step is marked skipped. Each step gets its own span and duration
// metric through the OperationTracer.
//
// Step: a single unit of work. Steps can declare dependencies and may
// implement Skipper to opt out at run time.
//
// Registry: holds steps and sorts them topologically, ties broken by
// registration order.
//
// OperationState: the run state shared by every step, including the survey
// rows handed from one step to the next.
//
// The survey steps are:
//
//	cache      reuse the processed table if present (report runs only)
//	load       discover, read and reconcile every configured year
//	filter     keep data-science respondents
//	features   compute the per-language flags
//	clean      drop rows that answered neither language question
//	persist    write the processed table atomically
//	aggregate  compute yearly ratios from the persisted table
//	report     export metrics and chart tables
//
// load through persist skip themselves after a cache hit.
//
// Usage:
//
//	cfg, _ := operations.FromAppConfig(appCfg, paths)
//	registry := operations.NewReportRegistry(cfg, operations.Dependencies{Paths: paths, Tracer: tracer, Logger: logger})
//	manager := operations.NewManager(registry, tracer, logger)
//	resp, err := manager.Execute(ctx, operations.OperationRequest{})
package operations
