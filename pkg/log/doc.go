/*
Package log provides structured logging for the replicator using zerolog.

The log package wraps zerolog to provide JSON-structured logging with
component-specific child loggers, configurable log levels, and helper
functions for common logging patterns.

# Architecture

	┌────────────────────── LOGGING SYSTEM ────────────────────┐
	│  Global Logger (zerolog.Logger), initialized via Init()   │
	│                     │                                     │
	│  Component loggers: WithComponent("lock"),                │
	│                     WithResourceKey(key), WithToken(tok)  │
	│                     │                                     │
	│  Output: JSON or console, stdout/file/custom writer       │
	└────────────────────────────────────────────────────────────┘

# Core Components

Logger: the single package-level zerolog.Logger every collaborator
derives its own scoped logger from. There is exactly one; Init must run
before anything logs, typically from cmd/datamartreplicator's
cobra.OnInitialize hook.

Config: Level, JSONOutput, and an optional Output writer (defaulting to
stdout). Level falls back to InfoLevel on an empty or unrecognized
value rather than failing Init.

WithComponent/WithResourceKey/WithToken: the three scoping helpers
(pkg/scheduler and pkg/consumer use WithComponent, pkg/scheduler uses
WithToken; WithResourceKey is not called outside this package). Each
returns a derived zerolog.Logger with
one additional field, never mutates Logger itself.

# Usage Examples

## Component-scoped logging

	log.Init(log.Config{Level: log.InfoLevel, JSONOutput: true})
	logger := log.WithComponent("scheduler")
	logger.Info().Str("work_item_id", item.ID).Msg("dispatched")

## Resource-key- and token-scoped logging

	logger := log.WithResourceKey(key.CanonicalString())
	logger.Debug().Msg("acquired")

	logger = log.WithToken(token.TokenKey())
	logger.Debug().Msg("released")

## Console output for local development

	log.Init(log.Config{Level: log.DebugLevel, JSONOutput: false})
	// Logger now writes a human-readable, timestamped line per event
	// instead of one JSON object per line.

# Integration Points

## Every long-lived collaborator

pkg/scheduler and pkg/consumer call log.WithComponent once at
construction and log through the returned child logger for their
lifetime, rather than referencing the package-level Logger directly.
pkg/lock, pkg/schema, and pkg/datamart do not log.

## Configuration

pkg/config.Config.LogConfigFor translates the YAML/env-sourced
LogConfig into this package's Config, so Init's caller never
constructs log.Config fields by hand outside of tests.

# Design Patterns

## Derive, never mutate

Every With* helper returns a new zerolog.Logger built from Logger's
current context; none of them modify Logger itself. This means Init
can be called again (e.g. in a test) without invalidating child loggers
captured before the reinitialization - they simply keep referencing
whatever Logger held at the time they were derived.

## Debug for the hot path, Info for lifecycle

pkg/scheduler logs each token's acquire and release, and each work item
dropped without a token, only at Debug, so production logs at Info stay
quiet on the per-operation hot path; the locking core itself does not
log, so nothing is logged under its mutex. Collaborator startup/shutdown logs at Info so operators see
them by default.

# Performance Characteristics

Deriving a child logger (With().Str(...).Logger()) allocates a small,
fixed amount regardless of the parent's existing field set; it is cheap
enough to call once per Acquire/Release pair on the lock's hot path
without measurably affecting lock latency. JSON output costs one
allocation-free encode pass per line; console output additionally
formats a timestamp and color-codes the level, which is measurably
slower and intended for interactive use, not production throughput.

# Troubleshooting

## No log output at all

Confirm Init was called - an unininitialized Logger is zerolog's
zero value, which discards everything by default.

## Logs missing an expected field

Check that the log line was produced through the scoped child logger
(WithComponent/WithResourceKey/WithToken), not the package-level
Logger or one of the free functions (Info/Debug/Warn/Error), which
carry no additional fields.

## JSON output expected but got console formatting

JSONOutput defaults to false; it must be explicitly set to true in
Config for line-delimited JSON suitable for log aggregation.

# Monitoring Metrics

This package exports no Prometheus metrics of its own - see pkg/metrics
for counters/gauges/histograms. Log-based signals worth alerting on:

  - "acquire failed" - logged by pkg/scheduler when lock.Service.Acquire
    returns a non-nil error.
  - "work item handler failed" - a Projector or schema Handler returned
    an error.

# Best Practices

 1. Call Init exactly once, as early as possible in process startup,
    before any collaborator is constructed.
 2. Prefer WithComponent/WithResourceKey/WithToken over ad hoc
    .With().Str(...) calls at use sites, so field names stay
    consistent across the codebase.
 3. Use JSONOutput: true in any environment with a log aggregator;
    reserve console output for local development.
 4. Never log a Token's or ResourceKey's raw components individually -
    always log the canonical/formatted string, so log lines remain
    greppable against the same identifier the locking core itself
    uses.

# See Also

  - pkg/scheduler - the package that logs per token via WithToken
  - pkg/metrics - the numeric counterpart to this package's structured logs
  - pkg/config - translates YAML/env configuration into log.Config
*/
package log
