// Package main hosts the episodestats CLI entrypoint and command graph.
//
// The Cobra command tree loads an episode export through the pipeline and
// renders summaries, season aggregates, filtered episode listings, header
// diagnostics and exports. It centralizes configuration resolution, logger
// construction and the shared table cache so subcommands only deal with
// presentation.
package main
