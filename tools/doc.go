// Package tools provides the capabilities exposed to a reasoning loop: the
// virtual file store, the task list, web research, and delegation.
//
// Build a worker's capability list from the groups:
//
//	caps := append(tools.FileCapabilities(), tools.TodoCapabilities()...)
//	caps = append(caps, tools.ResearchCapabilities(&tools.SearchTool{Searcher: pipeline})...)
//
// The primary agent additionally gets [TaskCapability] over a delegation
// engine built from those capabilities.
package tools
