// Package server implements the MCP (Model Context Protocol) server for dot extraction.
//
// This package provides a JSON-RPC 2.0 server that exposes the image-to-dots
// pipeline through the MCP protocol, so an assistant or a puzzle front end can
// turn a picture into a numbered connect-the-dots path.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Dot extraction:
//   - dots_process: Full pipeline; returns the asset, dots, palette and canvas size
//   - dots_process_batch: dots_process over several files on a bounded worker pool
//   - dots_skeleton: Skeleton raster and stage statistics, with an optional grid
//   - dots_palette: Palette only
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//   - image_evict: Drop one file, or all files, from the cache
//
// Single-image tools take either "path" or "image_base64" (plain base64 or a
// data: URI). Pipeline options given in the arguments override the server
// defaults for that call only.
//
// # Image Caching
//
// File contents are cached by path and reused across tool calls, so running
// the pipeline again with different options does not touch the disk.
// The cache persists for the lifetime of the server process; image_evict
// makes the next call read a changed file again.
//
// # Error Handling
//
// Tool execution errors (unreadable file, bad option value) are returned as
// JSON-RPC error responses with:
//   - code: -32000 (tool execution failure), -32602 for an argument value
//     outside its allowed range, or another standard JSON-RPC code
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// A pipeline run that fails, for example on bytes that are not an image, is
// not an execution error. Its {"error": "..."} record is returned as the
// tool result, unchanged.
//
// # Usage
//
//	srv := server.New(pipeline.OptionsFromEnv(log.Default()))
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
