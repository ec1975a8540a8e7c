// Package dev provides development-mode live reload for the page
// server.
//
// A ReloadServer accepts websocket connections from browsers at
// /_rekindle/reload and broadcasts reload messages when the serve
// command observes changed pages or assets. The client snippet is
// injected into page shells only when live reload is enabled in
// rekindle.json.
package dev
