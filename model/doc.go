// Package model defines the provider‑agnostic abstraction for the language
// models CalMesh uses to turn free text into structured meeting details.
//
// Core goals:
//   - Keep request/response shapes minimal and transport independent
//   - Hide vendor SDKs behind a single Complete call
//   - Facilitate lightweight mocking for tests (MockModel)
//
// Providers (e.g. OpenAI, Anthropic) implement the Model interface from this
// package so the extraction layer remains decoupled from vendor SDKs.
package model
