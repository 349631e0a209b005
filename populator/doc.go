// Package populator provides the rendering engines that substitute
// variables into prompt templates.
//
// Three engines are built in, selected by name through the registry:
//
//   - "expression" (default): supports {{variable}} substitution plus
//     conditionals, iteration, and helper functions. The Handlebars-like
//     syntax is converted to Go template syntax before execution.
//   - "double_brace": strict {{variable}} substitution only, no control
//     flow and no helpers.
//   - "single_brace": like double_brace but with {variable} placeholders
//     (literal braces are escaped as \{ and \}).
//
// # Syntax
//
// Simple variables use double braces:
//
//	Hello, {{name}}!
//
// Dotted and indexed references resolve into structured bindings; only
// the root identifier counts as the template's variable:
//
//	{{user.name}} was born in {{years[0]}}
//
// With the expression engine, conditionals use #if and /if:
//
//	{{#if urgent}}URGENT: {{/if}}{{title}}
//
// Iteration uses #each and /each:
//
//	{{#each examples}}{{.}} {{/each}}
//
// Helper functions can be called with arguments:
//
//	{{upper name}}
//	{{truncate description 100}}
//
// A literal "{{" or "}}" in output text is written with a backslash
// escape: \{{ and \}} render as {{ and }} and are never treated as
// placeholders.
//
// # Security Levels
//
// The expression engine runs at one of three security levels, which
// control the helper functions exposed to templates. Templates can never
// reach the filesystem, the network, or arbitrary code regardless of
// level; the levels only widen the helper set.
//
//   - strict: upper, lower, title, trim
//   - standard (default): strict plus join, split, replace, contains,
//     default, truncate, length
//   - relaxed: standard plus json, indent, wrap, hasPrefix, hasSuffix,
//     and caller-registered custom functions via AddFunc
//
// # Missing Variables
//
// Both engines are strict: every variable referenced by a template must
// be bound, and a failed population reports every missing name at once
// in a MissingVariablesError. Superfluous bindings are ignored, so a
// large binding map can be reused across templates that each consume a
// subset of it.
//
// # Errors
//
// Failures are classified so callers can tell them apart with errors.Is:
//
//   - ErrSyntax: the template itself is malformed
//   - ErrMissingVariable: the template is valid but a binding is absent
//   - ErrRender: evaluation failed, e.g. indexing a missing key inside a
//     structured binding
package populator
