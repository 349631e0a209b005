// Package clientformat projects populated chat prompts into the
// request shapes of specific LLM client APIs.
//
// Projection is pure data transformation: no network calls, no
// authentication, no provider SDKs. The output of a formatter is the
// value a caller would place in the request body of the corresponding
// client library.
//
// # Clients
//
//   - openai: role/content messages pass through unchanged.
//   - anthropic: a leading run of system messages is lifted into a
//     separate system string; the remaining turns keep their roles.
//   - google: roles map to user/model and content becomes parts.
//
// # Usage
//
//	msgs, err := t.Populate(vars)
//	out, err := clientformat.ForClient(clientformat.ClientAnthropic, msgs)
//
// A prompt that cannot be expressed in a client's shape (for example
// a system message in the middle of an Anthropic conversation) fails
// with an error matching ErrUnsupportedShape. Unknown client names
// fail with ErrUnsupportedClient.
package clientformat
