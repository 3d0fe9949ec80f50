// Package tool defines tool handlers and the immutable registry that both
// describes them (tools/list) and resolves their accepted names (tools/call).
package tool
