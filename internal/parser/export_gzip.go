//go:build gzipexport

package parser

// exportFormatKey names the compression-format object inside an export manifest entry.
const exportFormatKey = "gzip"
