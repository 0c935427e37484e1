// Package engine holds the page rasterizer and the watermark compositor. Both
// work against collaborator sessions, a pdfrenderer.Session for pixels and a
// Stamper for the PDF object model, and never touch document bytes directly.
package engine

import "log/slog"

// Logger is global since we will need it everywhere
var Logger = slog.Default()
