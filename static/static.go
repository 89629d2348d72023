// Package static embeds the API docs assets served under /docs and /static.
package static

import "embed"

// OpenAPIUIFile is the docs page served by GET /docs.
const OpenAPIUIFile = "openapi.html"

//go:embed openapi.html openapi.json
var FS embed.FS
