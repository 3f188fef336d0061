//go:build !embed_model

package provider

import "io/fs"

var embeddedModelFS fs.FS

const hasEmbeddedModel = false
