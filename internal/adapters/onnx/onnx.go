// Package onnx runs a sentiment model locally through an ONNX Runtime
// text-classification pipeline. Building with the ORT tag enables it;
// without the tag New reports ErrNotCompiled.
package onnx

import (
	"errors"
	"strings"
)

const DefaultModel = "w11wo/indonesian-roberta-base-sentiment-classifier"

var ErrNotCompiled = errors.New("onnx: backend not compiled in (build with -tags ORT)")

// Options configures where the model lives.
type Options struct {
	Model    string // hub name, downloaded on first use
	ModelDir string // local cache directory
}

func (o Options) withDefaults() Options {
	if o.Model == "" {
		o.Model = DefaultModel
	}
	if o.ModelDir == "" {
		o.ModelDir = "./models"
	}
	return o
}

// modelFolder is the directory name the hub download writes to.
func modelFolder(model string) string {
	return strings.ReplaceAll(model, "/", "_")
}

func normalizeLabel(l string) string {
	switch strings.ToUpper(strings.TrimSpace(l)) {
	case "LABEL_0":
		return "negative"
	case "LABEL_1":
		return "neutral"
	case "LABEL_2":
		return "positive"
	}
	return l
}
