//go:build !ORT

package onnx

import "context"

type Classifier struct{}

func New(ctx context.Context, opts Options) (*Classifier, error) {
	return nil, ErrNotCompiled
}

func (c *Classifier) Classify(ctx context.Context, text string) (string, error) {
	return "", ErrNotCompiled
}

func (c *Classifier) Close() error { return nil }
