//go:build ORT

package onnx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
	"github.com/rs/zerolog/log"
)

type Classifier struct {
	mu       sync.Mutex
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
}

// New downloads the model when it is not cached yet and builds the pipeline.
func New(ctx context.Context, opts Options) (*Classifier, error) {
	opts = opts.withDefaults()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.ModelDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("onnx: model dir: %w", err)
	}

	modelPath := filepath.Join(opts.ModelDir, modelFolder(opts.Model))
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		log.Info().Str("model", opts.Model).Msg("onnx model not found, downloading")
		modelPath, err = hugot.DownloadModel(opts.Model, opts.ModelDir, hugot.NewDownloadOptions())
		if err != nil {
			return nil, fmt.Errorf("onnx: download %s: %w", opts.Model, err)
		}
	}

	session, err := hugot.NewORTSession()
	if err != nil {
		return nil, fmt.Errorf("onnx: session: %w", err)
	}
	pipeline, err := hugot.NewPipeline(session, hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      "reviewSentiment",
	})
	if err != nil {
		_ = session.Destroy()
		return nil, fmt.Errorf("onnx: pipeline: %w", err)
	}
	log.Info().Str("path", modelPath).Msg("onnx pipeline ready")
	return &Classifier{session: session, pipeline: pipeline}, nil
}

func (c *Classifier) Classify(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pipeline == nil {
		return "", errors.New("onnx: classifier closed")
	}
	out, err := c.pipeline.RunPipeline([]string{text})
	if err != nil {
		return "", err
	}
	if len(out.ClassificationOutputs) == 0 || len(out.ClassificationOutputs[0]) == 0 {
		return "", errors.New("onnx: empty classification output")
	}
	best := out.ClassificationOutputs[0][0]
	for _, o := range out.ClassificationOutputs[0][1:] {
		if o.Score > best.Score {
			best = o
		}
	}
	return normalizeLabel(best.Label), nil
}

func (c *Classifier) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	err := c.session.Destroy()
	c.session, c.pipeline = nil, nil
	return err
}
