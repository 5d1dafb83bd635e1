/*
Copyright 2026 The Lightning Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// The trainer command runs a small end-to-end demonstration: it fits a
// one-parameter linear model on synthetic data and prints the predictions.
// It exists mostly to exercise the configuration surface from the command
// line.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/kacperlukawski/lightning/pkg/lightning"
	"github.com/kacperlukawski/lightning/pkg/trainer"
	logutil "github.com/kacperlukawski/lightning/pkg/util/logging"
	"github.com/kacperlukawski/lightning/version"
)

func main() {
	opts := trainer.NewOptions()
	opts.AddFlags(pflag.CommandLine)
	pflag.Parse()

	logger := logutil.NewLogger(opts.LogVerbosity)
	logger.Info("Build info", "commitSHA", version.CommitSHA, "buildRef", version.BuildRef)

	cfg, err := opts.Complete(logger)
	if err != nil {
		logger.Error(err, "Failed to build trainer configuration")
		os.Exit(1)
	}

	t, err := trainer.New(cfg, trainer.WithLogger(logger))
	if err != nil {
		logger.Error(err, "Failed to construct trainer")
		os.Exit(1)
	}

	ctx := context.Background()
	model := newLinearModel(0.0, 0.05)

	if err := t.Fit(ctx, model, nil); err != nil {
		logger.Error(err, "Fit failed")
		os.Exit(1)
	}
	logger.Info("Fit finished", "weight", model.weight)

	result, err := t.Predict(ctx, model, nil)
	if err != nil {
		logger.Error(err, "Predict failed")
		os.Exit(1)
	}
	for i, p := range result.Predictions {
		fmt.Printf("prediction[%d] = %v\n", i, p)
	}
}

// linearModel learns y = w*x with a hand-rolled gradient step. The target
// weight is 2.
type linearModel struct {
	lightning.ModuleBase

	weight float64
	lr     float64
	opt    *sgdOptimizer
}

func newLinearModel(weight, lr float64) *linearModel {
	m := &linearModel{weight: weight, lr: lr}
	m.opt = &sgdOptimizer{model: m}
	return m
}

type sample struct {
	x, y float64
}

type sampleLoader struct {
	samples []sample
	next    int
}

func (l *sampleLoader) Next(ctx context.Context) (lightning.Batch, error) {
	if l.next >= len(l.samples) {
		return nil, io.EOF
	}
	s := l.samples[l.next]
	l.next++
	return s, nil
}

func (m *linearModel) TrainDataloader() lightning.DataLoader {
	return &sampleLoader{samples: []sample{{1, 2}, {2, 4}, {3, 6}, {4, 8}}}
}

func (m *linearModel) PredictDataloader() lightning.DataLoader {
	return &sampleLoader{samples: []sample{{5, 0}, {6, 0}}}
}

func (m *linearModel) Forward(batch lightning.Batch) (lightning.Batch, error) {
	s, ok := batch.(sample)
	if !ok {
		return nil, fmt.Errorf("unexpected batch type %T", batch)
	}
	return m.weight * s.x, nil
}

func (m *linearModel) TrainingStep(ctx context.Context, batch lightning.Batch, batchIdx int) (lightning.StepResult, error) {
	s, ok := batch.(sample)
	if !ok {
		return lightning.StepResult{}, fmt.Errorf("unexpected batch type %T", batch)
	}
	pred := m.weight * s.x
	diff := pred - s.y
	m.opt.grad += 2 * diff * s.x
	return lightning.StepResult{Loss: diff * diff}, nil
}

func (m *linearModel) ConfigureOptimizers() (lightning.OptimizerConfig, error) {
	return lightning.OptimizerConfig{Optimizers: []lightning.Optimizer{m.opt}}, nil
}

// sgdOptimizer applies the accumulated gradient to the model weight.
type sgdOptimizer struct {
	model *linearModel
	grad  float64
}

func (o *sgdOptimizer) Step(ctx context.Context) error {
	o.model.weight -= o.model.lr * o.grad
	return nil
}

func (o *sgdOptimizer) ZeroGrad() {
	o.grad = 0
}
