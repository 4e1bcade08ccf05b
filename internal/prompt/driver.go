// Package prompt asks which discovered records and generators to run when
// podgen is invoked with --interactive.
package prompt

import (
	"context"
	"errors"
	"io"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrAborted signals the user aborted input (e.g., Ctrl+C).
var ErrAborted = errors.New("prompt: aborted")

// SelectConfig configures a multi-select prompt.
type SelectConfig struct {
	Message  string
	Options  []string
	Defaults []int // indices into Options
	Help     string
	PageSize int
}

// ConfirmConfig configures a yes/no style prompt.
type ConfirmConfig struct {
	Message string
	Default bool
	Help    string
}

// Driver abstracts the terminal so selection flows can be tested with a
// scripted implementation.
type Driver interface {
	MultiSelect(ctx context.Context, cfg SelectConfig) ([]int, error)
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
}

// SurveyOption customises the survey driver.
type SurveyOption func(*surveyDriver)

// WithStdio overrides the terminal streams survey reads from and writes to.
func WithStdio(in terminal.FileReader, out terminal.FileWriter, errOut io.Writer) SurveyOption {
	return func(d *surveyDriver) {
		d.opts = append(d.opts, survey.WithStdio(in, out, errOut))
	}
}

type surveyDriver struct {
	opts []survey.AskOpt
}

// NewSurveyDriver returns the terminal driver.
func NewSurveyDriver(options ...SurveyOption) Driver {
	d := &surveyDriver{}
	for _, opt := range options {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

func (d *surveyDriver) MultiSelect(ctx context.Context, cfg SelectConfig) ([]int, error) {
	prompt := &survey.MultiSelect{
		Message:  cfg.Message,
		Options:  cfg.Options,
		Help:     cfg.Help,
		PageSize: cfg.PageSize,
	}
	if len(cfg.Defaults) > 0 {
		prompt.Default = pick(cfg.Options, cfg.Defaults)
	}
	var answers []string
	if err := d.ask(ctx, prompt, &answers); err != nil {
		return nil, err
	}
	return positions(cfg.Options, answers), nil
}

func (d *surveyDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	var ok bool
	err := d.ask(ctx, &survey.Confirm{Message: cfg.Message, Help: cfg.Help, Default: cfg.Default}, &ok)
	return ok, err
}

// ask runs one survey prompt; Ctrl+C becomes ErrAborted.
func (d *surveyDriver) ask(ctx context.Context, prompt survey.Prompt, answer any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := survey.AskOne(prompt, answer, d.opts...)
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}

// positions maps answers back to option indices, in option order.
func positions(options, answers []string) []int {
	chosen := make(map[string]bool, len(answers))
	for _, answer := range answers {
		chosen[answer] = true
	}
	var out []int
	for i, option := range options {
		if chosen[option] {
			out = append(out, i)
		}
	}
	return out
}

func pick(options []string, indices []int) []string {
	out := make([]string, 0, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(options) {
			out = append(out, options[i])
		}
	}
	return out
}
