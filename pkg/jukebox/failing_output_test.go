package jukebox

import (
	"errors"

	"github.com/foreverjukebox/fjplay/pkg/audio"
	"github.com/foreverjukebox/fjplay/pkg/audio/output"
)

var errDeviceGone = errors.New("device gone")

// failingOutput opens fine but rejects every transport request
type failingOutput struct{}

func newFailingOutput() output.Output { return failingOutput{} }

func (failingOutput) Open(audio.Format, output.RenderFunc) error { return nil }
func (failingOutput) Start() error                               { return errDeviceGone }
func (failingOutput) Pause() error                               { return errDeviceGone }
func (failingOutput) Stop() error                                { return errDeviceGone }
func (failingOutput) Close() error                               { return nil }
