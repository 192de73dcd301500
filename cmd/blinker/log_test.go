// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

//go:build linux

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "log"))
	require.Nil(t, err)
	defer f.Close()

	log, err := newLogger("warn", f)
	require.Nil(t, err)
	assert.Equal(t, zerolog.WarnLevel, log.GetLevel())
	log.Info().Msg("dropped")
	log.Warn().Int("pin", 23).Msg("kept")

	b, err := os.ReadFile(f.Name())
	require.Nil(t, err)
	assert.NotContains(t, string(b), "dropped")
	assert.Contains(t, string(b), `"level":"warn"`)
	assert.Contains(t, string(b), `"pin":23`)
	assert.Contains(t, string(b), `"message":"kept"`)
}

func TestNewLoggerBadLevel(t *testing.T) {
	_, err := newLogger("loud", os.Stderr)
	assert.NotNil(t, err)
}
