package remount

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockMounter records mount attempts and fails the shares it is told to.
type mockMounter struct {
	calls     []string
	fail      map[string]bool
	invokeErr error
}

func (m *mockMounter) Mount(server, share string) error {
	m.calls = append(m.calls, share)
	if m.invokeErr != nil {
		return fmt.Errorf("invoke mount command: %w", m.invokeErr)
	}
	if m.fail[share] {
		return fmt.Errorf("%w: exit status 1", ErrMountFailed)
	}
	return nil
}

func TestOrchestrator_RemountAll_AllSucceed(t *testing.T) {
	dir := t.TempDir()
	shares := []string{filepath.Join(dir, "media"), filepath.Join(dir, "backup")}
	mounter := &mockMounter{}

	o := NewOrchestrator("nas.local", shares, mounter, zerolog.Nop())
	summary, err := o.RemountAll()

	require.NoError(t, err)
	require.Len(t, summary.Outcomes, len(shares))
	for i, outcome := range summary.Outcomes {
		assert.Equal(t, shares[i], outcome.Share)
		assert.Equal(t, StatusSucceeded, outcome.Status)
	}
	assert.True(t, summary.Successful())
	assert.Equal(t, shares, mounter.calls)
}

func TestOrchestrator_RemountAll_SkipsExistingPath(t *testing.T) {
	dir := t.TempDir()
	existing := dir // already on disk
	missing := filepath.Join(dir, "backup")
	mounter := &mockMounter{}

	o := NewOrchestrator("nas.local", []string{existing, missing}, mounter, zerolog.Nop())
	summary, err := o.RemountAll()

	require.NoError(t, err)
	require.Len(t, summary.Outcomes, 2)
	assert.Equal(t, StatusSkipped, summary.Outcomes[0].Status)
	assert.Equal(t, StatusSucceeded, summary.Outcomes[1].Status)

	// An existing path must never reach the mount executor.
	assert.Equal(t, []string{missing}, mounter.calls)
	assert.True(t, summary.Successful())
}

func TestOrchestrator_RemountAll_FailureDoesNotShortCircuit(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "media")
	second := filepath.Join(dir, "backup")
	mounter := &mockMounter{fail: map[string]bool{first: true}}

	o := NewOrchestrator("nas.local", []string{first, second}, mounter, zerolog.Nop())
	summary, err := o.RemountAll()

	require.NoError(t, err)
	require.Len(t, summary.Outcomes, 2)
	assert.Equal(t, StatusFailed, summary.Outcomes[0].Status)
	assert.NotEmpty(t, summary.Outcomes[0].Reason)
	assert.Equal(t, StatusSucceeded, summary.Outcomes[1].Status)

	assert.False(t, summary.Successful())
	assert.Len(t, summary.Failed(), 1)
	assert.Equal(t, []string{first, second}, mounter.calls)
}

func TestOrchestrator_RemountAll_InvokeErrorEscalates(t *testing.T) {
	dir := t.TempDir()
	shares := []string{filepath.Join(dir, "media")}
	invokeErr := errors.New("fork/exec /bin/sh: no such file or directory")
	mounter := &mockMounter{invokeErr: invokeErr}

	o := NewOrchestrator("nas.local", shares, mounter, zerolog.Nop())
	_, err := o.RemountAll()

	require.Error(t, err)
	assert.ErrorIs(t, err, invokeErr)
}

func TestSummary_Successful(t *testing.T) {
	tests := []struct {
		name     string
		outcomes []Outcome
		want     bool
	}{
		{
			name: "all succeeded",
			outcomes: []Outcome{
				{Share: "/mnt/a", Status: StatusSucceeded},
				{Share: "/mnt/b", Status: StatusSucceeded},
			},
			want: true,
		},
		{
			name: "skipped counts as non-failure",
			outcomes: []Outcome{
				{Share: "/mnt/a", Status: StatusSkipped},
				{Share: "/mnt/b", Status: StatusSucceeded},
			},
			want: true,
		},
		{
			name: "one failure fails the pass",
			outcomes: []Outcome{
				{Share: "/mnt/a", Status: StatusSucceeded},
				{Share: "/mnt/b", Status: StatusFailed, Reason: "exit status 1"},
			},
			want: false,
		},
		{
			name:     "empty pass is successful",
			outcomes: nil,
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Summary{Outcomes: tt.outcomes}
			assert.Equal(t, tt.want, s.Successful())
		})
	}
}
