package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalContext_StopCancels(t *testing.T) {
	sc := NewSignalContext(context.Background())
	sc.Stop()

	select {
	case <-sc.Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled after Stop")
	}
	assert.Nil(t, sc.Signal())
	sc.Stop()
}

func TestSignalContext_ParentCancel(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	sc := NewSignalContext(parent)
	defer sc.Stop()

	cancel()
	select {
	case <-sc.Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled with parent")
	}
	require.ErrorIs(t, sc.Err(), context.Canceled)
	assert.Nil(t, sc.Signal())
}
