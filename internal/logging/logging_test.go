package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_RejectsUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	err := Setup("loud", &buf, false)
	require.Error(t, err)
}

func TestWithContext_CarriesFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Setup("debug", &buf, true))
	t.Cleanup(func() { _ = Setup("info", &bytes.Buffer{}, false) })

	ctx := WithFields(context.Background(), logrus.Fields{"request_id": "abc"})
	ctx = WithFields(ctx, logrus.Fields{"purpose": "quiz-gen"})
	WithContext(ctx).Debug("hello")

	out := buf.String()
	assert.Contains(t, out, `"request_id":"abc"`)
	assert.Contains(t, out, `"purpose":"quiz-gen"`)
	assert.Contains(t, out, `"msg":"hello"`)
}

func TestWithContext_EmptyContext(t *testing.T) {
	entry := WithContext(context.Background())
	assert.Empty(t, entry.Data)
}
