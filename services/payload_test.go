package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONPayloadCodeFence(t *testing.T) {
	text := "```json\n{\"narrative\": \"looking sharp\"}\n```"
	payload, err := ExtractJSONPayload(text)
	require.NoError(t, err)
	assert.Equal(t, `{"narrative": "looking sharp"}`, payload)
}

func TestExtractJSONPayloadProseWrapped(t *testing.T) {
	text := `Sure! Here is what I found: {"article": {"pattern": "Solid"}} Hope that helps.`
	payload, err := ExtractJSONPayload(text)
	require.NoError(t, err)
	assert.Equal(t, `{"article": {"pattern": "Solid"}}`, payload)
}

func TestExtractJSONPayloadArray(t *testing.T) {
	payload, err := ExtractJSONPayload(`here you go [1, 2, 3] done`)
	require.NoError(t, err)
	assert.Equal(t, `[1, 2, 3]`, payload)
}

func TestExtractJSONPayloadBracesInsideStrings(t *testing.T) {
	text := `{"narrative": "curly {braces} and a \" quote", "ok": true}`
	payload, err := ExtractJSONPayload(text)
	require.NoError(t, err)
	assert.Equal(t, text, payload)
}

func TestExtractJSONPayloadNoJSON(t *testing.T) {
	_, err := ExtractJSONPayload("I could not identify any clothing in this image.")
	require.ErrorIs(t, err, ErrMalformedPayload)
}

func TestExtractJSONPayloadUnbalanced(t *testing.T) {
	_, err := ExtractJSONPayload(`{"narrative": "cut off mid`)
	require.ErrorIs(t, err, ErrMalformedPayload)
}
