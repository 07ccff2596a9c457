package mylog

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandardLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := standardLogger{componentName: "checkout", out: buf}

	logger.Log(context.TODO(), "order-42", SeverityWarn, "order %s not paid", "EQ-42")

	assert.Equal(t, "checkout - order-42 - WARN - order EQ-42 not paid\n", buf.String())
}

func TestStructuredEntry(t *testing.T) {
	e := entry{
		Component: "checkout",
		Labels:    map[string]string{"aggregate": "order-42"},
		Severity:  "INFO",
		Message:   "checkout:placed",
	}
	assert.Equal(t, `{"component":"checkout","logging.googleapis.com/labels":{"aggregate":"order-42"},"severity":"INFO","message":"checkout:placed"}`, e.String())
}
