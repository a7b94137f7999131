// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"
)

const testSchema = `
#Config: close({
	name?:  string
	count?: int & >=0
	tags?: [...string]
})
`

func TestDecodeMap(t *testing.T) {
	t.Parallel()

	t.Run("valid data decodes present fields only", func(t *testing.T) {
		t.Parallel()

		got, err := DecodeMap([]byte(testSchema), []byte(`name: "x"
tags: ["a", "b"]`), "#Config", "config.cue")
		if err != nil {
			t.Fatalf("DecodeMap() error = %v", err)
		}
		if got["name"] != "x" {
			t.Errorf("name = %v, want x", got["name"])
		}
		if _, ok := got["count"]; ok {
			t.Errorf("count should be absent, got %v", got["count"])
		}
		tags, ok := got["tags"].([]any)
		if !ok || len(tags) != 2 {
			t.Errorf("tags = %#v, want two entries", got["tags"])
		}
	})

	t.Run("constraint violation names file and field", func(t *testing.T) {
		t.Parallel()

		_, err := DecodeMap([]byte(testSchema), []byte(`count: -1`), "#Config", "config.cue")
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "config.cue") || !strings.Contains(err.Error(), "count") {
			t.Errorf("error should mention file and field, got: %v", err)
		}
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		t.Parallel()

		if _, err := DecodeMap([]byte(testSchema), []byte(`colour: "red"`), "#Config", "config.cue"); err == nil {
			t.Fatal("expected error for unknown field")
		}
	})

	t.Run("syntax error", func(t *testing.T) {
		t.Parallel()

		if _, err := DecodeMap([]byte(testSchema), []byte(`name: "x`), "#Config", "config.cue"); err == nil {
			t.Fatal("expected syntax error")
		}
	})
}
