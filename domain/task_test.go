package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatchApply(t *testing.T) {
	base := Task{ID: "a", Title: "Buy milk", Date: "2024-01-01", Priority: "low"}
	high := "high"

	got := Patch{Priority: &high}.Apply(base)

	assert.Equal(t, "a", got.ID)
	assert.Equal(t, "Buy milk", got.Title)
	assert.Equal(t, "2024-01-01", got.Date)
	assert.Equal(t, "high", got.Priority)
	assert.Equal(t, "low", base.Priority, "original must not be mutated")
}

func TestPatchApplyEmptyStringOverwrites(t *testing.T) {
	empty := ""
	got := Patch{Title: &empty}.Apply(Task{Title: "x"})
	assert.Equal(t, "", got.Title)
}

func TestPatchFrom(t *testing.T) {
	src := Task{ID: "ignored", Title: "t", Date: "d", Description: "desc", Priority: "p"}
	got := PatchFrom(src).Apply(Task{ID: "keep"})
	assert.Equal(t, Task{ID: "keep", Title: "t", Date: "d", Description: "desc", Priority: "p"}, got)
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Buy milk":        "buy-milk",
		"  Call   Mom  ":  "call-mom",
		"":                "",
		"ALREADY-slugged": "already-slugged",
		"Call mom/dad":    "call-mom-dad",
		"50% off?!":       "50-off",
		"café au lait":    "caf-au-lait",
		"/// ":            "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slug(in), "Slug(%q)", in)
	}
}

func TestNewID(t *testing.T) {
	id := NewID("Buy milk")
	require.True(t, strings.HasPrefix(id, "buy-milk-"))
	_, err := uuid.Parse(strings.TrimPrefix(id, "buy-milk-"))
	assert.NoError(t, err)

	bare := NewID("   ")
	_, err = uuid.Parse(bare)
	assert.NoError(t, err)

	assert.NotContains(t, NewID("Call mom/dad"), "/")

	assert.NotEqual(t, NewID("same"), NewID("same"))
}
