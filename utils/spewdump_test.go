package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSDump(t *testing.T) {
	type joint struct {
		Name   string
		Parent *int
	}
	parent := 3
	dump := SDump(map[string]joint{"b": {"hand", &parent}, "a": {"root", nil}})

	assert.Less(t, strings.Index(dump, `"a"`), strings.Index(dump, `"b"`))
	assert.Contains(t, dump, `Name: (string) (len=4) "hand"`)
	assert.NotContains(t, dump, "0xc")
	assert.NotContains(t, dump, "cap=")
}
