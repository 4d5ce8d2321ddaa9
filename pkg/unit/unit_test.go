// pkg/unit/unit_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test lazy single structural build and line helpers

package unit_test

import (
	"sync"
	"testing"

	"github.com/arthur-debert/codeguard/pkg/unit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileUnit_StructureBuiltOnce(t *testing.T) {
	u := unit.New("pkg/a.go", []byte("package a\n\nfunc A() {}\n"), "")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tree, err := u.Structure()
			assert.NoError(t, err)
			assert.NotNil(t, tree)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, u.Builds())
}

func TestFileUnit_ParseErrorCached(t *testing.T) {
	u := unit.New("broken.go", []byte("package"), "")

	_, err1 := u.Structure()
	_, err2 := u.Structure()

	assert.Error(t, err1)
	assert.Equal(t, err1, err2)
	assert.Equal(t, 1, u.Builds())
}

func TestFileUnit_Hash(t *testing.T) {
	u := unit.New("a.txt", []byte("hello"), "")
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", u.Hash)

	preset := unit.New("a.txt", []byte("hello"), "abc")
	assert.Equal(t, "abc", preset.Hash)
	assert.False(t, preset.HasStructure())
}

func TestLineHelpers(t *testing.T) {
	content := []byte("one\r\ntwo\nthree\n")

	assert.Equal(t, []string{"one", "two", "three"}, unit.SplitLines(content))
	assert.Nil(t, unit.SplitLines(nil))

	u := unit.New("a.txt", content, "")
	assert.Equal(t, "two", u.Line(2))
	assert.Equal(t, "", u.Line(9))

	line, col := unit.Position(content, 9)
	require.Equal(t, 3, line)
	assert.Equal(t, 1, col)

	line, col = unit.Position(content, 2)
	assert.Equal(t, 1, line)
	assert.Equal(t, 3, col)
}
