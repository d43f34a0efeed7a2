package sig

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefine(t *testing.T) {
	t.Run("instance props drive effects", func(t *testing.T) {
		log := []string{}

		def, err := Define("test-greeting", func(host *Instance) {
			name := host.PropSignal(0)
			NewEffect(func() {
				log = append(log, fmt.Sprintf("hello %v", name.Read()))
			})
			OnCleanup(func() {
				log = append(log, "unmounted")
			})
		}, []string{"name"})
		require.NoError(t, err)

		found, ok := Lookup("test-greeting")
		require.True(t, ok)
		assert.Same(t, def, found)

		inst, err := def.New(map[string]any{"name": "ada"})
		require.NoError(t, err)
		assert.Same(t, def, inst.Definition())

		require.NoError(t, inst.Set("name", "grace"))
		v, ok := inst.Get("name")
		assert.True(t, ok)
		assert.Equal(t, "grace", v)

		inst.Unmount()
		require.NoError(t, inst.Set("name", "linus"))

		assert.Equal(t, []string{"hello ada", "hello grace", "unmounted"}, log)
	})

	t.Run("attributes map to camel case props", func(t *testing.T) {
		def, err := Define("test-attrs", nil, []string{"maxLength"})
		require.NoError(t, err)

		inst, err := def.New(nil)
		require.NoError(t, err)

		require.NoError(t, inst.SetAttribute("max-length", "4"))
		v, _ := inst.Get("maxLength")
		assert.Equal(t, "4", v)

		assert.Error(t, inst.Set("missing", 1))
		_, ok := inst.Get("missing")
		assert.False(t, ok)
	})

	t.Run("rejects invalid definitions", func(t *testing.T) {
		for _, tag := range []string{"", "counter", "My-counter", "x-count!"} {
			_, err := Define(tag, nil, nil)
			assert.Error(t, err, tag)
		}

		_, err := Define("test-dup-prop", nil, []string{"a", "a"})
		assert.ErrorContains(t, err, "duplicate property")

		_, err = Define("test-twice", nil, nil)
		require.NoError(t, err)
		_, err = Define("test-twice", nil, nil)
		assert.ErrorContains(t, err, "already defined")
	})

	t.Run("failed setup disposes the instance", func(t *testing.T) {
		cleaned := false

		def, err := Define("test-broken", func(host *Instance) {
			OnCleanup(func() { cleaned = true })
			panic("broken")
		}, nil)
		require.NoError(t, err)

		_, err = def.New(nil)
		assert.EqualError(t, err, "sig: panic: broken")
		assert.True(t, cleaned)
	})
}

func TestAttributeNames(t *testing.T) {
	for attr, prop := range map[string]string{
		"title":      "title",
		"max-length": "maxLength",
		"aria-label": "ariaLabel",
	} {
		assert.Equal(t, prop, PropertyName(attr))
		assert.Equal(t, attr, AttributeName(prop))
	}
}
