package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/AnatoleLucet/sig/compiler"
)

const counter = `<script>
	export let start = 0;
	let count = start;
</script>
<button on:click={() => count += 1}>{count}</button>`

func counterReport(t *testing.T) *compiler.Report {
	t.Helper()
	res, err := compiler.Compile(counter, compiler.Options{Filename: "Counter.sig"})
	require.NoError(t, err)
	return compiler.NewReport("Counter.sig", res)
}

func TestWriteReports(t *testing.T) {
	report := counterReport(t)

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeReports(&buf, "yaml", []*compiler.Report{report}))

		var got compiler.Report
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "x-counter", got.Tag)
		assert.Equal(t, []string{"start"}, got.Props)
		assert.Equal(t, []compiler.Binding{
			{Name: "start", Kind: "let", Class: "prop", Reactive: true, Export: "start"},
			{Name: "count", Kind: "let", Class: "mutable", Reactive: true},
		}, got.Bindings)
		assert.Contains(t, buf.String(), "\n  - name: start\n")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeReports(&buf, "json", []*compiler.Report{report, report}))

		var got []compiler.Report
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "Counter.sig", got[0].Filename)
	})

	t.Run("unsupported", func(t *testing.T) {
		err := writeReports(&bytes.Buffer{}, "toml", nil)
		assert.ErrorContains(t, err, "unsupported format")
	})
}
