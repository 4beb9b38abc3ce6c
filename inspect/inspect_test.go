package inspect

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/emitx"
)

type moved struct{ X, Y int }

func newPopulatedEmitter(t *testing.T) (*emitx.Emitter, *emitx.Connection) {
	t.Helper()
	em := emitx.New()
	conn := emitx.On(em, emitx.NewEvent[moved]("player.moved"), emitx.Func(func(moved) {}))

	quit := emitx.NewEvent[string]("quit")
	h := emitx.Func(func(string) {})
	emitx.On(em, quit, h)
	require.NoError(t, emitx.Off(em, quit, h))
	return em, conn
}

func TestTake(t *testing.T) {
	em, conn := newPopulatedEmitter(t)

	snap := Take(em)

	require.Len(t, snap.Events, 2)
	assert.False(t, snap.Timestamp.IsZero())
	assert.Equal(t, Entry{
		Name:        "player.moved",
		PayloadType: "inspect.moved",
		Listeners:   1,
		Connections: []string{conn.ID().String()},
	}, snap.Events[0])
	assert.Equal(t, "quit", snap.Events[1].Name)
	assert.Zero(t, snap.Events[1].Listeners)
	assert.Equal(t, 1, snap.Listeners())
}

func TestYAMLRoundTrip(t *testing.T) {
	snap := Snapshot{
		Timestamp: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Events: []Entry{
			{Name: "a", PayloadType: "string", Listeners: 2, Connections: []string{"c1", "c2"}},
			{Name: "b", PayloadType: "int"},
		},
	}

	data, err := snap.YAML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "payloadType: string")
	assert.NotContains(t, string(data), "connections: []")

	got, err := ParseYAML(data)
	require.NoError(t, err)
	assert.True(t, snap.Timestamp.Equal(got.Timestamp))
	assert.Equal(t, snap.Events, got.Events)
}

func TestJSONRoundTrip(t *testing.T) {
	em, _ := newPopulatedEmitter(t)
	snap := Take(em)

	data, err := snap.JSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name": "player.moved"`)

	got, err := ParseJSON(data)
	require.NoError(t, err)
	assert.Equal(t, snap.Events, got.Events)
}

func TestParseErrors(t *testing.T) {
	_, err := ParseJSON([]byte("{"))
	assert.ErrorContains(t, err, "json unmarshal")

	_, err = ParseYAML([]byte("events: [unterminated"))
	assert.ErrorContains(t, err, "yaml unmarshal")
}

func TestDOT(t *testing.T) {
	snap := Snapshot{Events: []Entry{
		{Name: "live", PayloadType: "int", Listeners: 1, Connections: []string{"0f8fad5b-d9cb-469f-a165-70867728950e"}},
		{Name: "idle", PayloadType: "string"},
	}}

	dot := snap.DOT()

	assert.True(t, strings.HasPrefix(dot, "digraph Emitter {"))
	assert.Contains(t, dot, `"live" -> "0f8fad5b-d9cb-469f-a165-70867728950e";`)
	assert.Contains(t, dot, `label="0f8fad5b"`)
	assert.Contains(t, dot, `"idle" [label="idle\nstring" style="rounded,filled" fillcolor=lightgrey];`)
	assert.True(t, strings.HasSuffix(dot, "}\n"))
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "json", want: FormatJSON},
		{in: "YAML", want: FormatYAML},
		{in: "yml", want: FormatYAML},
		{in: "dot", want: FormatDOT},
		{in: "xml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWrite(t *testing.T) {
	em, _ := newPopulatedEmitter(t)
	snap := Take(em)

	for _, f := range []Format{FormatJSON, FormatYAML, FormatDOT} {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, snap, f), "format %s", f)
		assert.Contains(t, buf.String(), "player.moved", "format %s", f)
	}

	assert.Error(t, Write(&bytes.Buffer{}, snap, Format("xml")))
}
