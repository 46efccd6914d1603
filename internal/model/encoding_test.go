package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func sampleHistory(t *testing.T) *JotHistory {
	t.Helper()
	h := NewHistory(jan1)
	h.Insert(Jot{"buy milk", StateNotStarted})
	h.Insert(Jot{"ship report", StateCompleted})
	if err := h.Roll(jan8); err != nil {
		t.Fatalf("Roll: %v", err)
	}
	h.Insert(Jot{"write tests", StateInProgress})
	return h
}

func assertSameHistory(t *testing.T, got, want *JotHistory) {
	t.Helper()
	gs, ws := got.Sets(), want.Sets()
	if len(gs) != len(ws) {
		t.Fatalf("got %d sets, want %d", len(gs), len(ws))
	}
	for i := range ws {
		if !gs[i].Equal(ws[i]) {
			t.Errorf("set %d = %v, want %v", i, gs[i], ws[i])
		}
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	h := sampleHistory(t)
	data, err := yaml.Marshal(h)
	if err != nil {
		t.Fatalf("yaml.Marshal: %v", err)
	}

	var decoded JotHistory
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("yaml.Unmarshal: %v\n%s", err, data)
	}
	assertSameHistory(t, &decoded, h)
}

func TestJSONRoundTrip(t *testing.T) {
	h := sampleHistory(t)
	data, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}

	var decoded JotHistory
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal: %v\n%s", err, data)
	}
	assertSameHistory(t, &decoded, h)
}

func TestJSONLayout(t *testing.T) {
	h := NewHistory(jan1)
	h.Insert(Jot{"buy milk", StateNotStarted})
	data, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	want := `{"sets":[{"jots":[{"value":"buy milk","state":"NotStarted"}],"interval":{"InProgress":{"start":"2024-01-01"}}}]}`
	if string(data) != want {
		t.Errorf("json = %s\nwant   %s", data, want)
	}
}

func TestJSONWritesLegacyInProgress(t *testing.T) {
	h := NewHistory(jan1)
	h.Insert(Jot{"half done", StateInProgress})
	data, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	if !strings.Contains(string(data), `"state":"InProgess"`) {
		t.Errorf("json = %s, want legacy InProgess spelling", data)
	}

	var decoded JotHistory
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if got := decoded.Current().Jots[0].State; got != StateInProgress {
		t.Errorf("state = %q, want %q", got, StateInProgress)
	}

	// The interval tag keeps its correct spelling.
	if !strings.Contains(string(data), `"InProgress":{"start":"2024-01-01"}`) {
		t.Errorf("json = %s, want InProgress interval tag", data)
	}
}

func TestYAMLWritesInProgress(t *testing.T) {
	h := NewHistory(jan1)
	h.Insert(Jot{"half done", StateInProgress})
	data, err := yaml.Marshal(h)
	if err != nil {
		t.Fatalf("yaml.Marshal: %v", err)
	}
	if !strings.Contains(string(data), "state: InProgress") {
		t.Errorf("yaml = %s, want InProgress state", data)
	}
}

func TestDecodeLegacyJSON(t *testing.T) {
	// Layout and state spelling written by earlier releases.
	legacy := `{"sets":[
		{"jots":[{"value":"done thing","state":"Completed"},{"value":"half done","state":"InProgess"}],
		 "interval":{"Complete":{"start":"2024-01-01","end":"2024-01-08"}}},
		{"jots":[{"value":"half done","state":"InProgess"}],
		 "interval":{"InProgress":{"start":"2024-01-08"}}}
	]}`

	var h JotHistory
	if err := json.Unmarshal([]byte(legacy), &h); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if h.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", h.Len())
	}
	if got := h.Current().Jots[0]; got != (Jot{"half done", StateInProgress}) {
		t.Errorf("current jot = %v", got)
	}
}

func TestDecodeYAMLDocument(t *testing.T) {
	doc := `
sets:
  - jots:
      - value: buy milk
        state: not-started
    interval:
      Complete:
        start: 2024-01-01
        end: 2024-01-08
  - jots: []
    interval:
      InProgress:
        start: 2024-01-08
`
	var h JotHistory
	if err := yaml.Unmarshal([]byte(doc), &h); err != nil {
		t.Fatalf("yaml.Unmarshal: %v", err)
	}
	want := []DateInterval{Complete{Start: jan1, End: jan8}, InProgress{Start: jan8}}
	got := h.DateIntervals()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("interval %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"no sets", `{"sets":[]}`},
		{"untagged interval", `{"sets":[{"jots":[],"interval":{}}]}`},
		{"two tags", `{"sets":[{"jots":[],"interval":{"InProgress":{"start":"2024-01-01"},"Complete":{"start":"2024-01-01","end":"2024-01-02"}}}]}`},
		{"interval without start", `{"sets":[{"jots":[],"interval":{"InProgress":{}}}]}`},
		{"overlapping sets", `{"sets":[{"jots":[],"interval":{"Complete":{"start":"2024-01-01","end":"2024-01-08"}}},{"jots":[],"interval":{"InProgress":{"start":"2024-01-03"}}}]}`},
		{"open archived set", `{"sets":[{"jots":[],"interval":{"InProgress":{"start":"2024-01-01"}}},{"jots":[],"interval":{"InProgress":{"start":"2024-01-02"}}}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var h JotHistory
			err := json.Unmarshal([]byte(tc.doc), &h)
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
		})
	}

	t.Run("bad state", func(t *testing.T) {
		var h JotHistory
		err := json.Unmarshal([]byte(`{"sets":[{"jots":[{"value":"x","state":"Paused"}],"interval":{"InProgress":{"start":"2024-01-01"}}}]}`), &h)
		if err == nil || !strings.Contains(err.Error(), "Paused") {
			t.Fatalf("expected unknown state error, got %v", err)
		}
	})

	t.Run("bad date", func(t *testing.T) {
		var h JotHistory
		err := yaml.Unmarshal([]byte("sets:\n  - jots: []\n    interval:\n      InProgress:\n        start: yesterday\n"), &h)
		if err == nil {
			t.Fatal("expected date parse error")
		}
	})
}
