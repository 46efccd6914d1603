package model

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrMalformed is returned when stored history content has the right syntax
// but not the right shape.
var ErrMalformed = errors.New("malformed history")

// --- Wire structures ---
//
// Intervals are externally tagged: exactly one of InProgress or Complete is
// present, keyed by variant name. Files written by earlier versions of the
// tool use the same layout.

type inProgressRecord struct {
	Start Date `yaml:"start" json:"start"`
}

type completeRecord struct {
	Start Date `yaml:"start" json:"start"`
	End   Date `yaml:"end" json:"end"`
}

type intervalRecord struct {
	InProgress *inProgressRecord `yaml:"InProgress,omitempty" json:"InProgress,omitempty"`
	Complete   *completeRecord   `yaml:"Complete,omitempty" json:"Complete,omitempty"`
}

type setRecord struct {
	Jots     []Jot          `yaml:"jots" json:"jots"`
	Interval intervalRecord `yaml:"interval" json:"interval"`
}

type historyRecord struct {
	Sets []setRecord `yaml:"sets" json:"sets"`
}

func toIntervalRecord(iv DateInterval) intervalRecord {
	switch v := iv.(type) {
	case InProgress:
		return intervalRecord{InProgress: &inProgressRecord{Start: v.Start}}
	case Complete:
		return intervalRecord{Complete: &completeRecord{Start: v.Start, End: v.End}}
	default:
		panic(fmt.Sprintf("model: unknown interval type %T", iv))
	}
}

func (r intervalRecord) interval() (DateInterval, error) {
	switch {
	case r.InProgress != nil && r.Complete != nil:
		return nil, fmt.Errorf("%w: interval has both InProgress and Complete", ErrMalformed)
	case r.InProgress != nil:
		return InProgress{Start: r.InProgress.Start}, nil
	case r.Complete != nil:
		return Complete{Start: r.Complete.Start, End: r.Complete.End}, nil
	default:
		return nil, fmt.Errorf("%w: interval has neither InProgress nor Complete", ErrMalformed)
	}
}

func (h *JotHistory) record() historyRecord {
	var rec historyRecord
	for _, s := range h.sets() {
		jots := s.Jots
		if jots == nil {
			jots = []Jot{}
		}
		rec.Sets = append(rec.Sets, setRecord{Jots: jots, Interval: toIntervalRecord(s.Interval)})
	}
	return rec
}

func (rec historyRecord) history() (*JotHistory, error) {
	if len(rec.Sets) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, ErrEmptyHistory)
	}
	sets := make([]JotSet, 0, len(rec.Sets))
	for i, sr := range rec.Sets {
		iv, err := sr.Interval.interval()
		if err != nil {
			return nil, fmt.Errorf("set %d: %w", i, err)
		}
		sets = append(sets, JotSet{Jots: sr.Jots, Interval: iv})
	}
	h, err := FromSets(sets)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return h, nil
}

// MarshalYAML implements yaml.Marshaler.
func (h *JotHistory) MarshalYAML() (interface{}, error) {
	return h.record(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (h *JotHistory) UnmarshalYAML(value *yaml.Node) error {
	var rec historyRecord
	if err := value.Decode(&rec); err != nil {
		return err
	}
	decoded, err := rec.history()
	if err != nil {
		return err
	}
	*h = *decoded
	return nil
}

// legacyInProgress is how JSON history files spell StateInProgress. Older
// releases of the tool can read nothing else.
const legacyInProgress = "InProgess"

type jsonJot struct {
	Content string `json:"value"`
	State   string `json:"state"`
}

type jsonSetRecord struct {
	Jots     []jsonJot      `json:"jots"`
	Interval intervalRecord `json:"interval"`
}

type jsonHistoryRecord struct {
	Sets []jsonSetRecord `json:"sets"`
}

func (rec historyRecord) jsonRecord() (jsonHistoryRecord, error) {
	out := jsonHistoryRecord{Sets: make([]jsonSetRecord, 0, len(rec.Sets))}
	for _, sr := range rec.Sets {
		jots := make([]jsonJot, 0, len(sr.Jots))
		for _, j := range sr.Jots {
			if !j.State.Valid() {
				return jsonHistoryRecord{}, fmt.Errorf("%w: %q", ErrUnknownState, string(j.State))
			}
			state := string(j.State)
			if j.State == StateInProgress {
				state = legacyInProgress
			}
			jots = append(jots, jsonJot{Content: j.Content, State: state})
		}
		out.Sets = append(out.Sets, jsonSetRecord{Jots: jots, Interval: sr.Interval})
	}
	return out, nil
}

// MarshalJSON implements json.Marshaler. In-progress jots are written with
// the legacy state spelling so older releases can still read the file.
func (h *JotHistory) MarshalJSON() ([]byte, error) {
	rec, err := h.record().jsonRecord()
	if err != nil {
		return nil, err
	}
	return json.Marshal(rec)
}

// UnmarshalJSON implements json.Unmarshaler.
func (h *JotHistory) UnmarshalJSON(data []byte) error {
	var rec historyRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	decoded, err := rec.history()
	if err != nil {
		return err
	}
	*h = *decoded
	return nil
}
