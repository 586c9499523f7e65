package command

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/viant/sanction/model/fault"
)

type wire struct {
	Name    Name            `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

type decoder func(payload []byte) (Envelope, error)

var registry = map[Name]decoder{
	UpdateAccountName:     decoderOf[UpdateAccount](),
	UpdateAccountRoleName: decoderOf[UpdateAccountRole](),
	DeleteTournamentName:  decoderOf[DeleteTournament](),
	DeleteTrainingName:    decoderOf[DeleteTraining](),
}

func decoderOf[T Envelope]() decoder {
	return func(payload []byte) (Envelope, error) {
		var ret T
		dec := json.NewDecoder(bytes.NewReader(payload))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&ret); err != nil {
			return nil, err
		}
		return ret, nil
	}
}

// Names returns every registered variant name in lexical order.
func Names() []Name {
	ret := make([]Name, 0, len(registry))
	for name := range registry {
		ret = append(ret, name)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i] < ret[j] })
	return ret
}

// IsRegistered reports whether name identifies a known variant.
func IsRegistered(name Name) bool {
	_, ok := registry[name]
	return ok
}

// Encode serializes an envelope to its self-describing JSON form.
func Encode(envelope Envelope) (string, error) {
	envelope, err := Canonical(envelope)
	if err != nil {
		return "", fault.Serialization(nil, "nil envelope")
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return "", fault.Serialization(err, "encode %s", envelope.Name())
	}
	data, err := json.Marshal(&wire{Name: envelope.Name(), Payload: payload})
	if err != nil {
		return "", fault.Serialization(err, "encode %s", envelope.Name())
	}
	return string(data), nil
}

// Decode rebuilds an envelope from its encoded form.
func Decode(encoded string) (Envelope, error) {
	var w wire
	if err := json.Unmarshal([]byte(encoded), &w); err != nil {
		return nil, fault.Serialization(err, "decode envelope")
	}
	decode, ok := registry[w.Name]
	if !ok {
		return nil, fault.Serialization(nil, "unknown command %q", w.Name)
	}
	if len(w.Payload) == 0 || bytes.Equal(w.Payload, []byte("null")) {
		return nil, fault.Serialization(nil, "%s: missing payload", w.Name)
	}
	ret, err := decode(w.Payload)
	if err != nil {
		return nil, fault.Serialization(err, "decode %s", w.Name)
	}
	return ret, nil
}
