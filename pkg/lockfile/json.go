package lockfile

import (
	"encoding/json"
	"fmt"
)

// The variants marshal with an explicit "kind" discriminator so a package
// list survives a JSON round trip (API payloads, session stores).

type releasedJSON struct {
	Kind Kind `json:"kind"`
	*releasedAlias
}

// alias types suppress the custom marshaler on the inner value.
type releasedAlias Released
type vcsAlias VCS
type localAlias Local

func (p *Released) MarshalJSON() ([]byte, error) {
	return json.Marshal(releasedJSON{Kind: KindReleased, releasedAlias: (*releasedAlias)(p)})
}

func (p *VCS) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		*vcsAlias
	}{KindVCS, (*vcsAlias)(p)})
}

func (p *Local) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		*localAlias
	}{KindLocal, (*localAlias)(p)})
}

// Packages is a JSON-round-trippable package list. Unmarshaling dispatches
// on each element's "kind" discriminator.
type Packages []Package

func (ps *Packages) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}

	out := make(Packages, 0, len(raws))
	for _, raw := range raws {
		var tag struct {
			Kind Kind `json:"kind"`
		}
		if err := json.Unmarshal(raw, &tag); err != nil {
			return err
		}

		var p Package
		switch tag.Kind {
		case KindReleased:
			var v releasedAlias
			if err := json.Unmarshal(raw, &v); err != nil {
				return err
			}
			p = (*Released)(&v)
		case KindVCS:
			var v vcsAlias
			if err := json.Unmarshal(raw, &v); err != nil {
				return err
			}
			p = (*VCS)(&v)
		case KindLocal:
			var v localAlias
			if err := json.Unmarshal(raw, &v); err != nil {
				return err
			}
			p = (*Local)(&v)
		default:
			return fmt.Errorf("unknown package kind %q", tag.Kind)
		}
		out = append(out, p)
	}

	*ps = out
	return nil
}
