package runner

import (
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/sunbun/assistant/pkg/domain"
)

// ErrUnknownOverride is returned when a state override names a key that is
// not part of the writable surface.
var ErrUnknownOverride = errors.New("unknown state override key")

// overrides is the writable surface a caller may patch directly alongside a
// message. Everything else in the state is owned by the graph.
type overrides struct {
	SupportType *string `mapstructure:"support_type"`
	Note        *string `mapstructure:"note"`
	Closed      *bool   `mapstructure:"closed"`
}

// decodeOverrides turns a raw override map into a typed patch. Unknown keys
// and invalid enum values are rejected so a client cannot smuggle arbitrary
// fields into the persisted state.
func decodeOverrides(raw map[string]any) (domain.Patch, error) {
	if len(raw) == 0 {
		return domain.Patch{}, nil
	}

	var ov overrides
	var meta mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &ov,
		Metadata:    &meta,
		ErrorUnused: true,
	})
	if err != nil {
		return domain.Patch{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return domain.Patch{}, fmt.Errorf("%w: %v", ErrUnknownOverride, err)
	}

	var patch domain.Patch
	if ov.SupportType != nil {
		st := domain.SupportType(*ov.SupportType)
		if st != domain.SupportSales && st != domain.SupportService {
			return domain.Patch{}, fmt.Errorf("invalid support_type override %q", *ov.SupportType)
		}
		patch.SupportType = &st
	}
	if ov.Note != nil {
		patch.Note = ov.Note
	}
	if ov.Closed != nil {
		patch.Closed = ov.Closed
	}
	return patch, nil
}
