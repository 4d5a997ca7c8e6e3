package toolbox

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// DecodeArgs decodes a raw argument map into a typed request struct.
// Fields are matched by mapstructure tags, falling back to field names.
// Unknown keys are ignored so schema evolution on the model side does
// not break older tools.
func DecodeArgs(args map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("build argument decoder: %w", err)
	}
	if err := decoder.Decode(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}
