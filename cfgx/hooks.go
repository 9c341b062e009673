package cfgx

import (
	"encoding"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
)

// ListSeparator splits string values decoded into slices, as in
// LOG_ALLOWED_CONTEXTS=ui,api.
var ListSeparator = ","

// DefaultDecodeHooks converts the string forms options take in the
// environment and in files: durations, comma lists and anything
// implementing encoding.TextUnmarshaler, logger.Level included.
func DefaultDecodeHooks() []mapstructure.DecodeHookFunc {
	return []mapstructure.DecodeHookFunc{
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(ListSeparator),
		TextUnmarshalerHook(),
	}
}

func TextUnmarshalerHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String {
			return data, nil
		}
		ptr := reflect.New(to)
		u, ok := ptr.Interface().(encoding.TextUnmarshaler)
		if !ok {
			return data, nil
		}
		if err := u.UnmarshalText([]byte(reflect.ValueOf(data).String())); err != nil {
			return nil, err
		}
		return ptr.Elem().Interface(), nil
	}
}
