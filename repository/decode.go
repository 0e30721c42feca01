package repository

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/dvrpc/traffic-counts-api/models"
)

// DecodeError reports a database row that does not fit the expected shape.
type DecodeError struct {
	Query string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s row: %v", e.Query, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

var (
	dateType     = reflect.TypeOf(models.Date{})
	dateTimeType = reflect.TypeOf(models.DateTime{})
	timeType     = reflect.TypeOf(time.Time{})
	bytesType    = reflect.TypeOf([]byte(nil))
)

// Layouts accepted for temporal columns that come back as text.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	models.DateTimeLayout,
	models.DateLayout,
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a date", s)
}

// temporalHook converts driver values into the zone-less model types.
func temporalHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != dateType && to != dateTimeType && to != timeType {
		return data, nil
	}

	var t time.Time
	switch v := data.(type) {
	case time.Time:
		t = v
	case string:
		parsed, err := parseTime(v)
		if err != nil {
			return nil, err
		}
		t = parsed
	case []byte:
		parsed, err := parseTime(string(v))
		if err != nil {
			return nil, err
		}
		t = parsed
	default:
		return data, nil
	}

	switch to {
	case dateType:
		return models.NewDate(t), nil
	case dateTimeType:
		return models.NewDateTime(t), nil
	}
	return t, nil
}

// bytesHook turns driver byte slices into strings before weak typing kicks in.
func bytesHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from != bytesType || to == bytesType {
		return data, nil
	}
	return string(data.([]byte)), nil
}

// requireValues fails when a column mapped to a non-pointer field of dst is
// NULL. mapstructure skips nil input without calling the hooks, which would
// leave the field at its zero value.
func requireValues(row map[string]any, dst any) error {
	t := reflect.TypeOf(dst)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	nulls := make(map[string]bool, len(row))
	for k, v := range row {
		if v == nil {
			nulls[strings.ToLower(k)] = true
		}
	}
	if len(nulls) == 0 {
		return nil
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Type.Kind() == reflect.Ptr {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		if nulls[strings.ToLower(name)] {
			return fmt.Errorf("column %s is null", name)
		}
	}
	return nil
}

// decodeRow maps one scanned row onto dst using the mapstructure tags.
func decodeRow(query string, row map[string]any, dst any) error {
	if err := requireValues(row, dst); err != nil {
		return &DecodeError{Query: query, Err: err}
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(bytesHook, temporalHook),
		WeaklyTypedInput: true,
		Result:           dst,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(row); err != nil {
		return &DecodeError{Query: query, Err: err}
	}
	return nil
}

// decodeRows decodes every row into a new T.
func decodeRows[T any](query string, rows []map[string]any) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		var item T
		if err := decodeRow(query, row, &item); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
