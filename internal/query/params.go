package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/usersapi/internal/common"
	"github.com/dmitrijs2005/usersapi/internal/schema"
)

// FromRawQuery builds a Filter from a URL query string such as
// "gender=male&location[zip]=12345&dobMax=932871969".
//
// The raw string is walked in order so the filter keeps the caller's
// parameter order. Values of int fields are converted to int64; empty
// values are treated as absent.
func FromRawQuery(raw string, obj *schema.Object) (*Filter, error) {
	f := NewFilter()
	seen := make(map[string]struct{})

	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")

		key, err := url.QueryUnescape(k)
		if err != nil {
			return nil, fmt.Errorf("%w: bad parameter name %q", common.ErrorValidation, k)
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			return nil, fmt.Errorf("%w: bad value for %q", common.ErrorValidation, key)
		}

		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: duplicate parameter %q", common.ErrorValidation, key)
		}
		seen[key] = struct{}{}

		parent, sub, nested, err := splitBracket(key)
		if err != nil {
			return nil, err
		}

		if nested {
			field, ok := obj.Field(parent)
			if !ok || field.Kind != schema.KindObject {
				return nil, fmt.Errorf("%w: %q has no sub-fields", common.ErrorValidation, parent)
			}
			subField, ok := field.Object.Field(sub)
			if !ok || subField.Kind == schema.KindObject {
				return nil, fmt.Errorf("%w: unknown filter key %s[%s]", common.ErrorValidation, parent, sub)
			}
			typed, present, err := convert(key, subField.Kind, value)
			if err != nil {
				return nil, err
			}
			if present {
				f.SetNested(parent, sub, typed)
			}
			continue
		}

		kind := schema.KindInt
		if !schema.IsRangeKey(key) {
			field, ok := obj.Field(key)
			if !ok {
				return nil, fmt.Errorf("%w: unknown filter key %q", common.ErrorValidation, key)
			}
			if field.Kind == schema.KindObject {
				return nil, fmt.Errorf("%w: %q is an object, use %s[field]", common.ErrorValidation, key, key)
			}
			kind = field.Kind
		}

		typed, present, err := convert(key, kind, value)
		if err != nil {
			return nil, err
		}
		if present {
			f.Set(key, typed)
		}
	}

	return f, nil
}

func splitBracket(key string) (parent, sub string, nested bool, err error) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		return key, "", false, nil
	}
	if open == 0 || !strings.HasSuffix(key, "]") || open+2 > len(key)-1 {
		return "", "", false, fmt.Errorf("%w: malformed parameter %q", common.ErrorValidation, key)
	}
	sub = key[open+1 : len(key)-1]
	if strings.ContainsAny(sub, "[]") {
		return "", "", false, fmt.Errorf("%w: malformed parameter %q", common.ErrorValidation, key)
	}
	return key[:open], sub, true, nil
}

func convert(key string, kind schema.Kind, value string) (any, bool, error) {
	if value == "" {
		return nil, false, nil
	}
	if kind != schema.KindInt {
		return value, true, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %q expects an integer, got %q", common.ErrorValidation, key, value)
	}
	return n, true, nil
}
