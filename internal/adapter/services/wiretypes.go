package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// flexString accepts a JSON string or number.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*s = flexString(n.String())
	return nil
}

// flexInt accepts a JSON number or a numeric string. Empty strings are zero.
type flexInt int

func (i *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	var raw string
	if b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			*i = 0
			return nil
		}
	} else {
		raw = string(b)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("expected integer, got %s", b)
	}
	*i = flexInt(f)
	return nil
}

func (i *flexInt) orZero() int {
	if i == nil {
		return 0
	}
	return int(*i)
}

// flexTime accepts RFC 3339 timestamps and plain dates.
type flexTime struct {
	time.Time
}

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

func (t *flexTime) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("expected date string, got %s", b)
	}
	if raw == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if v, err := time.Parse(layout, raw); err == nil {
			t.Time = v
			return nil
		}
	}
	return fmt.Errorf("unsupported date %q", raw)
}

func (t *flexTime) ptr() *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}

// ref accepts an id string, a number or a populated {"_id"|"id"} object.
type ref string

func (r *ref) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '{' {
		var obj struct {
			ID      flexString `json:"id"`
			MongoID flexString `json:"_id"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		*r = ref(firstNonEmpty(string(obj.MongoID), string(obj.ID)))
		return nil
	}
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	*r = ref(s)
	return nil
}

// imageRef accepts a URL string or an object carrying one.
type imageRef string

func (r *imageRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = imageRef(s)
		return nil
	}
	var obj struct {
		URL       string `json:"url"`
		SecureURL string `json:"secure_url"`
		Src       string `json:"src"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("unsupported image reference %s", b)
	}
	*r = imageRef(firstNonEmpty(obj.SecureURL, obj.URL, obj.Src))
	return nil
}

// dimensions accepts "100x70 cm" or {"height":100,"width":70,"unit":"cm"}.
type dimensions string

func (d *dimensions) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = dimensions(s)
		return nil
	}
	var obj struct {
		Height json.Number `json:"height"`
		Width  json.Number `json:"width"`
		Depth  json.Number `json:"depth"`
		Unit   string      `json:"unit"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("unsupported dimensions %s", b)
	}
	if obj.Height == "" || obj.Width == "" {
		return nil
	}
	s := obj.Height.String() + "x" + obj.Width.String()
	if obj.Depth != "" {
		s += "x" + obj.Depth.String()
	}
	if obj.Unit != "" {
		s += " " + obj.Unit
	}
	*d = dimensions(s)
	return nil
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func firstBool(def bool, vs ...*bool) bool {
	for _, v := range vs {
		if v != nil {
			return *v
		}
	}
	return def
}

func currencyOrDefault(c string) string {
	c = strings.ToUpper(strings.TrimSpace(c))
	if c == "" {
		return defaultCurrency
	}
	return c
}

const defaultCurrency = "ARS"
