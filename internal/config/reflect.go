package config

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/imgajeed76/gridview/internal/util"
)

// ConfigField represents metadata about a config field extracted from struct tags
type ConfigField struct {
	Key      string // e.g., "table.page_size"
	Default  string // default value as string
	Desc     string // description for help text
	Min      int    // minimum value for int fields (0 = no limit)
	Max      int    // maximum value for int fields (0 = no limit)
	Type     string // "string", "int", "bool" or "float"
	Category string // e.g., "table", "zoom"
}

var (
	fieldCacheOnce sync.Once
	fieldCache     []ConfigField
)

// configFields extracts all config fields from Config using reflection
func configFields() []ConfigField {
	fieldCacheOnce.Do(func() {
		var fields []ConfigField
		t := reflect.TypeOf(Config{})
		extractFields(t, &fields)

		sort.Slice(fields, func(i, j int) bool {
			return fields[i].Key < fields[j].Key
		})
		fieldCache = fields
	})
	return fieldCache
}

// extractFields recursively extracts config fields from a struct
func extractFields(t reflect.Type, fields *[]ConfigField) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		configKey := field.Tag.Get("config")
		if configKey == "" {
			if field.Type.Kind() == reflect.Struct {
				extractFields(field.Type, fields)
			}
			continue
		}

		cf := ConfigField{
			Key:      configKey,
			Default:  field.Tag.Get("default"),
			Desc:     field.Tag.Get("desc"),
			Category: strings.Split(configKey, ".")[0],
		}

		if minStr := field.Tag.Get("min"); minStr != "" {
			cf.Min, _ = strconv.Atoi(minStr)
		}
		if maxStr := field.Tag.Get("max"); maxStr != "" {
			cf.Max, _ = strconv.Atoi(maxStr)
		}

		switch field.Type.Kind() {
		case reflect.Int:
			cf.Type = "int"
		case reflect.String:
			cf.Type = "string"
		case reflect.Bool:
			cf.Type = "bool"
		case reflect.Float64:
			cf.Type = "float"
		}

		*fields = append(*fields, cf)
	}
}

// findField finds a config field by key
func findField(key string) *ConfigField {
	key = normalizeKey(key)
	for _, f := range configFields() {
		if f.Key == key {
			return &f
		}
	}
	return nil
}

// normalizeKey handles key aliases
func normalizeKey(key string) string {
	aliases := map[string]string{
		"table.pagesize": "table.page_size",
		"page_size":      "table.page_size",
		"layout":         "table.layout",
	}
	key = strings.ToLower(strings.TrimSpace(key))
	if normalized, ok := aliases[key]; ok {
		return normalized
	}
	return key
}

// lookupField returns the addressable struct field tagged with key.
func lookupField(cfg *Config, key string) (reflect.Value, bool) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return reflect.Value{}, false
	}

	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	var section reflect.Value
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("toml") == parts[0] {
			section = v.Field(i)
			break
		}
	}
	if !section.IsValid() || section.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}

	st := section.Type()
	for i := 0; i < st.NumField(); i++ {
		if st.Field(i).Tag.Get("config") == key {
			return section.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// getFieldValue gets a field value from the config using reflection
func getFieldValue(cfg *Config, key string) (string, bool) {
	fv, ok := lookupField(cfg, normalizeKey(key))
	if !ok {
		return "", false
	}
	switch fv.Kind() {
	case reflect.String:
		return fv.String(), true
	case reflect.Int:
		return strconv.FormatInt(fv.Int(), 10), true
	case reflect.Bool:
		return strconv.FormatBool(fv.Bool()), true
	case reflect.Float64:
		return strconv.FormatFloat(fv.Float(), 'f', -1, 64), true
	}
	return "", false
}

// setFieldValue sets a field value on the config using reflection
func setFieldValue(cfg *Config, key, value string) error {
	key = normalizeKey(key)

	field := findField(key)
	if field == nil {
		return util.ConfigKeyError(key)
	}

	fv, ok := lookupField(cfg, key)
	if !ok {
		return util.ConfigKeyError(key)
	}

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(value)

	case reflect.Int:
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value: %s", value)
		}
		if field.Min != 0 && intVal < field.Min {
			return fmt.Errorf("value %d is below minimum %d", intVal, field.Min)
		}
		if field.Max != 0 && intVal > field.Max {
			return fmt.Errorf("value %d exceeds maximum %d", intVal, field.Max)
		}
		fv.SetInt(int64(intVal))

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value: %s", value)
		}
		fv.SetBool(b)

	case reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number value: %s", value)
		}
		fv.SetFloat(f)

	default:
		return fmt.Errorf("field not settable: %s", key)
	}
	return nil
}

// ListKeys returns all available config keys
func ListKeys() []string {
	fields := configFields()
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.Key
	}
	return keys
}

// GetFieldsByCategory returns config fields grouped by category
func GetFieldsByCategory() map[string][]ConfigField {
	result := make(map[string][]ConfigField)
	for _, f := range configFields() {
		result[f.Category] = append(result[f.Category], f)
	}
	return result
}

// GenerateHelpText generates help text for config options
func GenerateHelpText() string {
	var sb strings.Builder

	byCategory := GetFieldsByCategory()

	categories := []struct {
		key   string
		title string
	}{
		{"table", "Table"},
		{"zoom", "Zoom"},
		{"scroll", "Scrolling"},
		{"log", "Logging"},
	}

	for _, cat := range categories {
		fields, ok := byCategory[cat.key]
		if !ok || len(fields) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("  %s:\n", cat.title))
		for _, f := range fields {
			defaultStr := ""
			if f.Default != "" {
				defaultStr = fmt.Sprintf(" (default: %s)", f.Default)
			}
			sb.WriteString(fmt.Sprintf("    %-28s %s%s\n", f.Key, f.Desc, defaultStr))
		}
		sb.WriteString("\n")
	}

	return strings.TrimSuffix(sb.String(), "\n")
}
