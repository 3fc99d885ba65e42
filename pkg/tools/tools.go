package tools

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/NguyenTruongDung-22029106/epl-prediction-bot/pkg/protocol"
)

// Registrar is implemented by the tool server.
type Registrar interface {
	RegisterTool(tool protocol.Tool, handler func(params any) (any, error))
}

func stringArg(params map[string]any, key string, required bool) (string, error) {
	v, ok := params[key]
	if !ok || v == nil {
		if required {
			return "", fmt.Errorf("%s parameter is required", key)
		}
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s parameter must be a string", key)
	}
	s = strings.TrimSpace(s)
	if required && s == "" {
		return "", fmt.Errorf("%s parameter must not be empty", key)
	}
	return s, nil
}

// numberArg accepts JSON numbers and numeric strings.
func numberArg(params map[string]any, key string) (float64, bool, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return 0, false, nil
	}
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false, fmt.Errorf("%s parameter must be a number: %w", key, err)
		}
		f = parsed
	default:
		return 0, false, fmt.Errorf("%s parameter must be a number", key)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false, fmt.Errorf("%s parameter must be finite", key)
	}
	return f, true, nil
}

func floatsArg(params map[string]any, key string) ([]float64, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s parameter must be an array of numbers", key)
	}
	out := make([]float64, 0, len(items))
	for i, item := range items {
		f, present, err := numberArg(map[string]any{key: item}, key)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", key, i, err)
		}
		if !present {
			return nil, fmt.Errorf("%s[%d] is null", key, i)
		}
		out = append(out, f)
	}
	return out, nil
}
