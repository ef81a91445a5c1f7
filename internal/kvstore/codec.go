package kvstore

import (
	"encoding/json"
	"strconv"
)

// Shared value encodings so every backend stores identical bytes and a
// database written by one backend can be read by another.

func encodeBool(v bool) string {
	return strconv.FormatBool(v)
}

func decodeBool(raw string) (bool, error) {
	return strconv.ParseBool(raw)
}

func encodeFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func decodeFloat(raw string) (float64, error) {
	return strconv.ParseFloat(raw, 64)
}

func encodeStringList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeStringList(raw string) ([]string, error) {
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, err
	}
	return values, nil
}
