package req

import (
	"encoding/json"
	"errors"
	"io"
)

var ErrEmptyBody = errors.New("empty request body")

// Decode читает JSON тело запроса в T. Неизвестные поля запрещены.
func Decode[T any](body io.Reader) (T, error) {
	var payload T
	if body == nil {
		return payload, ErrEmptyBody
	}

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return payload, ErrEmptyBody
		}
		return payload, err
	}

	return payload, nil
}
