package model

import "encoding/json"

// Optional явно хранит признак наличия значения.
type Optional[T any] struct {
	value T
	ok    bool
}

// Some возвращает Optional с установленным значением.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

// None возвращает пустой Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get возвращает значение и признак его наличия.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.ok
}

// Present сообщает, установлено ли значение.
func (o Optional[T]) Present() bool {
	return o.ok
}

// MarshalJSON кодирует отсутствующее значение как null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
