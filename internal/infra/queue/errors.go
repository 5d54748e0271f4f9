package queue

import "errors"

var (
	// ErrUnknownEvent возвращается для события неизвестного типа
	ErrUnknownEvent = errors.New("queue: unknown event type")

	// ErrEncodePayload возвращается, когда событие не удалось сериализовать
	ErrEncodePayload = errors.New("queue: failed to encode payload")

	// ErrDecodePayload возвращается, когда тело задачи не удалось разобрать
	ErrDecodePayload = errors.New("queue: failed to decode payload")

	// ErrEnqueue возвращается, когда задачу не удалось поставить в очередь
	ErrEnqueue = errors.New("queue: failed to enqueue task")
)
