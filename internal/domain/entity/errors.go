package entity

import "errors"

// Standard domain errors
var (
	ErrInvalidRequest      = errors.New("invalid request parameters")
	ErrSettingsUnavailable = errors.New("settings store unavailable")
	ErrGenerationFailed    = errors.New("reply generation failed")
	ErrVerificationFailed  = errors.New("self-check verification failed")
)

// FallbackReplyText is the safe reply substituted when the generator fails or
// returns output the boundary cannot trust. It promises nothing and hands the
// conversation to a human.
const FallbackReplyText = "Спасибо за ваше сообщение! Передаю ваш вопрос менеджеру, он ответит в ближайшее время."
