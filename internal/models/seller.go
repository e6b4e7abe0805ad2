// Package models содержит доменные структуры витрины: продавца, введённые
// данные карты и запрос к платёжному эндпоинту.
package models

// Seller представляет аутентифицированного продавца.
// Отсутствие продавца (nil) означает, что пользователь не вошёл в систему.
type Seller struct {
	ID           string // Идентификатор продавца
	Email        string // Электронная почта
	Name         string // Отображаемое имя
	SessionToken string // Токен сессии, пробрасывается в платёжный эндпоинт
}
